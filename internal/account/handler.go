package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/account_balance/internal/auth"
	"github.com/congo-pay/account_balance/internal/httpx"
	"github.com/congo-pay/account_balance/internal/middleware"
)

const (
	msgConfigFault  = "billing backend is not configured"
	msgUnauthorized = "token is invalid"
	msgNotFound     = "user is not found"
	msgFetchError   = "get amount error"
)

// Handler serves the authenticated balance read.
type Handler struct {
	billingURI string
	verifier   auth.Verifier
	reader     *Reader
	logger     *slog.Logger
}

// NewHandler wires the balance handler. billingURI is the configured billing
// backend location; when empty every request fails as a configuration fault.
func NewHandler(billingURI string, verifier auth.Verifier, reader *Reader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{billingURI: billingURI, verifier: verifier, reader: reader, logger: logger}
}

type amountResponse struct {
	Balance          json.Number `json:"balance"`
	DeductionBalance json.Number `json:"deductionBalance"`
}

// Amount returns the caller's balance and deduction balance.
func (h *Handler) Amount(c *fiber.Ctx) error {
	out := h.resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	return h.render(c, out)
}

func (h *Handler) resolve(ctx context.Context, credential string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: OutcomeFault, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if h.billingURI == "" {
		return Outcome{Kind: OutcomeConfigFault}
	}

	id, ok := h.verifier.Verify(ctx, credential)
	if !ok {
		return Outcome{Kind: OutcomeUnauthorized}
	}

	balance, err := h.reader.Fetch(ctx, id.UserUID)
	switch {
	case errors.Is(err, ErrNotFound):
		return Outcome{Kind: OutcomeNotFound}
	case err != nil:
		return Outcome{Kind: OutcomeFault, Err: err}
	}
	return Outcome{Kind: OutcomeOK, Balance: balance}
}

func (h *Handler) render(c *fiber.Ctx, out Outcome) error {
	switch out.Kind {
	case OutcomeOK:
		return httpx.JSON(c, amountResponse{
			Balance:          json.Number(out.Balance.Balance.String()),
			DeductionBalance: json.Number(out.Balance.DeductionBalance.String()),
		})
	case OutcomeConfigFault:
		h.logger.ErrorContext(c.UserContext(), "billing backend location is not configured",
			slog.String("request_id", middleware.RequestIDFrom(c)))
		return httpx.Error(c, http.StatusInternalServerError, msgConfigFault)
	case OutcomeUnauthorized:
		return httpx.Error(c, http.StatusUnauthorized, msgUnauthorized)
	case OutcomeNotFound:
		return httpx.Error(c, http.StatusNotFound, msgNotFound)
	default:
		h.logger.ErrorContext(c.UserContext(), "get amount failed",
			slog.String("request_id", middleware.RequestIDFrom(c)),
			slog.String("outcome", out.Kind.String()),
			slog.Any("error", out.Err))
		return httpx.Error(c, http.StatusInternalServerError, msgFetchError)
	}
}
