package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Envelope is the JSON body shape of every response.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const genericServerError = "internal server error"

// JSON writes data wrapped in a 200 envelope.
func JSON(c *fiber.Ctx, data any) error {
	return c.Status(http.StatusOK).JSON(Envelope{Code: http.StatusOK, Data: data})
}

// Error writes an error envelope with the given status code.
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Envelope{Code: code, Message: message})
}

// ErrorHandler renders errors that escape handlers and middlewares as
// envelopes. Messages of non-fiber errors never reach the client.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return Error(c, fe.Code, fe.Message)
		}
		if logger != nil {
			logger.ErrorContext(c.UserContext(), "unhandled request error",
				slog.String("method", c.Method()),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		return Error(c, http.StatusInternalServerError, genericServerError)
	}
}
