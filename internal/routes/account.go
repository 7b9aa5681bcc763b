package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/account_balance/internal/account"
)

// RegisterAccountRoutes exposes the balance read. The legacy path is kept
// for clients that still call it.
func RegisterAccountRoutes(api, legacy fiber.Router, h *account.Handler, limiter fiber.Handler) {
	api.Get("/account/amount", limiter, h.Amount)
	legacy.Get("/account/getAmount", limiter, h.Amount)
}
