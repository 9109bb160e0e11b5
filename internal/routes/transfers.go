package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/transfer"
)

// RegisterTransferRoutes wires transfer creation and lookup. Creation accepts
// an optional Idempotency-Key.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler, idempotency fiber.Handler) {
	r.Post("/transfer", idempotency, h.Create)
	r.Post("/transfers", idempotency, h.Create)
	r.Get("/transfers", h.List)
	r.Get("/transfers/:id", h.Get)
}
