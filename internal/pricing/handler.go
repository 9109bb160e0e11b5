package pricing

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/validation"
)

// Handler exposes fee estimation and destination listing.
type Handler struct{}

// NewHandler constructs a pricing HTTP handler.
func NewHandler() *Handler {
	return &Handler{}
}

type estimateRequest struct {
	Amount      float64 `json:"amount" validate:"gt=0"`
	CountryCode string  `json:"countryCode" validate:"required,len=2"`
}

// Estimate returns fee, total cost and delivery time for a prospective transfer.
func (h *Handler) Estimate(c *fiber.Ctx) error {
	var req estimateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid JSON body")
	}
	if err := validation.Struct(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(Quote(req.Amount, req.CountryCode))
}

// Countries lists supported destination countries.
func (h *Handler) Countries(c *fiber.Ctx) error {
	return c.JSON(Countries)
}
