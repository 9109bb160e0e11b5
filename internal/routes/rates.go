package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/pricing"
	"github.com/remitlite/remitlite/internal/rates"
)

// RegisterRateRoutes wires currency and exchange rate endpoints.
func RegisterRateRoutes(r fiber.Router, h *rates.Handler) {
	r.Get("/currencies", h.Currencies)
	r.Get("/rates", h.Rates)
	r.Get("/exchange-rates", h.ExchangeRates)
	r.Post("/convert", h.Convert)
}

// RegisterPricingRoutes wires fee estimation and destination listing.
func RegisterPricingRoutes(r fiber.Router, h *pricing.Handler) {
	r.Get("/countries", h.Countries)
	r.Post("/estimate", h.Estimate)
}
