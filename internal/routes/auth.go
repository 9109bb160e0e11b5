package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/remitlite/remitlite/internal/auth"
	"github.com/remitlite/remitlite/internal/identity"
)

// RegisterAuthRoutes wires authentication and profile endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, profiles *identity.Handler, rateLimiter, jwtmw fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", h.Register)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Get("/verify", h.Verify)
	group.Get("/profile", jwtmw, profiles.Profile)
	group.Put("/profile", jwtmw, profiles.UpdateProfile)
}
