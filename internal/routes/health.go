package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

const notConfigured = "not configured"

// RegisterHealthRoutes adds the readiness endpoint.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/api/health", func(c *fiber.Ctx) error {
		dbStatus := notConfigured
		cacheStatus := notConfigured

		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		healthy := true
		if d.DB != nil {
			dbStatus = "connected"
			if err := d.DB.Ping(ctx); err != nil {
				dbStatus = err.Error()
				healthy = false
			}
		}
		if d.Cache != nil {
			cacheStatus = "connected"
			if err := d.Cache.Ping(ctx).Err(); err != nil {
				cacheStatus = err.Error()
				healthy = false
			}
		}

		status, label := http.StatusOK, "healthy"
		if !healthy {
			status, label = http.StatusServiceUnavailable, "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    label,
			"database":  dbStatus,
			"cache":     cacheStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}

// RegisterHomeRoute serves the service banner.
func RegisterHomeRoute(app *fiber.App, appName string) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": appName + " API is running",
			"status":  "healthy",
			"endpoints": []string{
				"GET /api/health",
				"GET /api/currencies",
				"GET /api/countries",
				"GET /api/rates?base=USD",
				"GET /api/exchange-rates",
				"POST /api/convert",
				"POST /api/estimate",
				"POST /api/transfer",
				"GET /api/transfers",
				"GET /api/transfers/:id",
				"POST /api/auth/register",
				"POST /api/auth/login",
				"GET /api/auth/verify",
				"GET /api/auth/profile",
				"PUT /api/auth/profile",
				"GET /api/me/transfers",
				"GET /metrics",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}
