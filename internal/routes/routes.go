package routes

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/remitlite/remitlite/internal/auth"
	"github.com/remitlite/remitlite/internal/config"
	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/metrics"
	"github.com/remitlite/remitlite/internal/middleware"
	"github.com/remitlite/remitlite/internal/notification"
	"github.com/remitlite/remitlite/internal/pricing"
	"github.com/remitlite/remitlite/internal/rates"
	"github.com/remitlite/remitlite/internal/transfer"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger

	// Registry receives the application collectors. A fresh registry with Go
	// and process collectors is created when nil.
	Registry *prometheus.Registry
	// RateSource overrides the HTTP rate client built from Cfg.
	RateSource rates.LiveSource
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.Cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Request-ID",
	}))
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	m := metrics.New(reg)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Storage backends
	var identityRepo identity.Repository
	var transferRepo transfer.Repository
	if d.DB != nil {
		identityRepo = identity.NewPostgresRepository(d.DB)
		transferRepo = transfer.NewPostgresRepository(d.DB)
	} else {
		d.Logger.Warn("DATABASE_URL not set, using in-memory storage")
		identityRepo = identity.NewMemoryRepository()
		transferRepo = transfer.NewMemoryRepository()
	}

	var rateCache rates.Cache
	if d.Cfg.RatesCache == "redis" && d.Cache != nil {
		rateCache = rates.NewRedisCache(d.Cache, d.Cfg.RatesCacheTTL)
	} else {
		rateCache = rates.NewMemoryCache(d.Cfg.RatesCacheTTL, nil)
	}
	live := d.RateSource
	if live == nil {
		live = rates.NewHTTPClient(d.Cfg.RatesAPIURL, d.Cfg.RatesAPIKey, d.Cfg.RatesTimeout)
	}

	// Services and handlers
	rateProvider := rates.NewProvider(rates.ProviderOptions{
		Cache:   rateCache,
		Live:    live,
		Logger:  d.Logger,
		Metrics: m,
	})
	identitySvc := identity.NewService(identityRepo)
	tokenSvc := auth.NewService(d.Cfg)
	transferSvc, err := transfer.NewService(transfer.Deps{
		Repo:     transferRepo,
		Parties:  identitySvc,
		Rates:    rateProvider,
		Notifier: notification.NewLoggerNotifier(d.Logger),
		Metrics:  m,
		Logger:   d.Logger,
	})
	if err != nil {
		return err
	}

	RegisterHealthRoutes(app, d)
	RegisterHomeRoute(app, d.Cfg.AppName)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.RequestIDHeader).(string)
		return c.JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterRateRoutes(api, rates.NewHandler(rateProvider))
	RegisterPricingRoutes(api, pricing.NewHandler())
	idempotency := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, "transfers", d.Logger)
	transferHandler := transfer.NewHandler(transferSvc, d.Logger)
	RegisterTransferRoutes(api, transferHandler, idempotency)

	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttempts, d.Logger)
	jwtmw := middleware.JWTAuth(tokenSvc, identityRepo)
	RegisterAuthRoutes(api, auth.NewHandler(identitySvc, tokenSvc, d.Logger), identity.NewHandler(identitySvc, d.Logger), rateLimiter, jwtmw)

	// Protected routes
	protected := api.Group("/me", jwtmw)
	protected.Get("/transfers", transferHandler.Mine)

	return nil
}
