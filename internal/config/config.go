package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "dev-secret-key-change-in-production"

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string        `env:"APP_NAME" env-default:"RemitLite"`
	AppEnv         string        `env:"APP_ENV" env-default:"development"`
	Port           string        `env:"PORT" env-default:"5000"`
	LogLevel       string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat      string        `env:"LOG_FORMAT" env-default:"json"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	RedisURL       string        `env:"REDIS_URL"`
	ShutdownPeriod time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" env-default:"24h"`

	JWTSecret      string        `env:"JWT_SECRET" env-default:"dev-secret-key-change-in-production"`
	JWTIssuer      string        `env:"JWT_ISSUER" env-default:"remitlite"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"168h"`
	LoginAttempts  int           `env:"LOGIN_ATTEMPTS_PER_MINUTE" env-default:"5"`

	RatesAPIURL   string        `env:"RATES_API_URL" env-default:"https://api.exchangerate.host"`
	RatesAPIKey   string        `env:"RATES_API_KEY"`
	RatesTimeout  time.Duration `env:"RATES_TIMEOUT" env-default:"5s"`
	RatesCacheTTL time.Duration `env:"RATES_CACHE_TTL" env-default:"5m"`
	RatesCache    string        `env:"RATES_CACHE" env-default:"memory"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.RatesCache = strings.ToLower(cfg.RatesCache)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the backends required outside development.
func (c Config) Validate() error {
	switch c.RatesCache {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid RATES_CACHE %q", c.RatesCache)
	}
	if c.RatesCache == "redis" && c.RedisURL == "" {
		return errors.New("RATES_CACHE=redis requires REDIS_URL")
	}
	if c.IsDev() {
		return nil
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL must be set")
	}
	if c.RedisURL == "" {
		return errors.New("REDIS_URL must be set")
	}
	if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", c.AppEnv)
	}
	return nil
}

// IsDev reports whether in-memory fallbacks are allowed.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}
