package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/remitlite/remitlite/internal/config"
	"github.com/remitlite/remitlite/internal/identity"
	"github.com/remitlite/remitlite/internal/infra"
	"github.com/remitlite/remitlite/internal/logging"
	"github.com/remitlite/remitlite/internal/seed"
	"github.com/remitlite/remitlite/internal/transfer"
)

func main() {
	count := flag.Int("transfers", 50, "number of historical transfers to create")
	seedValue := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL must be set to seed")
		os.Exit(1)
	}
	if err := infra.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("run migrations", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := infra.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ids := identity.NewService(identity.NewPostgresRepository(db))
	s := seed.New(ids, transfer.NewPostgresRepository(db), logger, *seedValue)
	res, err := s.Run(ctx, *count)
	if err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d users and %d transfers (password %q)\n", res.Users, res.Transfers, seed.SamplePassword)
}
