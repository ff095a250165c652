package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aryan0dhankhar/venueguard/internal/infrastructure/logger"
	"github.com/aryan0dhankhar/venueguard/internal/reliability/retry"
	"github.com/aryan0dhankhar/venueguard/internal/repository"
	"github.com/aryan0dhankhar/venueguard/internal/seed"
	"github.com/aryan0dhankhar/venueguard/pkg/config"
	"github.com/aryan0dhankhar/venueguard/pkg/database"
)

func main() {
	reset := flag.Bool("reset", false, "delete every existing record before seeding")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		log.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := retry.Do(ctx, nil, log, "connect postgres", func(ctx context.Context) (*database.ConnectionPool, error) {
		return database.NewConnectionPool(ctx, database.DefaultConfig(cfg.DatabaseURL), log)
	})
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.Migrate(pool.GetDB(), log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *migrateOnly {
		return
	}

	store := repository.NewPostgresStore(pool.GetDB(), log)
	sum, err := seed.Run(ctx, store, seed.Options{Reset: *reset}, log)
	if err != nil {
		log.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if sum.Skipped {
		fmt.Println("store already holds users; rerun with -reset to replace them")
		return
	}
	fmt.Printf("seeded %d users, %d venues, %d incidents, %d warnings, %d bans\n",
		sum.Users, sum.Venues, sum.Incidents, sum.Warnings, sum.Bans)
}
