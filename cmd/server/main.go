// Package main implements the entry point for the paper API server,
// which manages sample paper documents and asynchronous text extraction
// from uploaded files.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/examforge/paper-api/internal/config"
	"github.com/examforge/paper-api/internal/platform/logger"
	"github.com/examforge/paper-api/internal/platform/postgres"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// run initializes configuration, logging, the database, and the
// application, then serves until shutdown.
func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"worker_count", cfg.Extraction.WorkerCount)

	db, err := postgres.Open(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
