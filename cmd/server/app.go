package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/examforge/paper-api/internal/config"
	"github.com/examforge/paper-api/internal/platform/gemini"
	"github.com/examforge/paper-api/internal/platform/memcache"
	"github.com/examforge/paper-api/internal/platform/postgres"
	"github.com/examforge/paper-api/internal/platform/rediscache"
	"github.com/examforge/paper-api/internal/service"
	"github.com/examforge/paper-api/internal/store"
	"github.com/examforge/paper-api/internal/task"
)

// application holds the shared application dependencies so they can be
// wired once and cleaned up together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	paperStore store.PaperStore
	taskStore  store.TaskStore
	cache      store.Cache

	paperService      service.PaperService
	extractionService service.ExtractionService

	taskRunner *task.Runner
}

// newApplication initializes all application components. The database
// connection must already be established and migrated.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.paperStore = postgres.NewPaperStore(db, logger)
	app.taskStore = postgres.NewTaskStore(db, logger)

	// Redis when configured, otherwise an in-process cache so the read
	// path behaves the same in both setups.
	if cfg.Cache.RedisAddr != "" {
		cache, err := rediscache.New(ctx, cfg.Cache.RedisAddr, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		app.cache = cache
		logger.Info("redis cache initialized", "addr", cfg.Cache.RedisAddr)
	} else {
		app.cache = memcache.New()
		logger.Info("in-process cache initialized")
	}

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	paperService, err := service.NewPaperService(app.paperStore, app.cache, cacheTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create paper service: %w", err)
	}
	app.paperService = paperService

	extractor, err := gemini.New(ctx, logger.With("component", "extractor"), cfg.Extraction)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}
	logger.Info("extraction backend initialized", "model", cfg.Extraction.ModelName)

	factory, err := task.NewExtractionTaskFactory(extractor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task factory: %w", err)
	}

	app.taskRunner = task.NewRunner(app.taskStore, factory, task.RunnerConfig{
		WorkerCount:        cfg.Extraction.WorkerCount,
		QueueSize:          cfg.Extraction.QueueSize,
		MaxProcessingAge:   time.Duration(cfg.Extraction.MaxProcessingAgeSeconds) * time.Second,
		StuckCheckInterval: time.Duration(cfg.Extraction.StuckCheckIntervalSeconds) * time.Second,
	}, logger)

	extractionService, err := service.NewExtractionService(
		app.taskStore,
		factory,
		app.taskRunner,
		cfg.Extraction.UploadDir,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction service: %w", err)
	}
	app.extractionService = extractionService

	// Start the runner last: recovery re-enqueues pending tasks, which
	// needs the factory and stores in place.
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()
	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup shuts down background processing and releases connections.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.cache != nil {
		if err := app.cache.Close(); err != nil {
			app.logger.Error("error closing cache", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
