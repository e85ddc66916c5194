// Package postgres provides PostgreSQL implementations of the store
// interfaces. Papers are stored as JSONB documents keyed by their UUID;
// tasks get dedicated columns for status, result, and error bookkeeping.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/platform/logger"
	"github.com/examforge/paper-api/internal/store"
)

// PostgreSQL error codes
const pgUniqueViolationCode = "23505"

// PaperStore implements the store.PaperStore interface using a PostgreSQL
// database as the storage backend.
type PaperStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPaperStore creates a new PostgreSQL implementation of the
// store.PaperStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPaperStore(db store.DBTX, log *slog.Logger) *PaperStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PaperStore{
		db:     db,
		logger: log.With(slog.String("component", "paper_store")),
	}
}

// Ensure PaperStore implements store.PaperStore.
var _ store.PaperStore = (*PaperStore)(nil)

// Create inserts a new paper document. Returns store.ErrDuplicate when the
// ID already exists and store.ErrInvalidEntity when the paper fails
// validation.
func (s *PaperStore) Create(ctx context.Context, paper *domain.Paper) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := paper.Validate(); err != nil {
		log.Warn("paper validation failed during create",
			slog.String("error", err.Error()),
			slog.String("paper_id", paper.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	doc, err := json.Marshal(paper)
	if err != nil {
		return fmt.Errorf("failed to marshal paper document: %w", err)
	}

	query := `
		INSERT INTO papers (id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = s.db.ExecContext(ctx, query, paper.ID, doc, paper.CreatedAt, paper.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return fmt.Errorf("%w: paper %s", store.ErrDuplicate, paper.ID)
		}

		log.Error("failed to create paper",
			slog.String("error", err.Error()),
			slog.String("paper_id", paper.ID.String()))
		return store.NewStoreError("paper", "create", "insert failed", err)
	}

	log.Info("paper created",
		slog.String("paper_id", paper.ID.String()),
		slog.String("title", paper.Title))
	return nil
}

// GetByID retrieves a paper by its unique ID.
// Returns store.ErrPaperNotFound if the paper does not exist.
func (s *PaperStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Paper, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var doc []byte
	query := `SELECT doc FROM papers WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPaperNotFound
		}
		log.Error("failed to get paper",
			slog.String("error", err.Error()),
			slog.String("paper_id", id.String()))
		return nil, store.NewStoreError("paper", "get", "query failed", err)
	}

	var paper domain.Paper
	if err := json.Unmarshal(doc, &paper); err != nil {
		return nil, store.NewStoreError("paper", "get", "corrupt document", err)
	}
	return &paper, nil
}

// Update replaces the stored document for the paper's ID.
// Returns store.ErrPaperNotFound if the paper does not exist.
func (s *PaperStore) Update(ctx context.Context, paper *domain.Paper) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := paper.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	doc, err := json.Marshal(paper)
	if err != nil {
		return fmt.Errorf("failed to marshal paper document: %w", err)
	}

	query := `
		UPDATE papers
		SET doc = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, paper.ID, doc, time.Now().UTC())
	if err != nil {
		log.Error("failed to update paper",
			slog.String("error", err.Error()),
			slog.String("paper_id", paper.ID.String()))
		return store.NewStoreError("paper", "update", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("paper", "update", "rows affected unavailable", err)
	}
	if rows == 0 {
		return store.ErrPaperNotFound
	}

	log.Info("paper updated", slog.String("paper_id", paper.ID.String()))
	return nil
}

// Delete removes the paper with the given ID.
// Returns store.ErrPaperNotFound if the paper does not exist.
func (s *PaperStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete paper",
			slog.String("error", err.Error()),
			slog.String("paper_id", id.String()))
		return store.NewStoreError("paper", "delete", "delete failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("paper", "delete", "rows affected unavailable", err)
	}
	if rows == 0 {
		return store.ErrPaperNotFound
	}

	log.Info("paper deleted", slog.String("paper_id", id.String()))
	return nil
}
