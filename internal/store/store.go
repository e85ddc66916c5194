package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
)

// DBTX is the minimal database interface needed by the PostgreSQL stores.
// It is satisfied by both *sql.DB and *sql.Tx, allowing store methods to run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PaperStore persists paper documents keyed by their generated identifier.
type PaperStore interface {
	// Create inserts a new paper. Returns ErrDuplicate if the ID is taken.
	Create(ctx context.Context, paper *domain.Paper) error

	// GetByID retrieves a paper by its unique ID.
	// Returns ErrPaperNotFound if the paper does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Paper, error)

	// Update replaces the stored document for the paper's ID.
	// Returns ErrPaperNotFound if the paper does not exist.
	Update(ctx context.Context, paper *domain.Paper) error

	// Delete removes the paper with the given ID.
	// Returns ErrPaperNotFound if the paper does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskStore persists extraction task records and their status transitions.
// Implementations must not allow a task to leave a terminal state: the
// MarkCompleted and MarkFailed methods return ErrUpdateFailed when the task
// is already terminal.
type TaskStore interface {
	// Create inserts a new task record.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// MarkProcessing transitions a pending task to processing.
	MarkProcessing(ctx context.Context, id uuid.UUID) error

	// MarkCompleted stores the extraction result and transitions the task
	// to completed in a single write.
	MarkCompleted(ctx context.Context, id uuid.UUID, result string) error

	// MarkFailed records the failure message and transitions the task to
	// failed in a single write.
	MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error

	// ListPending retrieves all tasks with "pending" status, oldest first.
	ListPending(ctx context.Context) ([]*domain.Task, error)

	// FailStuck forces tasks that have been in "processing" longer than
	// olderThan into the failed state, returning how many were affected.
	FailStuck(ctx context.Context, olderThan time.Duration) (int, error)
}

// Cache holds non-owning, time-bounded copies of paper documents. Any
// failure from a Cache implementation must be treated as a miss by callers;
// cache errors are never surfaced to API clients.
type Cache interface {
	// GetPaper returns the cached paper for id, or ErrCacheMiss.
	GetPaper(ctx context.Context, id uuid.UUID) (*domain.Paper, error)

	// SetPaper stores a copy of the paper for up to ttl.
	SetPaper(ctx context.Context, paper *domain.Paper, ttl time.Duration) error

	// DeletePaper invalidates the cache entry for id, if any.
	DeletePaper(ctx context.Context, id uuid.UUID) error

	// Close releases any resources held by the cache.
	Close() error
}
