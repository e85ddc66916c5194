package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/platform/logger"
	"github.com/examforge/paper-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using PostgreSQL.
//
// Status transitions are guarded in SQL: the terminal-state writes carry a
// `status NOT IN ('completed','failed')` predicate so a task can reach a
// terminal state exactly once, even if two workers race on the same ID.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of store.TaskStore.
func NewTaskStore(db store.DBTX, log *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore.
var _ store.TaskStore = (*TaskStore)(nil)

// Create inserts a new task record.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, status, result, error_message, file_path, file_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Status,
		task.Result,
		task.ErrorMessage,
		task.FilePath,
		task.FileType,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return store.NewStoreError("task", "create", "insert failed", err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID retrieves a task by its unique ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, status, result, error_message, file_path, file_type, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "query failed", err)
	}
	return task, nil
}

// MarkProcessing transitions a pending task to processing.
func (s *TaskStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tasks
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`
	return s.guardedUpdate(ctx, "mark processing", query,
		id, domain.TaskStatusProcessing, time.Now().UTC(), domain.TaskStatusPending)
}

// MarkCompleted stores the extraction result and transitions the task to
// completed in a single write, so a poller can never observe the completed
// status without its result.
func (s *TaskStore) MarkCompleted(ctx context.Context, id uuid.UUID, result string) error {
	query := `
		UPDATE tasks
		SET status = $2, result = $3, error_message = '', updated_at = $4
		WHERE id = $1 AND status NOT IN ($5, $6)
	`
	return s.guardedUpdate(ctx, "mark completed", query,
		id, domain.TaskStatusCompleted, result, time.Now().UTC(),
		domain.TaskStatusCompleted, domain.TaskStatusFailed)
}

// MarkFailed records the failure message and transitions the task to
// failed in a single write.
func (s *TaskStore) MarkFailed(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE tasks
		SET status = $2, error_message = $3, result = '', updated_at = $4
		WHERE id = $1 AND status NOT IN ($5, $6)
	`
	return s.guardedUpdate(ctx, "mark failed", query,
		id, domain.TaskStatusFailed, errorMsg, time.Now().UTC(),
		domain.TaskStatusCompleted, domain.TaskStatusFailed)
}

// guardedUpdate runs a status-transition update and maps "no rows changed"
// to the appropriate sentinel: the task either does not exist or its
// current status does not satisfy the transition's guard.
func (s *TaskStore) guardedUpdate(ctx context.Context, op, query string, id uuid.UUID, args ...interface{}) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, append([]interface{}{id}, args...)...)
	if err != nil {
		log.Error("task status update failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", op, "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("task", op, "rows affected unavailable", err)
	}
	if rows == 0 {
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		// MarkProcessing can lose a race to another worker that already
		// moved the task past pending, so the exact prior state is
		// unknown here; report the rejected transition, not a guess.
		return fmt.Errorf("%w: %s rejected for task %s in its current state", store.ErrUpdateFailed, op, id)
	}
	return nil
}

// ListPending retrieves all tasks with "pending" status, oldest first.
func (s *TaskStore) ListPending(ctx context.Context) ([]*domain.Task, error) {
	query := `
		SELECT id, status, result, error_message, file_path, file_type, created_at, updated_at
		FROM tasks
		WHERE status = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, domain.TaskStatusPending)
	if err != nil {
		return nil, store.NewStoreError("task", "list pending", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, store.NewStoreError("task", "list pending", "scan failed", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list pending", "iteration failed", err)
	}
	return tasks, nil
}

// FailStuck forces tasks that have been in "processing" longer than
// olderThan into the failed state, returning how many were affected.
func (s *TaskStore) FailStuck(ctx context.Context, olderThan time.Duration) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cutoff := time.Now().UTC().Add(-olderThan)
	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE status = $4 AND updated_at < $5
	`
	result, err := s.db.ExecContext(ctx, query,
		domain.TaskStatusFailed,
		"extraction timed out: exceeded maximum processing duration",
		time.Now().UTC(),
		domain.TaskStatusProcessing,
		cutoff,
	)
	if err != nil {
		return 0, store.NewStoreError("task", "fail stuck", "update failed", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, store.NewStoreError("task", "fail stuck", "rows affected unavailable", err)
	}
	if rows > 0 {
		log.Warn("forced stuck tasks to failed", slog.Int64("count", rows))
	}
	return int(rows), nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Status,
		&task.Result,
		&task.ErrorMessage,
		&task.FilePath,
		&task.FileType,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
