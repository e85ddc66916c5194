package postgres_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/platform/postgres"
	"github.com/examforge/paper-api/internal/store"
)

func newMockTaskStore(t *testing.T) (*postgres.TaskStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return postgres.NewTaskStore(db, log), mock
}

func taskRow(id uuid.UUID, status domain.TaskStatus) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "status", "result", "error_message", "file_path", "file_type", "created_at", "updated_at",
	}).AddRow(id.String(), string(status), "", "", "uploads/x.pdf", "application/pdf", now, now)
}

func TestTaskStore_MarkCompleted(t *testing.T) {
	s, mock := newMockTaskStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.MarkCompleted(context.Background(), id, "extracted text"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// MarkProcessing is guarded on status = pending. When another worker has
// already taken the task, the update matches zero rows even though the
// task exists and is not terminal; the error must describe a rejected
// transition, not claim a terminal state.
func TestTaskStore_MarkProcessing_LostRace(t *testing.T) {
	s, mock := newMockTaskStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, status").WillReturnRows(taskRow(id, domain.TaskStatusProcessing))

	err := s.MarkProcessing(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUpdateFailed)
	assert.Contains(t, err.Error(), "mark processing")
	assert.NotContains(t, err.Error(), "terminal")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStore_MarkCompleted_AlreadyTerminal(t *testing.T) {
	s, mock := newMockTaskStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, status").WillReturnRows(taskRow(id, domain.TaskStatusFailed))

	err := s.MarkCompleted(context.Background(), id, "late result")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUpdateFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStore_MarkFailed_TaskMissing(t *testing.T) {
	s, mock := newMockTaskStore(t)
	id := uuid.New()

	mock.ExpectExec("UPDATE tasks").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, status").WillReturnError(sql.ErrNoRows)

	err := s.MarkFailed(context.Background(), id, "boom")
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStore_GetByID(t *testing.T) {
	s, mock := newMockTaskStore(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, status").WillReturnRows(taskRow(id, domain.TaskStatusPending))

	task, err := s.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.Equal(t, domain.TaskStatusPending, task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
