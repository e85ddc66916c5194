package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/task"
)

func runnerConfig() task.RunnerConfig {
	return task.RunnerConfig{
		WorkerCount:        2,
		QueueSize:          10,
		MaxProcessingAge:   time.Minute,
		StuckCheckInterval: 10 * time.Millisecond,
	}
}

// passthroughFactory rebuilds nothing useful; recovery tests use records
// that the extraction factory can rebuild instead.
type passthroughFactory struct{}

func (passthroughFactory) Rebuild(record *domain.Task) (task.Task, error) {
	return nil, errors.New("rebuild unsupported")
}

func waitForStatus(t *testing.T, s *memTaskStore, id uuid.UUID, want domain.TaskStatus) *domain.Task {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		got, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		if got.Status == want {
			return got
		}
		select {
		case <-deadline:
			t.Fatalf("task never reached status %q, last status %q", want, got.Status)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunnerCompletesTask(t *testing.T) {
	t.Parallel()

	s := newMemTaskStore()
	r := task.NewRunner(s, passthroughFactory{}, runnerConfig(), testLogger())
	require.NoError(t, r.Start())
	defer r.Stop()

	record := domain.NewTask("/tmp/upload.txt", "text/plain")
	require.NoError(t, s.Create(context.Background(), record))

	stub := newStubTask()
	stub.id = record.ID
	stub.result = "extracted text"
	require.NoError(t, r.Submit(stub))

	got := waitForStatus(t, s, record.ID, domain.TaskStatusCompleted)
	assert.Equal(t, "extracted text", got.Result)
	assert.Empty(t, got.ErrorMessage)

	// The record moved pending -> processing -> completed, in that order.
	assert.Equal(t, []domain.TaskStatus{
		domain.TaskStatusPending,
		domain.TaskStatusProcessing,
		domain.TaskStatusCompleted,
	}, s.transitionsFor(record.ID))
}

func TestRunnerFailsTask(t *testing.T) {
	t.Parallel()

	s := newMemTaskStore()
	r := task.NewRunner(s, passthroughFactory{}, runnerConfig(), testLogger())
	require.NoError(t, r.Start())
	defer r.Stop()

	record := domain.NewTask("/tmp/upload.txt", "text/plain")
	require.NoError(t, s.Create(context.Background(), record))

	stub := newStubTask()
	stub.id = record.ID
	stub.err = errors.New("backend exploded")
	require.NoError(t, r.Submit(stub))

	got := waitForStatus(t, s, record.ID, domain.TaskStatusFailed)
	assert.Contains(t, got.ErrorMessage, "backend exploded")
	assert.Empty(t, got.Result)
}

func TestRunnerRecoveryFailsInterruptedTasks(t *testing.T) {
	t.Parallel()

	s := newMemTaskStore()

	// Simulate a record left mid-processing by a previous process.
	record := domain.NewTask("/tmp/upload.txt", "text/plain")
	require.NoError(t, s.Create(context.Background(), record))
	require.NoError(t, s.MarkProcessing(context.Background(), record.ID))

	r := task.NewRunner(s, passthroughFactory{}, runnerConfig(), testLogger())
	require.NoError(t, r.Start())
	defer r.Stop()

	got, err := s.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
}

func TestRunnerRecoveryMarksUnbuildableTasksFailed(t *testing.T) {
	t.Parallel()

	s := newMemTaskStore()

	record := domain.NewTask("/tmp/upload.txt", "text/plain")
	require.NoError(t, s.Create(context.Background(), record))

	// The passthrough factory cannot rebuild, so recovery must fail the
	// record rather than leave it pending forever.
	r := task.NewRunner(s, passthroughFactory{}, runnerConfig(), testLogger())
	require.NoError(t, r.Start())
	defer r.Stop()

	got, err := s.GetByID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "could not rebuild")
}

func TestRunnerStuckMonitorForcesFailure(t *testing.T) {
	t.Parallel()

	s := newMemTaskStore()

	cfg := runnerConfig()
	cfg.MaxProcessingAge = 20 * time.Millisecond

	r := task.NewRunner(s, passthroughFactory{}, cfg, testLogger())
	require.NoError(t, r.Start())
	defer r.Stop()

	// A record stuck in processing after startup (e.g. worker wedged on a
	// hung collaborator call that ignores its deadline).
	record := domain.NewTask("/tmp/upload.txt", "text/plain")
	require.NoError(t, s.Create(context.Background(), record))
	require.NoError(t, s.MarkProcessing(context.Background(), record.ID))

	got := waitForStatus(t, s, record.ID, domain.TaskStatusFailed)
	assert.Contains(t, got.ErrorMessage, "timed out")
}

func TestRunnerSubmitQueueFull(t *testing.T) {
	t.Parallel()

	s := newMemTaskStore()
	cfg := runnerConfig()
	cfg.QueueSize = 1

	// Not started: nothing drains the queue.
	r := task.NewRunner(s, passthroughFactory{}, cfg, testLogger())

	require.NoError(t, r.Submit(newStubTask()))
	assert.ErrorIs(t, r.Submit(newStubTask()), task.ErrQueueFull)
}
