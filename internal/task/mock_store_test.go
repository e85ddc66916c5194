package task_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/store"
)

// memTaskStore is an in-memory store.TaskStore used by the runner tests.
// It records the sequence of status transitions per task.
type memTaskStore struct {
	mu          sync.Mutex
	tasks       map[uuid.UUID]*domain.Task
	transitions map[uuid.UUID][]domain.TaskStatus
}

var _ store.TaskStore = (*memTaskStore)(nil)

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{
		tasks:       make(map[uuid.UUID]*domain.Task),
		transitions: make(map[uuid.UUID][]domain.TaskStatus),
	}
}

func (s *memTaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *task
	s.tasks[task.ID] = &cp
	s.transitions[task.ID] = append(s.transitions[task.ID], task.Status)
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *task
	return &cp, nil
}

func (s *memTaskStore) MarkProcessing(_ context.Context, id uuid.UUID) error {
	return s.transition(id, domain.TaskStatusProcessing, "", "")
}

func (s *memTaskStore) MarkCompleted(_ context.Context, id uuid.UUID, result string) error {
	return s.transition(id, domain.TaskStatusCompleted, result, "")
}

func (s *memTaskStore) MarkFailed(_ context.Context, id uuid.UUID, errorMsg string) error {
	return s.transition(id, domain.TaskStatusFailed, "", errorMsg)
}

func (s *memTaskStore) transition(id uuid.UUID, status domain.TaskStatus, result, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if task.Status.IsTerminal() {
		return fmt.Errorf("%w: task %s is already terminal", store.ErrUpdateFailed, id)
	}

	task.Status = status
	task.Result = result
	task.ErrorMessage = errorMsg
	task.UpdatedAt = time.Now().UTC()
	s.transitions[id] = append(s.transitions[id], status)
	return nil
}

func (s *memTaskStore) ListPending(_ context.Context) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []*domain.Task
	for _, task := range s.tasks {
		if task.Status == domain.TaskStatusPending {
			cp := *task
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

func (s *memTaskStore) FailStuck(_ context.Context, olderThan time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-olderThan)
	count := 0
	for id, task := range s.tasks {
		if task.Status == domain.TaskStatusProcessing && task.UpdatedAt.Before(cutoff) {
			task.Status = domain.TaskStatusFailed
			task.ErrorMessage = "extraction timed out: exceeded maximum processing duration"
			task.UpdatedAt = time.Now().UTC()
			s.transitions[id] = append(s.transitions[id], domain.TaskStatusFailed)
			count++
		}
	}
	return count, nil
}

func (s *memTaskStore) transitionsFor(id uuid.UUID) []domain.TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TaskStatus, len(s.transitions[id]))
	copy(out, s.transitions[id])
	return out
}
