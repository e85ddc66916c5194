package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/store"
	"github.com/examforge/paper-api/internal/task"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memPaperStore is an in-memory store.PaperStore that counts reads so
// tests can verify which layer served a request.
type memPaperStore struct {
	mu     sync.Mutex
	papers map[uuid.UUID]*domain.Paper
	reads  int
}

var _ store.PaperStore = (*memPaperStore)(nil)

func newMemPaperStore() *memPaperStore {
	return &memPaperStore{papers: make(map[uuid.UUID]*domain.Paper)}
}

func (s *memPaperStore) Create(_ context.Context, paper *domain.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.papers[paper.ID]; ok {
		return store.ErrDuplicate
	}
	cp := *paper
	s.papers[paper.ID] = &cp
	return nil
}

func (s *memPaperStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	paper, ok := s.papers[id]
	if !ok {
		return nil, store.ErrPaperNotFound
	}
	cp := *paper
	return &cp, nil
}

func (s *memPaperStore) Update(_ context.Context, paper *domain.Paper) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.papers[paper.ID]; !ok {
		return store.ErrPaperNotFound
	}
	cp := *paper
	s.papers[paper.ID] = &cp
	return nil
}

func (s *memPaperStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.papers[id]; !ok {
		return store.ErrPaperNotFound
	}
	delete(s.papers, id)
	return nil
}

func (s *memPaperStore) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// brokenCache fails every operation; the service must fall back to the
// store transparently.
type brokenCache struct{}

var _ store.Cache = (*brokenCache)(nil)

func (brokenCache) GetPaper(context.Context, uuid.UUID) (*domain.Paper, error) {
	return nil, errors.New("cache unreachable")
}
func (brokenCache) SetPaper(context.Context, *domain.Paper, time.Duration) error {
	return errors.New("cache unreachable")
}
func (brokenCache) DeletePaper(context.Context, uuid.UUID) error {
	return errors.New("cache unreachable")
}
func (brokenCache) Close() error { return nil }

// memTaskStore is a minimal in-memory store.TaskStore for the extraction
// service tests.
type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*memTaskStore)(nil)

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (s *memTaskStore) Create(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTaskStore) MarkProcessing(_ context.Context, id uuid.UUID) error {
	return s.setStatus(id, domain.TaskStatusProcessing, "", "")
}

func (s *memTaskStore) MarkCompleted(_ context.Context, id uuid.UUID, result string) error {
	return s.setStatus(id, domain.TaskStatusCompleted, result, "")
}

func (s *memTaskStore) MarkFailed(_ context.Context, id uuid.UUID, errorMsg string) error {
	return s.setStatus(id, domain.TaskStatusFailed, "", errorMsg)
}

func (s *memTaskStore) setStatus(id uuid.UUID, status domain.TaskStatus, result, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if t.Status.IsTerminal() {
		return store.ErrUpdateFailed
	}
	t.Status = status
	t.Result = result
	t.ErrorMessage = errorMsg
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memTaskStore) ListPending(context.Context) ([]*domain.Task, error) {
	return nil, nil
}

func (s *memTaskStore) FailStuck(context.Context, time.Duration) (int, error) {
	return 0, nil
}

func (s *memTaskStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// fakeSubmitter records submitted tasks and can simulate a full queue.
type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []task.Task
	err       error
}

func (f *fakeSubmitter) Submit(t task.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, t)
	return nil
}

func (f *fakeSubmitter) submittedTasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]task.Task, len(f.submitted))
	copy(out, f.submitted)
	return out
}

// noopExtractor satisfies extraction.Extractor for factory construction.
type noopExtractor struct{}

func (noopExtractor) ExtractText(context.Context, []byte, string) (string, error) {
	return "", nil
}
