package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/metrics"
	"github.com/examforge/paper-api/internal/platform/logger"
	"github.com/examforge/paper-api/internal/store"
)

// PaperService provides CRUD operations over paper documents, reading
// through the cache layer and writing through the persistence store.
type PaperService interface {
	// CreatePaper validates the draft, assigns an identifier, and persists
	// the paper. Returns the stored paper.
	CreatePaper(ctx context.Context, draft domain.Paper) (*domain.Paper, error)

	// GetPaper returns the paper for id, from the cache when possible.
	GetPaper(ctx context.Context, id uuid.UUID) (*domain.Paper, error)

	// UpdatePaper merges the partial update into the stored paper,
	// persists the result, and invalidates the cache entry.
	UpdatePaper(ctx context.Context, id uuid.UUID, update domain.PaperUpdate) (*domain.Paper, error)

	// DeletePaper removes the paper and invalidates its cache entry.
	DeletePaper(ctx context.Context, id uuid.UUID) error
}

type paperService struct {
	papers   store.PaperStore
	cache    store.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewPaperService creates a PaperService over the given store and cache.
func NewPaperService(papers store.PaperStore, cache store.Cache, cacheTTL time.Duration, log *slog.Logger) (PaperService, error) {
	if papers == nil {
		return nil, errors.New("paper store cannot be nil")
	}
	if cache == nil {
		return nil, errors.New("cache cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &paperService{
		papers:   papers,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log.With(slog.String("component", "paper_service")),
	}, nil
}

func (s *paperService) CreatePaper(ctx context.Context, draft domain.Paper) (*domain.Paper, error) {
	paper, err := domain.NewPaper(draft)
	if err != nil {
		return nil, err
	}

	if err := s.papers.Create(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to create paper: %w", err)
	}
	return paper, nil
}

func (s *paperService) GetPaper(ctx context.Context, id uuid.UUID) (*domain.Paper, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Cache first. Any cache failure is treated as a miss and falls back
	// to the store; it is never surfaced to the caller.
	cached, err := s.cache.GetPaper(ctx, id)
	if err == nil {
		metrics.CacheHits.Inc()
		log.Debug("paper served from cache", slog.String("paper_id", id.String()))
		return cached, nil
	}
	if !errors.Is(err, store.ErrCacheMiss) {
		log.Warn("cache read failed, falling back to store",
			slog.String("paper_id", id.String()),
			slog.String("error", err.Error()))
	}
	metrics.CacheMisses.Inc()

	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPaper(ctx, paper, s.cacheTTL); err != nil {
		log.Warn("failed to populate cache",
			slog.String("paper_id", id.String()),
			slog.String("error", err.Error()))
	}
	return paper, nil
}

func (s *paperService) UpdatePaper(ctx context.Context, id uuid.UUID, update domain.PaperUpdate) (*domain.Paper, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	paper, err := s.papers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	paper.Apply(update)
	if err := paper.Validate(); err != nil {
		return nil, err
	}

	if err := s.papers.Update(ctx, paper); err != nil {
		return nil, fmt.Errorf("failed to update paper: %w", err)
	}

	s.invalidate(ctx, log, id)
	return paper, nil
}

func (s *paperService) DeletePaper(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.papers.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, log, id)
	return nil
}

// invalidate drops the cache entry for id. Failures are logged and
// swallowed; the entry expires on its own TTL at worst.
func (s *paperService) invalidate(ctx context.Context, log *slog.Logger, id uuid.UUID) {
	if err := s.cache.DeletePaper(ctx, id); err != nil {
		log.Warn("failed to invalidate cache entry",
			slog.String("paper_id", id.String()),
			slog.String("error", err.Error()))
	}
}
