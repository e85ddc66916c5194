// Package rediscache implements the store.Cache interface backed by Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/store"
)

// Cache stores serialized paper documents in Redis under "paper:<id>" keys.
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure Cache implements store.Cache.
var _ store.Cache = (*Cache)(nil)

// New connects to Redis at the given address and verifies the connection.
func New(ctx context.Context, addr string, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &Cache{
		client: client,
		logger: log.With(slog.String("component", "redis_cache")),
	}, nil
}

func paperKey(id uuid.UUID) string {
	return "paper:" + id.String()
}

// GetPaper returns the cached paper for id, or store.ErrCacheMiss.
func (c *Cache) GetPaper(ctx context.Context, id uuid.UUID) (*domain.Paper, error) {
	data, err := c.client.Get(ctx, paperKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var paper domain.Paper
	if err := json.Unmarshal(data, &paper); err != nil {
		// A corrupt entry behaves like a miss; drop it so the next read
		// repopulates from the store.
		c.logger.Warn("dropping corrupt cache entry",
			slog.String("paper_id", id.String()),
			slog.String("error", err.Error()))
		_ = c.client.Del(ctx, paperKey(id)).Err()
		return nil, store.ErrCacheMiss
	}
	return &paper, nil
}

// SetPaper stores a copy of the paper for up to ttl.
func (c *Cache) SetPaper(ctx context.Context, paper *domain.Paper, ttl time.Duration) error {
	data, err := json.Marshal(paper)
	if err != nil {
		return fmt.Errorf("failed to marshal paper for cache: %w", err)
	}
	if err := c.client.Set(ctx, paperKey(paper.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// DeletePaper invalidates the cache entry for id, if any.
func (c *Cache) DeletePaper(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, paperKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
