// Package memcache implements the store.Cache interface with an in-process
// map. It is the fallback when no Redis address is configured and the cache
// used by tests. Entries are copied on write and read so callers can never
// mutate a cached document in place.
package memcache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/examforge/paper-api/internal/domain"
	"github.com/examforge/paper-api/internal/store"
)

type entry struct {
	doc       []byte
	expiresAt time.Time
}

// Cache is a TTL-bounded in-memory paper cache, safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
	now     func() time.Time
}

// Ensure Cache implements store.Cache.
var _ store.Cache = (*Cache)(nil)

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{
		entries: make(map[uuid.UUID]entry),
		now:     time.Now,
	}
}

// GetPaper returns the cached paper for id, or store.ErrCacheMiss when no
// live entry exists. Expired entries are pruned on read.
func (c *Cache) GetPaper(_ context.Context, id uuid.UUID) (*domain.Paper, error) {
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()

	if !ok {
		return nil, store.ErrCacheMiss
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, id)
		c.mu.Unlock()
		return nil, store.ErrCacheMiss
	}

	var paper domain.Paper
	if err := json.Unmarshal(e.doc, &paper); err != nil {
		return nil, store.ErrCacheMiss
	}
	return &paper, nil
}

// SetPaper stores a copy of the paper for up to ttl.
func (c *Cache) SetPaper(_ context.Context, paper *domain.Paper, ttl time.Duration) error {
	doc, err := json.Marshal(paper)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[paper.ID] = entry{doc: doc, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// DeletePaper invalidates the cache entry for id, if any.
func (c *Cache) DeletePaper(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	delete(c.entries, id)
	c.mu.Unlock()
	return nil
}

// Close implements store.Cache; there is nothing to release.
func (c *Cache) Close() error {
	return nil
}

// SetClock overrides the cache's time source. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
