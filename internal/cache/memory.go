package cache

import (
	"context"
	"sync"
	"time"

	"github.com/rogerio-castellano/storefront/internal/models"
)

type entry struct {
	product   models.Product
	expiresAt time.Time
}

// MemoryProductCache is a process-local ProductCache. A zero ttl never expires.
type MemoryProductCache struct {
	mu      sync.Mutex
	entries map[int]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryProductCache(ttl time.Duration) *MemoryProductCache {
	return &MemoryProductCache{entries: make(map[int]entry), ttl: ttl, now: time.Now}
}

func (c *MemoryProductCache) Get(_ context.Context, id int) (models.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok {
		return models.Product{}, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, id)
		return models.Product{}, false, nil
	}
	return e.product, true, nil
}

func (c *MemoryProductCache) Set(_ context.Context, p models.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry{product: p}
	if c.ttl > 0 {
		e.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[p.ID] = e
	return nil
}

func (c *MemoryProductCache) Invalidate(_ context.Context, id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
