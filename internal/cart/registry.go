package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns one Store per user. It is created once at start-up and
// handed to the HTTP layer.
type Registry struct {
	mu       sync.Mutex
	stores   map[int]*Store
	lastSeen map[int]time.Time
	logger   *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		stores:   make(map[int]*Store),
		lastSeen: make(map[int]time.Time),
		logger:   logger,
	}
}

// For returns the Store for userID, creating it on first use.
func (r *Registry) For(userID int) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen[userID] = time.Now()
	s, ok := r.stores[userID]
	if !ok {
		s = NewStore()
		log := r.logger.With(zap.Int("user_id", userID))
		s.Subscribe(func(snap Snapshot) {
			log.Debug("cart changed",
				zap.Int("lines", len(snap.Lines)),
				zap.Int("cart_count", snap.CartCount),
				zap.Int("favorites_count", snap.FavoritesCount),
			)
		})
		r.stores[userID] = s
	}
	return s
}

// StartEvictionLoop drops empty stores idle for more than maxIdle until ctx is done.
func (r *Registry) StartEvictionLoop(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.evictIdle(maxIdle); n > 0 {
				r.logger.Debug("evicted idle carts", zap.Int("count", n))
			}
		}
	}
}

// evictIdle only forgets stores with no cart lines and no favorites, so no
// shopper state is lost.
func (r *Registry) evictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.stores {
		if time.Since(r.lastSeen[id]) <= maxIdle {
			continue
		}
		if s.CartCount() > 0 || s.FavoritesCount() > 0 {
			continue
		}
		delete(r.stores, id)
		delete(r.lastSeen, id)
		n++
	}
	return n
}

// Len is the number of stores held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Stats describes all carts currently held in memory.
type Stats struct {
	ActiveCarts  int `json:"active_carts"`
	ItemsInCarts int `json:"items_in_carts"`
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	stores := make([]*Store, 0, len(r.stores))
	for _, s := range r.stores {
		stores = append(stores, s)
	}
	r.mu.Unlock()

	var st Stats
	for _, s := range stores {
		n := s.CartCount()
		if n > 0 {
			st.ActiveCarts++
			st.ItemsInCarts += n
		}
	}
	return st
}
