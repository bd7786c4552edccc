package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// RefreshStore keeps opaque refresh tokens. Consume is single use: a token
// that was consumed once is gone.
type RefreshStore interface {
	Save(ctx context.Context, token, username string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (username string, err error)
}

// NewRefreshToken returns a random opaque token.
func NewRefreshToken() string {
	return uuid.NewString()
}

type refreshEntry struct {
	username  string
	expiresAt time.Time
}

type MemoryRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]refreshEntry
}

func NewMemoryRefreshStore() *MemoryRefreshStore {
	return &MemoryRefreshStore{tokens: make(map[string]refreshEntry)}
}

func (s *MemoryRefreshStore) Save(_ context.Context, token, username string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = refreshEntry{username: username, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryRefreshStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.tokens[token]
	if !ok {
		return "", ErrRefreshTokenNotFound
	}
	delete(s.tokens, token)
	if time.Now().After(e.expiresAt) {
		return "", ErrRefreshTokenNotFound
	}
	return e.username, nil
}

// StartCleanupLoop drops expired tokens until ctx is done.
func (s *MemoryRefreshStore) StartCleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *MemoryRefreshStore) removeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	now := time.Now()
	for token, e := range s.tokens {
		if now.After(e.expiresAt) {
			delete(s.tokens, token)
			n++
		}
	}
	return n
}

// RedisRefreshStore lets refresh tokens survive restarts and be shared by replicas.
// Expiry is left to Redis.
type RedisRefreshStore struct {
	rdb *redis.Client
}

func NewRedisRefreshStore(rdb *redis.Client) *RedisRefreshStore {
	return &RedisRefreshStore{rdb: rdb}
}

func refreshKey(token string) string {
	return "refresh:" + token
}

func (s *RedisRefreshStore) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, refreshKey(token), username, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *RedisRefreshStore) Consume(ctx context.Context, token string) (string, error) {
	username, err := s.rdb.GetDel(ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrRefreshTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return username, nil
}
