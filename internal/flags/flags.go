// Package flags persists small per-user key/value flags such as
// onboarding progress. It is independent of the cart.
package flags

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var ErrEmptyKey = errors.New("flag key is required")

type Store interface {
	Get(ctx context.Context, userID int, key string) (string, bool, error)
	Set(ctx context.Context, userID int, key, value string) error
	All(ctx context.Context, userID int) (map[string]string, error)
	Delete(ctx context.Context, userID int, key string) error
}

func hashKey(userID int) string {
	return fmt.Sprintf("flags:%d", userID)
}

// RedisStore keeps one hash per user.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Get(ctx context.Context, userID int, key string) (string, bool, error) {
	v, err := s.rdb.HGet(ctx, hashKey(userID), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get flag %q: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, userID int, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.rdb.HSet(ctx, hashKey(userID), key, value).Err(); err != nil {
		return fmt.Errorf("set flag %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) All(ctx context.Context, userID int) (map[string]string, error) {
	m, err := s.rdb.HGetAll(ctx, hashKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list flags: %w", err)
	}
	return m, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID int, key string) error {
	if err := s.rdb.HDel(ctx, hashKey(userID), key).Err(); err != nil {
		return fmt.Errorf("delete flag %q: %w", key, err)
	}
	return nil
}

type MemoryStore struct {
	mu    sync.RWMutex
	flags map[int]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[int]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, userID int, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flags[userID][key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, userID int, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flags[userID] == nil {
		s.flags[userID] = make(map[string]string)
	}
	s.flags[userID][key] = value
	return nil
}

func (s *MemoryStore) All(_ context.Context, userID int) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.flags[userID]))
	for k, v := range s.flags[userID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags[userID], key)
	return nil
}
