package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront/internal/models"
)

type RedisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

func (c *RedisProductCache) Get(ctx context.Context, id int) (models.Product, bool, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Product{}, false, nil
	}
	if err != nil {
		return models.Product{}, false, err
	}

	var p models.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.rdb.Del(ctx, productKey(id)).Err()
		return models.Product{}, false, nil
	}
	return p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p models.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(p.ID), data, c.ttl).Err()
}

func (c *RedisProductCache) Invalidate(ctx context.Context, id int) error {
	return c.rdb.Del(ctx, productKey(id)).Err()
}
