// Package cache keeps recently read catalog products close to the HTTP layer.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront/internal/models"
)

// ProductCache stores products by id. A miss is reported with ok=false, not an error.
type ProductCache interface {
	Get(ctx context.Context, id int) (p models.Product, ok bool, err error)
	Set(ctx context.Context, p models.Product) error
	Invalidate(ctx context.Context, id int) error
}

func productKey(id int) string {
	return fmt.Sprintf("catalog:product:%d", id)
}

// Connect initializes a Redis client from URL or host:port input and pings it.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	var rdb *redis.Client
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
	} else {
		rdb = redis.NewClient(&redis.Options{Addr: redisURL})
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to redis: %w", err)
	}
	return rdb, nil
}
