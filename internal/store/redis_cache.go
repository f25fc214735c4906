package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisCache is a Redis implementation of shortener.Cache.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a new Redis-backed lookup cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "link:",
	}
}

// Get returns the cached long URL or shortener.ErrCacheMiss.
func (r *RedisCache) Get(ctx context.Context, id shortener.ShortID) (string, error) {
	longURL, err := r.client.Get(ctx, r.key(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", shortener.ErrCacheMiss
		}

		return "", fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	return longURL, nil
}

// Set stores the long URL under the short ID. A non-positive ttl keeps the entry without expiry.
func (r *RedisCache) Set(ctx context.Context, id shortener.ShortID, longURL string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, r.key(id), longURL, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", shortener.ErrCacheUnavailable, err)
	}

	return nil
}

// Ping verifies the Redis connection.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) key(id shortener.ShortID) string {
	return r.prefix + string(id)
}

// Shutdown is a no-op for RedisCache (client managed externally).
func (r *RedisCache) Shutdown() error {
	return nil
}

var _ shortener.Cache = (*RedisCache)(nil)
