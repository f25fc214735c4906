package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/ratelimit"
)

// takeScript prunes, counts and conditionally admits in one server-side step.
// KEYS[1] = window key; ARGV = limit, window (ms), now (ms), member.
var takeScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return {1, count + 1}
end

return {0, count}
`)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store using a
// sorted set of admission timestamps per key.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Take(ctx context.Context, key string, limit int64, window time.Duration) (int64, bool, error) {
	result, err := takeScript.Run(ctx, s.client,
		[]string{s.prefix + key},
		limit,
		window.Milliseconds(),
		time.Now().UnixMilli(),
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return 0, false, err
	}

	return result[1], result[0] == 1, nil
}

var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
