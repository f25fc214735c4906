package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/shortlink/internal/shortener"
)

// RedisStore is a Redis implementation of shortener.Store. Mappings are
// written once with SET NX and never expire.
type RedisStore struct {
	client *redis.Client
	prefix string
}

type redisMapping struct {
	LongURL   string    `json:"long_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisStore creates a new Redis-backed mapping store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "mapping:",
	}
}

func (r *RedisStore) Insert(ctx context.Context, mapping *shortener.Mapping) (*shortener.Mapping, error) {
	payload, err := json.Marshal(redisMapping{
		LongURL:   mapping.LongURL,
		CreatedAt: mapping.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	created, err := r.client.SetNX(ctx, r.prefix+string(mapping.ID), payload, 0).Result()
	if err != nil {
		return nil, err
	}

	if !created {
		return nil, shortener.ErrDuplicateID
	}

	stored := *mapping

	return &stored, nil
}

func (r *RedisStore) FindByID(ctx context.Context, id shortener.ShortID) (*shortener.Mapping, error) {
	raw, err := r.client.Get(ctx, r.prefix+string(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	var record redisMapping
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}

	return &shortener.Mapping{
		ID:        id,
		LongURL:   record.LongURL,
		CreatedAt: record.CreatedAt,
	}, nil
}

// Ping verifies the Redis connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ shortener.Store = (*RedisStore)(nil)
