package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/store"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// RedisHandle owns the shared Redis client.
type RedisHandle struct {
	Client *redis.Client
}

// Shutdown closes the Redis client.
func (h *RedisHandle) Shutdown() error {
	return h.Client.Close()
}

// PostgresHandle owns the pgx connection pool.
type PostgresHandle struct {
	Pool *pgxpool.Pool
}

// Shutdown closes the connection pool.
func (h *PostgresHandle) Shutdown() error {
	h.Pool.Close()

	return nil
}

// RedisPackage provides a lazily connected *RedisHandle.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisHandle, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		client := redis.NewClient(&redis.Options{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
		})

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()

			return nil, fmt.Errorf("connect redis at %s: %w", opts.RedisAddr, err)
		}

		logger.Info("connected to redis", zap.String("addr", opts.RedisAddr))

		return &RedisHandle{Client: client}, nil
	})
}

// PostgresPackage provides a *PostgresHandle after applying schema migrations.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresHandle, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if err := store.Migrate(opts.DatabaseURL, logger); err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()

			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		logger.Info("connected to postgres")

		return &PostgresHandle{Pool: pool}, nil
	})
}
