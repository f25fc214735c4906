package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/serroba/shortlink/internal/store"
)

// MappingStore is a shortener.Store that can report its health.
type MappingStore interface {
	shortener.Store
	health.Checker
}

// LookupCache is a shortener.Cache that can report its health.
type LookupCache interface {
	shortener.Cache
	health.Checker
}

// RepositoryPackage provides the mapping store and lookup cache selected by Options.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (MappingStore, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Storage {
		case StorageMemory:
			return store.NewMemoryStore(), nil
		case StorageRedis:
			handle, err := do.Invoke[*RedisHandle](i)
			if err != nil {
				return nil, err
			}

			return store.NewRedisStore(handle.Client), nil
		default:
			handle, err := do.Invoke[*PostgresHandle](i)
			if err != nil {
				return nil, err
			}

			return store.NewPostgresStore(handle.Pool), nil
		}
	})

	do.Provide(i, func(i *do.Injector) (LookupCache, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Cache == CacheMemory {
			return store.NewMemoryCache(opts.CacheTTL()), nil
		}

		handle, err := do.Invoke[*RedisHandle](i)
		if err != nil {
			return nil, err
		}

		return store.NewRedisCache(handle.Client), nil
	})
}
