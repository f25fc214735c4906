package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/ratelimit"
	"github.com/serroba/shortlink/internal/store"
)

const (
	createLimiterName   = "limiter.create"
	redirectLimiterName = "limiter.redirect"
)

// RateLimitPackage provides the window store and the creation and redirect
// limiters. Windows live in Redis whenever the cache does, so replicas share them.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Cache != CacheRedis {
			return store.NewRateLimitMemoryStore(), nil
		}

		handle, err := do.Invoke[*RedisHandle](i)
		if err != nil {
			return nil, err
		}

		return store.NewRateLimitRedisStore(handle.Client), nil
	})

	do.ProvideNamed(i, createLimiterName, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)

		return ratelimit.NewSlidingWindowLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.ScopeCreate, opts.CreateLimit())
	})

	do.ProvideNamed(i, redirectLimiterName, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)

		return ratelimit.NewSlidingWindowLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.ScopeRedirect, opts.RedirectLimit())
	})
}
