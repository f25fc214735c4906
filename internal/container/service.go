package container

import (
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/ratelimit"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// ServicePackage provides the resolution service.
func ServicePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generate, err := shortener.NewIDGenerator(opts.Alphabet, opts.CodeLength)
		if err != nil {
			return nil, err
		}

		mappings, err := do.Invoke[MappingStore](i)
		if err != nil {
			return nil, err
		}

		cache, err := do.Invoke[LookupCache](i)
		if err != nil {
			return nil, err
		}

		limiter, err := do.InvokeNamed[ratelimit.Limiter](i, createLimiterName)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(mappings, cache, limiter, generate, shortener.Config{
			BaseURL:     opts.PublicBaseURL(),
			CacheTTL:    opts.CacheTTL(),
			MaxAttempts: opts.MaxAttempts,
			Alphabet:    opts.Alphabet,
		}, do.MustInvoke[*zap.Logger](i)), nil
	})
}
