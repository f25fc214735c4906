package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/samber/do"
	"github.com/serroba/shortlink/internal/events"
	"github.com/serroba/shortlink/internal/handlers"
	"github.com/serroba/shortlink/internal/health"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/middleware"
	"github.com/serroba/shortlink/internal/ratelimit"
	"github.com/serroba/shortlink/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the chi router and the huma API with every route registered.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		router := chi.NewMux()
		router.Use(chimw.RequestID)
		router.Use(middleware.AccessLog(logger))
		router.Use(chimw.Recoverer)

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		redirectLimiter, err := do.InvokeNamed[ratelimit.Limiter](i, redirectLimiterName)
		if err != nil {
			return nil, err
		}

		publishCreated, err := do.Invoke[messaging.Publish[events.LinkCreated]](i)
		if err != nil {
			return nil, err
		}

		publishExhausted, err := do.Invoke[messaging.Publish[events.GenerationExhausted]](i)
		if err != nil {
			return nil, err
		}

		proxies, err := middleware.ParseTrustedProxies(opts.TrustedProxies)
		if err != nil {
			return nil, err
		}

		huma.NewError = handlers.NewError

		api := humachi.New(router, huma.DefaultConfig("Shortlink", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api, proxies))

		urlHandler := handlers.NewURLHandler(service, publishCreated, publishExhausted, logger, opts.Development())
		handlers.RegisterRoutes(api, urlHandler, middleware.RateLimiter(api, redirectLimiter, logger))

		health.RegisterRoutes(api, health.NewHandler(
			do.MustInvoke[LookupCache](i),
			do.MustInvoke[MappingStore](i),
		))

		return api, nil
	})
}
