package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	stateHealthy   = "healthy"
	stateUnhealthy = "unhealthy"

	pingTimeout = 2 * time.Second
)

// Checker defines the interface for checking a dependency's health.
type Checker interface {
	Ping(ctx context.Context) error
}

// Handler handles health check operations.
type Handler struct {
	cache Checker
	store Checker
}

// NewHandler creates a new health handler for the lookup cache and the mapping store.
func NewHandler(cache, store Checker) *Handler {
	return &Handler{cache: cache, store: store}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string `doc:"ok when every dependency answers, degraded otherwise" json:"status"`
		Cache  string `doc:"Lookup cache state"                                  json:"cache"`
		Store  string `doc:"Mapping store state"                                 json:"store"`
	}
}

// Check performs a health check of the application and its dependencies.
// A cache outage only degrades redirects, so the endpoint still answers 200.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp := &Response{}
	resp.Body.Status = statusOK
	resp.Body.Cache = probe(ctx, h.cache)
	resp.Body.Store = probe(ctx, h.store)

	if resp.Body.Cache != stateHealthy || resp.Body.Store != stateHealthy {
		resp.Body.Status = statusDegraded
	}

	return resp, nil
}

func probe(ctx context.Context, c Checker) string {
	if err := c.Ping(ctx); err != nil {
		return stateUnhealthy
	}

	return stateHealthy
}

// RegisterRoutes registers health check routes.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Get(api, "/health", h.Check)
}
