package ratelimit

import (
	"context"
	"errors"
	"time"
)

var errInvalidLimit = errors.New("rate limit quota and window must be positive")

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow checks if a request from the given key should be allowed.
	Allow(ctx context.Context, key string) (allowed bool, err error)
}

// SlidingWindowLimiter implements rate limiting using a sliding window algorithm.
type SlidingWindowLimiter struct {
	store  Store
	scope  Scope
	config LimitConfig
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, scope Scope, config LimitConfig) (*SlidingWindowLimiter, error) {
	if config.Max <= 0 || config.Window <= 0 {
		return nil, errInvalidLimit
	}

	return &SlidingWindowLimiter{
		store:  store,
		scope:  scope,
		config: config,
	}, nil
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	_, allowed, err := l.store.Take(ctx, l.scope.Key(key, l.config.Window), l.config.Max, l.config.Window)
	if err != nil {
		return false, err
	}

	return allowed, nil
}

// Window is a convenience for building a LimitConfig from whole seconds.
func Window(max int64, seconds int) LimitConfig {
	return LimitConfig{Max: max, Window: time.Duration(seconds) * time.Second}
}
