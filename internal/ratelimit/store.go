package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Take admits a request for key if fewer than limit requests were admitted
	// within window, and returns the number of admitted requests in the window.
	// Pruning, counting and admitting happen as one atomic step per key, and
	// rejected requests never occupy a slot.
	Take(ctx context.Context, key string, limit int64, window time.Duration) (count int64, allowed bool, err error)
}
