package shortener

import (
	"errors"
	"fmt"
)

var (
	ErrMissingURL          = errors.New("url is required")
	ErrInvalidURL          = errors.New("invalid url format")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrGenerationExhausted = errors.New("short id generation exhausted")
	ErrMissingShortID      = errors.New("short id is required")
	ErrNotFound            = errors.New("url not found")

	// ErrDuplicateID is reported by a Store when the short ID is already taken.
	// The service retries on it and never returns it to callers.
	ErrDuplicateID = errors.New("short id already exists")

	// ErrCacheMiss is reported by a Cache when the key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")

	ErrStoreUnavailable       = errors.New("mapping store unavailable")
	ErrCacheUnavailable       = errors.New("lookup cache unavailable")
	ErrRateLimiterUnavailable = errors.New("rate limiter unavailable")
)

// GenerationError is returned when every generation attempt collided with an existing ID.
type GenerationError struct {
	Attempts int
	Last     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s after %d attempts", ErrGenerationExhausted, e.Attempts)
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationExhausted
}

func (e *GenerationError) Unwrap() error {
	return e.Last
}
