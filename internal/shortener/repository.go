package shortener

import (
	"context"
	"time"
)

// Store is the durable source of truth for mappings. Insert must fail with
// ErrDuplicateID when the short ID is already present, and FindByID must
// return ErrNotFound for unknown IDs.
type Store interface {
	Insert(ctx context.Context, mapping *Mapping) (*Mapping, error)
	FindByID(ctx context.Context, id ShortID) (*Mapping, error)
}

// Cache is the best-effort lookup accelerator in front of the Store.
// Get returns ErrCacheMiss when the entry is absent.
type Cache interface {
	Get(ctx context.Context, id ShortID) (string, error)
	Set(ctx context.Context, id ShortID, longURL string, ttl time.Duration) error
}
