package shortener

import "time"

// ShortID is the fixed-length identifier that keys a URL mapping.
type ShortID string

// Mapping is the durable shortID -> longURL record. It is created once and never mutated.
type Mapping struct {
	ID        ShortID
	LongURL   string
	CreatedAt time.Time
}

// CreateRequest is the input of the creation pipeline.
type CreateRequest struct {
	LongURL  string
	ClientID string
}

// CreateResult is returned to the caller after a mapping has been committed.
type CreateResult struct {
	ShortURL  string
	ShortID   ShortID
	LongURL   string
	CreatedAt time.Time
}

// Source records which layer answered a resolution.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "store"
)

// Resolution is the outcome of a successful redirect lookup.
type Resolution struct {
	ShortID ShortID
	LongURL string
	Source  Source
}
