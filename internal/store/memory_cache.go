package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/serroba/shortlink/internal/shortener"
)

const defaultCleanupInterval = 10 * time.Minute

// MemoryCache is an in-process implementation of shortener.Cache backed by go-cache.
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates an in-process cache. Expired entries are swept every cleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = defaultCleanupInterval
	}

	return &MemoryCache{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (m *MemoryCache) Get(_ context.Context, id shortener.ShortID) (string, error) {
	value, ok := m.items.Get(string(id))
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	longURL, ok := value.(string)
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	return longURL, nil
}

// Set stores the long URL. A non-positive ttl keeps the entry until it is overwritten.
func (m *MemoryCache) Set(_ context.Context, id shortener.ShortID, longURL string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}

	m.items.Set(string(id), longURL, ttl)

	return nil
}

// Ping always succeeds for the in-process cache.
func (m *MemoryCache) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of entries, including expired ones not yet swept.
func (m *MemoryCache) Len() int {
	return m.items.ItemCount()
}

var _ shortener.Cache = (*MemoryCache)(nil)
