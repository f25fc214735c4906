package shortener_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serroba/shortlink/internal/shortener"
)

var errBackend = errors.New("backend down")

// fakeStore is a test double for shortener.Store with scripted failures.
type fakeStore struct {
	mu        sync.Mutex
	mappings  map[shortener.ShortID]shortener.Mapping
	insertErr error
	findErr   error
	inserts   int
	finds     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{mappings: make(map[shortener.ShortID]shortener.Mapping)}
}

func (f *fakeStore) Insert(_ context.Context, mapping *shortener.Mapping) (*shortener.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts++

	if f.insertErr != nil {
		return nil, f.insertErr
	}

	if _, exists := f.mappings[mapping.ID]; exists {
		return nil, shortener.ErrDuplicateID
	}

	f.mappings[mapping.ID] = *mapping

	stored := *mapping

	return &stored, nil
}

func (f *fakeStore) FindByID(_ context.Context, id shortener.ShortID) (*shortener.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finds++

	if f.findErr != nil {
		return nil, f.findErr
	}

	mapping, ok := f.mappings[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &mapping, nil
}

func (f *fakeStore) seed(id, longURL string) {
	f.mappings[shortener.ShortID(id)] = shortener.Mapping{ID: shortener.ShortID(id), LongURL: longURL, CreatedAt: time.Now()}
}

// fakeCache is a test double for shortener.Cache with scripted failures.
type fakeCache struct {
	mu      sync.Mutex
	entries map[shortener.ShortID]string
	getErr  error
	setErr  error
	sets    int
	lastTTL time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[shortener.ShortID]string)}
}

func (f *fakeCache) Get(_ context.Context, id shortener.ShortID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return "", f.getErr
	}

	longURL, ok := f.entries[id]
	if !ok {
		return "", shortener.ErrCacheMiss
	}

	return longURL, nil
}

func (f *fakeCache) Set(_ context.Context, id shortener.ShortID, longURL string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.sets++
	f.lastTTL = ttl

	if f.setErr != nil {
		return f.setErr
	}

	f.entries[id] = longURL

	return nil
}

func (f *fakeCache) get(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.entries[shortener.ShortID(id)]

	return v, ok
}

// fakeLimiter is a test double for ratelimit.Limiter.
type fakeLimiter struct {
	mu    sync.Mutex
	allow bool
	err   error
	keys  []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.keys = append(f.keys, key)

	return f.allow, f.err
}

// sequence returns a generator yielding ids in order, repeating the last one.
func sequence(ids ...string) shortener.CodeGenerator {
	var (
		mu sync.Mutex
		i  int
	)

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		id := ids[min(i, len(ids)-1)]
		i++

		return id
	}
}
