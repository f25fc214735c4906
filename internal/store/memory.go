package store

import (
	"context"
	"sync"

	"github.com/serroba/shortlink/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Store.
type MemoryStore struct {
	mu       sync.RWMutex
	mappings map[shortener.ShortID]shortener.Mapping
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mappings: make(map[shortener.ShortID]shortener.Mapping),
	}
}

func (m *MemoryStore) Insert(_ context.Context, mapping *shortener.Mapping) (*shortener.Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mappings[mapping.ID]; exists {
		return nil, shortener.ErrDuplicateID
	}

	stored := *mapping
	m.mappings[mapping.ID] = stored

	return &stored, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id shortener.ShortID) (*shortener.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.mappings[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &mapping, nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// Len returns the number of stored mappings.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.mappings)
}

var _ shortener.Store = (*MemoryStore)(nil)
