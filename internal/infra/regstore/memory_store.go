package regstore

import (
	"context"
	"sync"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
)

// MemoryStore is an in-memory implementation of the registry store for
// tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]string
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]string)}
}

// Get implements registry.Store.
func (s *MemoryStore) Get(_ context.Context, email string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.records[email]
	return hash, ok, nil
}

// Put implements registry.Store.
func (s *MemoryStore) Put(_ context.Context, email, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[email] = hash
	return nil
}

var _ registry.Store = (*MemoryStore)(nil)
