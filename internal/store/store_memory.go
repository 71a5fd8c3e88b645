package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore keeps records in memory for tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Fields
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Fields)}
}

// Keys returns every key in sorted order.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.records), nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (Fields, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", key, ErrNotFound)
	}
	return rec.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, key string, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = fields.Clone()
	return nil
}

func sortedKeys(m map[string]Fields) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
