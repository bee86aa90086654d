package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps key/value pairs in process memory. It is the fallback
// behind the failover wrapper and the default driver for tests.
type MemoryStore struct {
	entries sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, ok := s.entries.Load(key)
	if !ok {
		return "", false, nil
	}
	return val.(string), true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.entries.Store(key, value)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}
