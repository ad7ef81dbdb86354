package kv

import (
	"context"
	"sync"

	"github.com/shulehub/shule/core"
)

// InMemStore is a process-local core.KVStore, used in tests and in dev
// setups with no Redis around.
type InMemStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ core.KVStore = (*InMemStore)(nil)

func NewInMemStore() *InMemStore {
	return &InMemStore{data: make(map[string][]byte)}
}

func (s *InMemStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	return cp, nil
}

func (s *InMemStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	s.data[key] = cp
	return nil
}

func (s *InMemStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
