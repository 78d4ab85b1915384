package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStorage keeps slots in process memory. Carts do not survive a restart.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{slots: make(map[string][]byte)}
}

func (s *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return slices.Clone(blob), nil
}

func (s *MemoryStorage) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = slices.Clone(blob)
	return nil
}

func (s *MemoryStorage) Close() error { return nil }
