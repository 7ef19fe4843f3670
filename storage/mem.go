package storage

import (
	"fmt"
	"sync"
)

// MemStore is an in-process Store, used by tests and by hosts that do not
// persist between runs.
type MemStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{slots: make(map[string][]byte)}
}

func (s *MemStore) Read(slot string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[slot]
	if !ok {
		return nil, fmt.Errorf("storage: read %s: %w", slot, ErrSlotNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemStore) Write(slot string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = make(map[string][]byte)
	}
	s.slots[slot] = append([]byte(nil), data...)
	return nil
}

func (s *MemStore) Delete(slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}
