package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and throwaway sandboxes.
// It can also inject faults: set FailSlot to make every access to that slot
// return FailErr.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte

	FailSlot string
	FailErr  error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, slot string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot == m.FailSlot && m.FailErr != nil {
		return nil, m.FailErr
	}
	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Set(ctx context.Context, slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot == m.FailSlot && m.FailErr != nil {
		return m.FailErr
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.slots[slot] = stored
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot == m.FailSlot && m.FailErr != nil {
		return m.FailErr
	}
	delete(m.slots, slot)
	return nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
