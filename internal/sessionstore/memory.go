package sessionstore

import (
	"context"
	"sync"
)

// MemoryStore keeps session ids in process memory. It is the default store
// and the degradation target when a durable backend is unavailable.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: map[string]string{}}
}

func (m *MemoryStore) Get(ctx context.Context, clientID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slots[clientID]
	return id, ok
}

func (m *MemoryStore) Set(ctx context.Context, clientID, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[clientID] = sessionID
}

func (m *MemoryStore) Clear(ctx context.Context, clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, clientID)
}

func (m *MemoryStore) Available(ctx context.Context) bool {
	return true
}
