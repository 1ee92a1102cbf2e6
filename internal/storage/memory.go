package storage

import (
	"sync"
)

// MemoryStore is a KeyValue held in a map. Nothing survives the process,
// which suits tests and ephemeral sessions.
type MemoryStore struct {
	values map[string]string
	mu     sync.RWMutex // Protects values from concurrent access

	// FailWrites makes every Set return this error; nil disables it
	FailWrites error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get reads the value stored under key
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set replaces the value stored under key
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.values[key] = value
	return nil
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
