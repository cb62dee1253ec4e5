package store

import (
	"slices"
	"sync"
)

// Manager holds one Store per method, created on first use.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{stores: map[string]*Store{}}
}

// For returns the store of method key, creating it if needed.
func (m *Manager) For(key string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.stores[key]
	if !ok {
		s = New(key)
		m.stores[key] = s
	}
	return s
}

// Methods lists the method keys that have a store, sorted.
func (m *Manager) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.stores))
	for k := range m.stores {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
