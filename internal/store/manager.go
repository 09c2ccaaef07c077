package store

import (
	"context"
	"sync"

	"github.com/ldrouet/marque/internal/storage"
)

// Manager hands out one Store per user, lazily loading the working set from
// the persistence adapter on first access.
type Manager struct {
	mu      sync.Mutex
	adapter storage.Adapter
	stores  map[string]*Store
}

// NewManager creates a Manager backed by adapter.
func NewManager(adapter storage.Adapter) *Manager {
	return &Manager{
		adapter: adapter,
		stores:  make(map[string]*Store),
	}
}

// StoreFor returns the store for userID, loading it on first use.
func (m *Manager) StoreFor(ctx context.Context, userID string) (*Store, error) {
	m.mu.Lock()
	if s, ok := m.stores[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	// Load outside the manager lock; a concurrent first access for the same
	// user may race, the first registered store wins.
	s := New(userID, m.adapter)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.stores[userID]; ok {
		return existing, nil
	}
	m.stores[userID] = s
	return s, nil
}

// Loaded returns the currently loaded stores. The trash purger iterates
// these; users that never signed in this process are swept on their next
// session load instead.
func (m *Manager) Loaded() []*Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Store, 0, len(m.stores))
	for _, s := range m.stores {
		out = append(out, s)
	}
	return out
}
