// internal/store/memory.go
//
// In-memory implementation of Store.
// Used in tests and when durability is not required; state is lost on
// restart. Documents are deep-copied both ways so callers can never
// mutate the stored copy behind the store's back.

package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
)

// memory is a map-backed Store.
type memory struct {
	mu    sync.RWMutex
	games map[string]*game.State
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.State)}
}

func (m *memory) Create(ctx context.Context, st *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.games[st.ID]; exists {
		return fmt.Errorf("game %s already exists", st.ID)
	}
	st.Version = 1
	m.games[st.ID] = st.Clone()
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return st.Clone(), nil
}

func (m *memory) Update(ctx context.Context, st *game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.games[st.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != st.Version {
		return ErrVersionConflict
	}
	st.Version++
	m.games[st.ID] = st.Clone()
	return nil
}
