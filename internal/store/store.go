// internal/store/store.go
//
// Persistence interface for game state documents.
// Implementations may be backed by memory (tests/dev), SQLite, or a
// Redis read-through cache wrapping either.
//
// Writes use optimistic concurrency: State.Version is set to 1 by
// Create and bumped by every successful Update. An Update whose state
// carries a version older than the stored one fails with
// ErrVersionConflict and changes nothing, so two racing actions on the
// same game cannot silently overwrite each other.

package store

import (
	"context"
	"errors"

	"github.com/calderwb/mosaic/apps/go-server/internal/game"
)

var (
	// ErrNotFound is returned when a game id is absent from the store.
	ErrNotFound = errors.New("game not found")
	// ErrVersionConflict is returned when an Update carries a stale
	// version token.
	ErrVersionConflict = errors.New("game was modified concurrently")
)

// Store persists full GameState documents keyed by game id.
type Store interface {
	// Create inserts a new game and sets its Version to 1.
	Create(ctx context.Context, st *game.State) error

	// Get retrieves a game by id, including its current Version.
	Get(ctx context.Context, id string) (*game.State, error)

	// Update replaces the stored document if st.Version matches the
	// stored version, then bumps st.Version. Returns
	// ErrVersionConflict on a stale write.
	Update(ctx context.Context, st *game.State) error
}
