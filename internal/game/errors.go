// internal/game/errors.go
//
// Typed failure kinds for engine operations. Every engine error is a
// validation failure, not a crash: callers match with errors.Is (and
// errors.As for PlacementError) and map to user-facing responses.

package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInProgress rejects actions against waiting or finished games.
	ErrNotInProgress = errors.New("game is not in progress")
	// ErrOutOfTurn rejects actions from anyone but the current player.
	ErrOutOfTurn = errors.New("not your turn")
	// ErrMissingPlacement rejects place actions with absent or
	// mismatched tiles/positions sequences.
	ErrMissingPlacement = errors.New("tiles and positions required for placement")
	// ErrTileNotInHand rejects placing a tile the player does not hold.
	ErrTileNotInHand = errors.New("tile not in hand")
	// ErrUnknownAction rejects unrecognized action types.
	ErrUnknownAction = errors.New("unknown action type")
	// ErrInvalidPlayerCount rejects game creation with negative AI seats.
	ErrInvalidPlayerCount = errors.New("number of AI players must be >= 0")
)

// PlacementError reports which tile of a batch failed placement
// validation. The whole action is rejected; nothing is applied.
type PlacementError struct {
	Index    int
	Tile     Tile
	Position Position
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("invalid placement for tile %d (%s %s at %d,%d)",
		e.Index, e.Tile.Color, e.Tile.Shape, e.Position.Row, e.Position.Col)
}
