// internal/game/engine.go
//
// The rules engine: game setup and the turn state machine.
// Responsibilities:
//   - NewGame: seat players, shuffle and deal the pool, place the
//     referee tile, start the game.
//   - Apply: validate and execute one action (pass/exchange/place),
//     advance the turn, and detect termination.
//
// Apply is all-or-nothing: it deep-clones the input state, mutates the
// clone, and returns it. On any error the caller's state is unchanged.
// The engine holds no per-game state and is safe to share across games
// as long as callers serialize access to the RNG (one goroutine per
// request loop is fine; the HTTP layer guards it).

package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Engine executes game rules. The RNG drives pool shuffling and
// exchange reshuffles; inject a seeded rand.Rand for determinism.
type Engine struct {
	rng *rand.Rand
}

// New constructs an Engine. A nil rng gets a time-seeded source.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// NewGame creates and starts a game: one human named playerName plus
// numAI AI seats, in that order (the order fixes the turn sequence).
// Every player is dealt InitialHandSize tiles from the front of the
// shuffled pool, then one referee tile goes to the origin.
func (e *Engine) NewGame(playerName string, numAI int) (*State, error) {
	if numAI < 0 {
		return nil, ErrInvalidPlayerCount
	}

	players := make([]Player, 0, numAI+1)
	players = append(players, Player{
		ID:       uuid.NewString(),
		Name:     playerName,
		Type:     PlayerHuman,
		IsActive: true,
	})
	for i := 0; i < numAI; i++ {
		players = append(players, Player{
			ID:       uuid.NewString(),
			Name:     fmt.Sprintf("AI Player %d", i+1),
			Type:     PlayerAI,
			IsActive: true,
		})
	}

	st := &State{
		ID:             uuid.NewString(),
		Status:         StatusWaiting,
		Players:        players,
		RemainingTiles: NewTilePool(e.rng),
		CreatedAt:      time.Now().UTC(),
	}

	// Deal in seat order from the front of the pile. Short hands only
	// happen if the pool runs out, impossible at setup with 1080 tiles.
	for i := range st.Players {
		n := min(InitialHandSize, len(st.RemainingTiles))
		st.Players[i].Hand = append([]Tile(nil), st.RemainingTiles[:n]...)
		st.RemainingTiles = st.RemainingTiles[n:]
	}

	// Referee tile at the origin, before any validation exists.
	if len(st.RemainingTiles) > 0 {
		first := st.RemainingTiles[0]
		st.RemainingTiles = st.RemainingTiles[1:]
		st.Board = append(st.Board, PlacedTile{
			Tile:       first,
			Position:   Position{Row: 0, Col: 0},
			PlacedBy:   RefereeID,
			TurnNumber: 0,
		})
	}

	st.Status = StatusInProgress
	return st, nil
}

// Apply executes one action against st and returns the resulting
// state. st itself is never modified; on error the returned state is
// nil and nothing has happened.
func (e *Engine) Apply(st *State, a Action) (*State, error) {
	if st.Status != StatusInProgress {
		return nil, ErrNotInProgress
	}

	next := st.Clone()
	cur := next.CurrentPlayer()
	if a.PlayerID != cur.ID {
		return nil, ErrOutOfTurn
	}

	switch a.Type {
	case ActionPass:
		next.ConsecutivePasses++

	case ActionExchange:
		e.exchange(next, cur)

	case ActionPlace:
		if err := e.place(next, cur, a); err != nil {
			return nil, err
		}

	default:
		return nil, ErrUnknownAction
	}

	next.CurrentPlayerIndex = (next.CurrentPlayerIndex + 1) % len(next.Players)
	next.TurnNumber++

	// Everyone passed in a row: highest score wins, first seat on ties.
	if next.ConsecutivePasses >= len(next.Players) {
		next.Status = StatusFinished
		winner := &next.Players[0]
		for i := range next.Players {
			if next.Players[i].Score > winner.Score {
				winner = &next.Players[i]
			}
		}
		next.WinnerID = winner.ID
	}

	return next, nil
}

// exchange returns the whole hand to the pile, reshuffles, and draws a
// hand of min(old size, available).
func (e *Engine) exchange(next *State, cur *Player) {
	returned := len(cur.Hand)
	next.RemainingTiles = append(next.RemainingTiles, cur.Hand...)
	e.rng.Shuffle(len(next.RemainingTiles), func(i, j int) {
		next.RemainingTiles[i], next.RemainingTiles[j] = next.RemainingTiles[j], next.RemainingTiles[i]
	})
	n := min(returned, len(next.RemainingTiles))
	cur.Hand = append([]Tile(nil), next.RemainingTiles[:n]...)
	next.RemainingTiles = next.RemainingTiles[n:]
	next.ConsecutivePasses = 0
}

// place validates the batch against the pre-action board, removes the
// tiles from the hand by attribute match, puts them on the board,
// scores, and refills the hand up to the number placed.
func (e *Engine) place(next *State, cur *Player, a Action) error {
	if len(a.Tiles) == 0 || len(a.Positions) == 0 || len(a.Tiles) != len(a.Positions) {
		return ErrMissingPlacement
	}

	for i := range a.Tiles {
		if !ValidPlacement(a.Tiles[i], a.Positions[i], next.Board) {
			return &PlacementError{Index: i, Tile: a.Tiles[i], Position: a.Positions[i]}
		}
	}

	for _, t := range a.Tiles {
		found := -1
		for j, h := range cur.Hand {
			if h.SameKind(t) {
				found = j
				break
			}
		}
		if found < 0 {
			return ErrTileNotInHand
		}
		cur.Hand = append(cur.Hand[:found], cur.Hand[found+1:]...)
	}

	before := next.Board[:len(next.Board):len(next.Board)]
	for i := range a.Tiles {
		next.Board = append(next.Board, PlacedTile{
			Tile:       a.Tiles[i],
			Position:   a.Positions[i],
			PlacedBy:   cur.ID,
			TurnNumber: next.TurnNumber,
		})
	}
	cur.Score += ScorePlacement(a.Tiles, a.Positions, before)

	draw := min(len(a.Tiles), len(next.RemainingTiles))
	cur.Hand = append(cur.Hand, next.RemainingTiles[:draw]...)
	next.RemainingTiles = next.RemainingTiles[draw:]
	next.ConsecutivePasses = 0

	// Going out: only possible when the pile could not refill the hand.
	if len(cur.Hand) == 0 {
		cur.Score += emptyHandBonus
		next.Status = StatusFinished
		next.WinnerID = cur.ID
	}
	return nil
}
