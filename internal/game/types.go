// internal/game/types.go
//
// Core type definitions for the Mosaic game engine.
// Defines:
//   - Shape, Color: the six-by-six tile attribute space.
//   - Tile, Position, PlacedTile: board vocabulary.
//   - Player, Action, State: the aggregate game state and its inputs.
//
// Wire format note: JSON tags use snake_case so documents round-trip
// unchanged through the store and the HTTP API.

package game

import "time"

// Shape is one of the six tile shapes.
type Shape string

const (
	ShapeStar      Shape = "star"
	ShapeEightStar Shape = "8star"
	ShapeSquare    Shape = "square"
	ShapeCircle    Shape = "circle"
	ShapeClover    Shape = "clover"
	ShapeDiamond   Shape = "diamond"
)

// Color is one of the six tile colors.
type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorOrange Color = "orange"
	ColorPurple Color = "purple"
)

// Status is the lifecycle state of a game.
// "waiting" exists only during setup; NewGame returns games already
// in progress, and "finished" is terminal.
type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
)

// PlayerType distinguishes the human creator from AI seats.
// AI players hold tiles and accrue score but the server never chooses
// moves for them.
type PlayerType string

const (
	PlayerHuman PlayerType = "human"
	PlayerAI    PlayerType = "ai"
)

// ActionType tags the three possible turn actions.
type ActionType string

const (
	ActionPass     ActionType = "pass"
	ActionExchange ActionType = "exchange"
	ActionPlace    ActionType = "place"
)

// RefereeID marks the setup tile placed at the origin before any turn.
const RefereeID = "referee"

// Tile is an immutable game piece. ID is unique per physical tile;
// gameplay equality (hand matching, placement rules) is by shape and
// color only, see SameKind.
type Tile struct {
	Shape Shape  `json:"shape"`
	Color Color  `json:"color"`
	ID    string `json:"id"`
}

// SameKind reports whether two tiles are interchangeable for gameplay.
func (t Tile) SameKind(o Tile) bool {
	return t.Shape == o.Shape && t.Color == o.Color
}

// MatchesAttribute reports whether two tiles share a shape or a color.
func (t Tile) MatchesAttribute(o Tile) bool {
	return t.Shape == o.Shape || t.Color == o.Color
}

// Position is a cell on the unbounded integer grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PlacedTile is a tile fixed on the board. PlacedBy is a player ID or
// RefereeID for the setup tile.
type PlacedTile struct {
	Tile       Tile     `json:"tile"`
	Position   Position `json:"position"`
	PlacedBy   string   `json:"placed_by"`
	TurnNumber int      `json:"turn_number"`
}

// Player is one seat at the table.
type Player struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Type     PlayerType `json:"player_type"`
	Hand     []Tile     `json:"hand"`
	Score    int        `json:"score"`
	IsActive bool       `json:"is_active"`
}

// Action is a single turn submission. Tiles and Positions are parallel
// sequences and only meaningful for ActionPlace.
type Action struct {
	Type      ActionType `json:"action_type"`
	PlayerID  string     `json:"player_id"`
	Tiles     []Tile     `json:"tiles,omitempty"`
	Positions []Position `json:"positions,omitempty"`
}

// State is the aggregate root for one game. The engine never shares a
// State between games or requests; Apply works on a clone and returns
// it, so a failed action leaves the caller's copy untouched.
//
// Version is the optimistic-concurrency token managed by the store:
// set to 1 on create and bumped on every successful update. A write
// carrying a stale version is rejected.
type State struct {
	ID                 string       `json:"id"`
	Status             Status       `json:"status"`
	Players            []Player     `json:"players"`
	Board              []PlacedTile `json:"board"`
	RemainingTiles     []Tile       `json:"remaining_tiles"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	TurnNumber         int          `json:"turn_number"`
	CreatedAt          time.Time    `json:"created_at"`
	WinnerID           string       `json:"winner_id,omitempty"`
	ConsecutivePasses  int          `json:"consecutive_passes"`
	Version            int64        `json:"version"`
}

// Clone returns a deep copy of the state. Hands, board and draw pile
// are copied so mutations on the clone never leak into the original.
func (s *State) Clone() *State {
	c := *s
	c.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p
		c.Players[i].Hand = append([]Tile(nil), p.Hand...)
	}
	c.Board = append([]PlacedTile(nil), s.Board...)
	c.RemainingTiles = append([]Tile(nil), s.RemainingTiles...)
	return &c
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player {
	return &s.Players[s.CurrentPlayerIndex]
}

// TileCount is the total number of tiles across hands, board and the
// draw pile. Constant (PoolSize) for the lifetime of a game.
func (s *State) TileCount() int {
	n := len(s.RemainingTiles) + len(s.Board)
	for _, p := range s.Players {
		n += len(p.Hand)
	}
	return n
}
