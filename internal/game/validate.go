// internal/game/validate.go
//
// Placement validation.
// A tile may go on an empty cell that touches the existing structure
// (except the very first referee tile, placed before validation ever
// runs) and must share shape or color with every orthogonal neighbor.

package game

// boardIndex builds a position lookup for the given board.
func boardIndex(board []PlacedTile) map[Position]Tile {
	idx := make(map[Position]Tile, len(board))
	for _, pt := range board {
		idx[pt.Position] = pt.Tile
	}
	return idx
}

// neighborTiles returns the occupied orthogonal neighbors of pos.
func neighborTiles(pos Position, idx map[Position]Tile) []Tile {
	candidates := [4]Position{
		{Row: pos.Row - 1, Col: pos.Col},
		{Row: pos.Row + 1, Col: pos.Col},
		{Row: pos.Row, Col: pos.Col - 1},
		{Row: pos.Row, Col: pos.Col + 1},
	}
	var out []Tile
	for _, c := range candidates {
		if t, ok := idx[c]; ok {
			out = append(out, t)
		}
	}
	return out
}

// ValidPlacement reports whether tile may be placed at pos on board.
//
// Rules:
//   - The position must be unoccupied.
//   - On a non-empty board the position needs at least one occupied
//     orthogonal neighbor.
//   - The tile must share shape or color with every such neighbor.
//
// Each tile of a multi-tile action is checked against the board as it
// stood before the action; tiles of the same batch do not see each
// other. That matches the upstream rules even though a batch can
// therefore place tiles that would not validate against one another.
func ValidPlacement(tile Tile, pos Position, board []PlacedTile) bool {
	idx := boardIndex(board)
	if _, occupied := idx[pos]; occupied {
		return false
	}
	neighbors := neighborTiles(pos, idx)
	if len(neighbors) == 0 && len(board) > 0 {
		return false
	}
	for _, n := range neighbors {
		if !tile.MatchesAttribute(n) {
			return false
		}
	}
	return true
}
