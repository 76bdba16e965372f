// internal/game/score.go
//
// Scoring for place actions.
//
// Base score is one point per tile placed. Each placed tile then adds
// the length of its row and of its column, counted as the pre-action
// occupants plus the tile itself. The placed tile is therefore counted
// in both its row and its column tally. That double count is the
// established upstream rule, kept for score compatibility.

package game

// emptyHandBonus is awarded when a player goes out.
const emptyHandBonus = 6

// ScorePlacement scores a batch of placed tiles against the board as
// it stood before the action. tiles and positions are parallel.
func ScorePlacement(tiles []Tile, positions []Position, boardBefore []PlacedTile) int {
	score := len(tiles)
	for i := range tiles {
		rowLen, colLen := 1, 1
		for _, pt := range boardBefore {
			if pt.Position.Row == positions[i].Row {
				rowLen++
			}
			if pt.Position.Col == positions[i].Col {
				colLen++
			}
		}
		score += rowLen + colLen
	}
	return score
}
