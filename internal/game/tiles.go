// internal/game/tiles.go
//
// Tile catalog and pool generation.
// The full pool is 6 shapes x 6 colors x 30 copies = 1080 tiles.
// Shuffling uses the caller-supplied RNG so games are reproducible
// under test; see Engine.

package game

import (
	"math/rand"

	"github.com/google/uuid"
)

const (
	// TilesPerType is how many copies of each (shape, color) pair exist.
	TilesPerType = 30
	// InitialHandSize is dealt to every player at setup.
	InitialHandSize = 6
	// PoolSize is the invariant total tile count of a game.
	PoolSize = 6 * 6 * TilesPerType
)

var shapes = []Shape{ShapeStar, ShapeEightStar, ShapeSquare, ShapeCircle, ShapeClover, ShapeDiamond}
var colors = []Color{ColorRed, ColorGreen, ColorBlue, ColorYellow, ColorOrange, ColorPurple}

// Shapes returns the six tile shapes in catalog order.
func Shapes() []Shape { return append([]Shape(nil), shapes...) }

// Colors returns the six tile colors in catalog order.
func Colors() []Color { return append([]Color(nil), colors...) }

// CatalogInfo is the static tile catalog exposed by the API.
type CatalogInfo struct {
	Shapes       []Shape `json:"shapes"`
	Colors       []Color `json:"colors"`
	TilesPerType int     `json:"tiles_per_type"`
}

// Catalog returns the tile type catalog. Pure and constant.
func Catalog() CatalogInfo {
	return CatalogInfo{Shapes: Shapes(), Colors: Colors(), TilesPerType: TilesPerType}
}

// NewTilePool builds the full 1080-tile pool, one fresh ID per tile,
// and returns it in a uniformly random order drawn from rng.
func NewTilePool(rng *rand.Rand) []Tile {
	tiles := make([]Tile, 0, PoolSize)
	for _, s := range shapes {
		for _, c := range colors {
			for i := 0; i < TilesPerType; i++ {
				tiles = append(tiles, Tile{Shape: s, Color: c, ID: uuid.NewString()})
			}
		}
	}
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return tiles
}
