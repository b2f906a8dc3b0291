package server

import (
	"math"

	"github.com/lab1702/tank-arena/game"
)

// SpatialGrid provides O(1) average case lookup for nearby units using a
// sparse grid hash. The battlefield has no fixed bounds, so cells are keyed
// by coordinate rather than stored in a flat slice.
type SpatialGrid struct {
	cellSize float64
	cells    map[gridKey][]int // unit ids per cell
}

type gridKey struct{ col, row int }

// GridCellSize is the size of each grid cell in world units.
// Should be about the largest detection range so most queries touch 9 cells.
const GridCellSize = 30.0

// NewSpatialGrid creates an empty grid
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	if cellSize <= 0 {
		cellSize = GridCellSize
	}
	return &SpatialGrid{
		cellSize: cellSize,
		cells:    make(map[gridKey][]int),
	}
}

// Clear resets the grid for a new frame
func (g *SpatialGrid) Clear() {
	for k, ids := range g.cells {
		g.cells[k] = ids[:0] // reuse underlying array
	}
}

func (g *SpatialGrid) key(x, y float64) gridKey {
	return gridKey{
		col: int(math.Floor(x / g.cellSize)),
		row: int(math.Floor(y / g.cellSize)),
	}
}

// Insert adds a unit to the grid
func (g *SpatialGrid) Insert(id int, x, y float64) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], id)
}

// GetNearby returns unit ids that might be within radius of the given
// position. The caller must still perform exact distance checks.
func (g *SpatialGrid) GetNearby(x, y, radius float64) []int {
	center := g.key(x, y)
	span := int(math.Ceil(radius / g.cellSize))

	var result []int
	for dr := -span; dr <= span; dr++ {
		for dc := -span; dc <= span; dc++ {
			result = append(result, g.cells[gridKey{center.col + dc, center.row + dr}]...)
		}
	}
	return result
}

// IndexUnits populates the grid with all alive units
func (g *SpatialGrid) IndexUnits(units []*game.Unit) {
	g.Clear()
	for _, u := range units {
		if u.IsAlive() {
			g.Insert(u.ID, u.Pos.X, u.Pos.Y)
		}
	}
}
