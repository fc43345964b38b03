// pkg/gridmap/grid.go
package gridmap

import (
	"math"

	"go-lane-defense/pkg/geom"
)

// Grid is the rectangular world. Cells claimed by a lane are not buildable.
type Grid struct {
	Width, Height int
	claims        map[Cell]int
}

// NewGrid creates an empty grid of the given size.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		claims: make(map[Cell]int),
	}
}

// Area returns the number of cells in the grid.
func (g *Grid) Area() int {
	return g.Width * g.Height
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

// CellAt returns the cell that contains world position p.
func (g *Grid) CellAt(p geom.Vec2) Cell {
	return Cell{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Claim marks cells as belonging to lane. Already-claimed cells keep their
// first owner.
func (g *Grid) Claim(lane int, cells []Cell) {
	for _, c := range cells {
		if _, taken := g.claims[c]; !taken {
			g.claims[c] = lane
		}
	}
}

// ClaimedBy returns the lane that owns c.
func (g *Grid) ClaimedBy(c Cell) (int, bool) {
	lane, ok := g.claims[c]
	return lane, ok
}

// ClaimedCount returns the number of claimed cells.
func (g *Grid) ClaimedCount() int {
	return len(g.claims)
}

// ResetClaims drops every lane claim.
func (g *Grid) ResetClaims() {
	g.claims = make(map[Cell]int)
}

// Buildable reports whether an emplacement may stand on c.
func (g *Grid) Buildable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	_, claimed := g.claims[c]
	return !claimed
}
