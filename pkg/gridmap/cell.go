// pkg/gridmap/cell.go
package gridmap

import (
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/utils"
)

// Cell is a square grid cell addressed by column X and row Y.
type Cell struct {
	X, Y int
}

// Center returns the world-space centre of the cell.
func (c Cell) Center() geom.Vec2 {
	return geom.Vec2{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
}

// Add returns the component-wise sum of two cells.
func (c Cell) Add(o Cell) Cell {
	return Cell{X: c.X + o.X, Y: c.Y + o.Y}
}

// Distance is the Manhattan distance between cells.
func (c Cell) Distance(to Cell) int {
	return utils.Abs(c.X-to.X) + utils.Abs(c.Y-to.Y)
}

// Neighbors4 returns the four orthogonal neighbours, East first and then
// counter-clockwise.
func (c Cell) Neighbors4() []Cell {
	return []Cell{
		{c.X + 1, c.Y}, {c.X, c.Y - 1}, {c.X - 1, c.Y}, {c.X, c.Y + 1},
	}
}

// LineTo returns every cell on the segment from start to end, inclusive.
// Axis-aligned segments produce one cell per step; diagonal ones fall back to
// a Bresenham walk.
func (start Cell) LineTo(end Cell) []Cell {
	dx := utils.Abs(end.X - start.X)
	dy := -utils.Abs(end.Y - start.Y)
	sx := utils.Sign(end.X - start.X)
	sy := utils.Sign(end.Y - start.Y)

	n := dx
	if -dy > n {
		n = -dy
	}
	out := make([]Cell, 0, n+1)

	err := dx + dy
	x, y := start.X, start.Y
	for {
		out = append(out, Cell{x, y})
		if x == end.X && y == end.Y {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}
