package lanes

import (
	"math"

	"go-lane-defense/internal/config"
	"go-lane-defense/pkg/gridmap"
)

// fallbackShapes is the hand-authored safe layout, in fractions of the goal
// column (x) and grid height (y). The outer lanes bend towards the middle
// exit rows; the centre lane runs straight.
var fallbackShapes = [][][2]float64{
	{{0, 0.18}, {0.55, 0.18}, {0.55, 0.375}, {1, 0.375}},
	{{0, 0.5}, {1, 0.5}},
	{{0, 0.82}, {0.55, 0.82}, {0.55, 0.625}, {1, 0.625}},
}

// Fallback returns the fixed layout scaled to a width x height grid. It has
// three lanes; smaller lane counts take a prefix of it.
func Fallback(width, height, laneCount int) []*Lane {
	goalX := width - 1 - config.GoalInset
	n := len(fallbackShapes)
	if laneCount > 0 && laneCount < n {
		n = laneCount
	}
	// Keep the centre lane when only one is asked for.
	shapes := fallbackShapes[:n]
	if n == 1 {
		shapes = fallbackShapes[1:2]
	}
	out := make([]*Lane, 0, n)
	for _, shape := range shapes {
		pts := make([]gridmap.Cell, len(shape))
		for i, p := range shape {
			pts[i] = gridmap.Cell{
				X: int(math.Round(p[0] * float64(goalX))),
				Y: int(math.Round(p[1] * float64(height-1))),
			}
		}
		out = append(out, NewLane(simplify(pts)))
	}
	return out
}
