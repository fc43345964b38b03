package lanes

import (
	"go-lane-defense/internal/utils"
	"go-lane-defense/pkg/gridmap"
)

// BendStyle is a named family of polylines between an entry and an exit.
type BendStyle int

const (
	SingleBend BendStyle = iota
	WideSweep
	DoubleBend
	LateralHook
	bendStyleCount
)

func (s BendStyle) String() string {
	switch s {
	case SingleBend:
		return "single_bend"
	case WideSweep:
		return "wide_sweep"
	case DoubleBend:
		return "double_bend"
	case LateralHook:
		return "lateral_hook"
	}
	return "unknown"
}

// shape holds the parameters every bend style draws from.
type shape struct {
	width, height int
	minSeg        int
	entry, exit   gridmap.Cell
}

// candidate draws a random polyline of the given style. All segments are
// axis-aligned; the result is simplified but not validated.
func (sh shape) candidate(style BendStyle, rng *utils.PRNGService) []gridmap.Cell {
	e, x := sh.entry, sh.exit
	lo, hi := 1, sh.height-2
	var pts []gridmap.Cell
	switch style {
	case SingleBend:
		bx := rng.IntRange(e.X+sh.minSeg, x.X-sh.minSeg)
		pts = []gridmap.Cell{e, {X: bx, Y: e.Y}, {X: bx, Y: x.Y}, x}
	case WideSweep:
		// Run past the goal column, turn, and come back to the exit from the
		// far side. The run may first shift to a detour row.
		ox := rng.IntRange(x.X+sh.minSeg, sh.width-2)
		bx := rng.IntRange(e.X+sh.minSeg, x.X-sh.minSeg)
		sy := e.Y
		if rng.Chance(0.5) {
			sy = rng.IntRange(lo, hi)
		}
		pts = []gridmap.Cell{e, {X: bx, Y: e.Y}, {X: bx, Y: sy}, {X: ox, Y: sy}, {X: ox, Y: x.Y}, x}
	case DoubleBend:
		b1 := rng.IntRange(e.X+sh.minSeg, x.X-2*sh.minSeg)
		b2 := rng.IntRange(b1+sh.minSeg, x.X-sh.minSeg)
		my := rng.IntRange(lo, hi)
		pts = []gridmap.Cell{e, {X: b1, Y: e.Y}, {X: b1, Y: my}, {X: b2, Y: my}, {X: b2, Y: x.Y}, x}
	case LateralHook:
		// Step away from the exit row, cross over, then hook into the exit
		// from either side.
		away := -1
		if x.Y < e.Y {
			away = 1
		}
		hy := e.Y + away*rng.IntRange(sh.minSeg, sh.minSeg+4)
		b1 := rng.IntRange(e.X+sh.minSeg, x.X-sh.minSeg)
		var b2 int
		if rng.Chance(0.5) {
			b2 = rng.IntRange(x.X+sh.minSeg, sh.width-2)
		} else {
			b2 = rng.IntRange(b1+sh.minSeg, x.X-sh.minSeg)
		}
		pts = []gridmap.Cell{e, {X: b1, Y: e.Y}, {X: b1, Y: hy}, {X: b2, Y: hy}, {X: b2, Y: x.Y}, x}
	}
	return simplify(pts)
}

// simplify drops repeated waypoints and middle points lying between their
// neighbours on a straight line.
func simplify(pts []gridmap.Cell) []gridmap.Cell {
	out := make([]gridmap.Cell, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
		for len(out) >= 3 {
			a, b, c := out[len(out)-3], out[len(out)-2], out[len(out)-1]
			if !between(a, b, c) {
				break
			}
			out = append(out[:len(out)-2], c)
		}
	}
	return out
}

func between(a, b, c gridmap.Cell) bool {
	if a.X == b.X && b.X == c.X {
		return (a.Y <= b.Y && b.Y <= c.Y) || (a.Y >= b.Y && b.Y >= c.Y)
	}
	if a.Y == b.Y && b.Y == c.Y {
		return (a.X <= b.X && b.X <= c.X) || (a.X >= b.X && b.X >= c.X)
	}
	return false
}
