// internal/lanes/generator.go
package lanes

import (
	"fmt"

	"go-lane-defense/internal/config"
	"go-lane-defense/internal/utils"
	"go-lane-defense/pkg/gridmap"
)

// GenerationFailure reports that every layout attempt was rejected. The
// generator still returns the fallback layout alongside it.
type GenerationFailure struct {
	LaneCount int
	Attempts  int
	Reason    string
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("lane generation failed after %d attempts for %d lanes: %s", e.Attempts, e.LaneCount, e.Reason)
}

// Generator builds lane layouts on a grid. All randomness comes from rng.
type Generator struct {
	grid *gridmap.Grid
	rng  *utils.PRNGService

	MinSegment   int
	MaxClaim     float64
	LaneBudget   int
	LayoutBudget int
	GoalInset    int
	ExitSpacing  int
}

func NewGenerator(grid *gridmap.Grid, rng *utils.PRNGService) *Generator {
	return &Generator{
		grid:         grid,
		rng:          rng,
		MinSegment:   config.MinSegmentLength,
		MaxClaim:     config.MaxClaimFraction,
		LaneBudget:   config.LaneAttemptBudget,
		LayoutBudget: config.LayoutAttemptBudget,
		GoalInset:    config.GoalInset,
		ExitSpacing:  config.ExitSpacing,
	}
}

// Generate produces laneCount lanes and claims their cells on the grid. When
// every attempt fails it installs the fallback layout and returns it together
// with a *GenerationFailure.
func (g *Generator) Generate(laneCount int) ([]*Lane, error) {
	if laneCount < config.MinLaneCount || laneCount > config.MaxLaneCount {
		return nil, fmt.Errorf("lane count %d outside [%d, %d]", laneCount, config.MinLaneCount, config.MaxLaneCount)
	}
	reason := "no attempts"
	for attempt := 0; attempt < g.LayoutBudget; attempt++ {
		g.grid.ResetClaims()
		lanes, err := g.attempt(laneCount)
		if err == nil {
			return lanes, nil
		}
		reason = err.Error()
	}

	g.grid.ResetClaims()
	lanes := Fallback(g.grid.Width, g.grid.Height, laneCount)
	for i, l := range lanes {
		g.grid.Claim(i, l.Cells())
	}
	return lanes, &GenerationFailure{LaneCount: laneCount, Attempts: g.LayoutBudget, Reason: reason}
}

func (g *Generator) attempt(laneCount int) ([]*Lane, error) {
	entries := g.entries(laneCount)
	exits, err := g.exits(laneCount)
	if err != nil {
		return nil, err
	}

	// Every lane's endpoints are reserved up front so an early lane cannot
	// run through a later lane's entry or exit.
	reserved := make(map[gridmap.Cell]int, 2*laneCount)
	for i := range entries {
		reserved[entries[i]] = i
		reserved[exits[i]] = i
	}

	lanes := make([]*Lane, 0, laneCount)
	for i := 0; i < laneCount; i++ {
		sh := shape{
			width:  g.grid.Width,
			height: g.grid.Height,
			minSeg: g.MinSegment,
			entry:  entries[i],
			exit:   exits[i],
		}
		var accepted []gridmap.Cell
		for try := 0; try < g.LaneBudget; try++ {
			style := BendStyle(g.rng.Intn(int(bendStyleCount)))
			pts := sh.candidate(style, g.rng)
			if g.valid(i, pts, reserved) == nil {
				accepted = pts
				break
			}
		}
		if accepted == nil {
			return nil, fmt.Errorf("lane %d exhausted %d attempts", i, g.LaneBudget)
		}
		lane := NewLane(accepted)
		g.grid.Claim(i, lane.Cells())
		lanes = append(lanes, lane)
	}
	return lanes, nil
}

// entries splits the left edge into one zone per lane and picks a row in
// each, keeping a row of margin inside the zone.
func (g *Generator) entries(n int) []gridmap.Cell {
	zone := g.grid.Height / n
	out := make([]gridmap.Cell, n)
	for i := range out {
		top := i * zone
		out[i] = gridmap.Cell{X: 0, Y: g.rng.IntRange(top+1, top+zone-2)}
	}
	return out
}

// exits picks evenly spaced rows on the goal column around a random centre
// and shuffles which lane gets which.
func (g *Generator) exits(n int) ([]gridmap.Cell, error) {
	goalX := g.grid.Width - 1 - g.GoalInset
	span := g.ExitSpacing * (n - 1)
	lo, hi := 2, g.grid.Height-3-span
	if hi < lo || goalX < 2*g.MinSegment {
		return nil, fmt.Errorf("grid %dx%d too small for %d exits", g.grid.Width, g.grid.Height, n)
	}
	first := g.rng.IntRange(lo, hi)
	out := make([]gridmap.Cell, n)
	for i := range out {
		out[i] = gridmap.Cell{X: goalX, Y: first + i*g.ExitSpacing}
	}
	g.rng.Shuffle(n, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

// valid applies every geometric rejection rule to a candidate for lane.
func (g *Generator) valid(lane int, pts []gridmap.Cell, reserved map[gridmap.Cell]int) error {
	if len(pts) < 2 {
		return fmt.Errorf("degenerate polyline")
	}
	for _, p := range pts {
		if !g.grid.InBounds(p) {
			return fmt.Errorf("waypoint %v out of bounds", p)
		}
	}
	segs := make([][]gridmap.Cell, 0, len(pts)-1)
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		if a.X != b.X && a.Y != b.Y {
			return fmt.Errorf("segment %d is not axis-aligned", i)
		}
		if a.Distance(b) < g.MinSegment {
			return fmt.Errorf("segment %d shorter than %d", i, g.MinSegment)
		}
		segs = append(segs, a.LineTo(b))
	}

	owner := make(map[gridmap.Cell]int)
	claimed := 0
	for si, cells := range segs {
		for _, c := range cells {
			if prev, ok := owner[c]; ok {
				// Consecutive segments may only share their joint.
				if si-prev >= 2 || c != pts[si] {
					return fmt.Errorf("segments %d and %d overlap at %v", prev, si, c)
				}
				continue
			}
			owner[c] = si
			claimed++
			if other, ok := g.grid.ClaimedBy(c); ok && other != lane {
				return fmt.Errorf("cell %v claimed by lane %d", c, other)
			}
			if other, ok := reserved[c]; ok && other != lane {
				return fmt.Errorf("cell %v reserved for lane %d", c, other)
			}
		}
	}
	if float64(g.grid.ClaimedCount()+claimed) > g.MaxClaim*float64(g.grid.Area()) {
		return fmt.Errorf("claim cap exceeded")
	}
	return nil
}
