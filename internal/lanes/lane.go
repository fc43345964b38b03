// Package lanes generates the paths hostile units walk from the world edge to
// the goal.
package lanes

import (
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
	"go-lane-defense/pkg/utils"
)

// Lane is an immutable polyline through cell centres.
type Lane struct {
	waypoints []gridmap.Cell
	points    []geom.Vec2
	lengths   []float64
	starts    []float64 // distance from the lane start to each segment start
	total     float64
	cells     []gridmap.Cell
}

// NewLane builds a lane from its waypoints. At least two waypoints are
// required; zero-length segments are kept but have length 0.
func NewLane(waypoints []gridmap.Cell) *Lane {
	l := &Lane{waypoints: append([]gridmap.Cell(nil), waypoints...)}
	for _, c := range l.waypoints {
		l.points = append(l.points, c.Center())
	}
	seen := make(map[gridmap.Cell]bool)
	for i := 0; i+1 < len(l.points); i++ {
		d := l.points[i].Dist(l.points[i+1])
		l.starts = append(l.starts, l.total)
		l.lengths = append(l.lengths, d)
		l.total += d
		for _, c := range l.waypoints[i].LineTo(l.waypoints[i+1]) {
			if !seen[c] {
				seen[c] = true
				l.cells = append(l.cells, c)
			}
		}
	}
	return l
}

// Waypoints returns a copy of the lane's waypoint cells.
func (l *Lane) Waypoints() []gridmap.Cell {
	return append([]gridmap.Cell(nil), l.waypoints...)
}

// Points returns the waypoint centres in world space.
func (l *Lane) Points() []geom.Vec2 {
	return append([]geom.Vec2(nil), l.points...)
}

// Cells returns every cell the lane passes through, in walking order.
func (l *Lane) Cells() []gridmap.Cell {
	return l.cells
}

// Segments returns the number of segments.
func (l *Lane) Segments() int {
	return len(l.lengths)
}

// SegmentLength returns the length of segment i, 0 when out of range.
func (l *Lane) SegmentLength(i int) float64 {
	if i < 0 || i >= len(l.lengths) {
		return 0
	}
	return l.lengths[i]
}

// Length is the total walking distance.
func (l *Lane) Length() float64 {
	return l.total
}

// Start returns the world position of the first waypoint.
func (l *Lane) Start() geom.Vec2 {
	if len(l.points) == 0 {
		return geom.Vec2{}
	}
	return l.points[0]
}

// End returns the world position of the goal waypoint.
func (l *Lane) End() geom.Vec2 {
	if len(l.points) == 0 {
		return geom.Vec2{}
	}
	return l.points[len(l.points)-1]
}

// PointAt returns the position at segment with the given fractional offset.
func (l *Lane) PointAt(segment int, offset float64) geom.Vec2 {
	if segment >= len(l.lengths) {
		return l.End()
	}
	if segment < 0 {
		return l.Start()
	}
	return geom.Lerp(l.points[segment], l.points[segment+1], utils.Clamp(offset, 0, 1))
}

// DistanceAt converts a segment/offset pair to distance from the start.
func (l *Lane) DistanceAt(segment int, offset float64) float64 {
	if segment >= len(l.lengths) {
		return l.total
	}
	if segment < 0 {
		return 0
	}
	return l.starts[segment] + l.lengths[segment]*utils.Clamp(offset, 0, 1)
}

// Locate converts a distance from the start to a segment/offset pair. The
// distance is clamped to the lane.
func (l *Lane) Locate(distance float64) (segment int, offset float64) {
	distance = utils.Clamp(distance, 0, l.total)
	for i, length := range l.lengths {
		if distance <= l.starts[i]+length || i == len(l.lengths)-1 {
			return i, utils.SafeDiv(distance-l.starts[i], length, 0)
		}
	}
	return 0, 0
}
