// internal/system/movement.go
package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/lanes"
)

// MovementSystem walks units along their lanes.
type MovementSystem struct {
	ecs   *entity.ECS
	lanes []*lanes.Lane
}

func NewMovementSystem(ecs *entity.ECS, laneSet []*lanes.Lane) *MovementSystem {
	return &MovementSystem{ecs: ecs, lanes: laneSet}
}

func (s *MovementSystem) Update(deltaTime float64) {
	for _, u := range s.ecs.Units {
		if !u.Alive() || u.Lane < 0 || u.Lane >= len(s.lanes) {
			continue
		}
		if Advance(s.lanes[u.Lane], u, u.EffectiveSpeed()*deltaTime) {
			u.Leaked = true
		}
	}
}

// Advance moves u distance units along l. Overflow past a waypoint carries
// into the next segment. It reports whether u reached the last waypoint.
func Advance(l *lanes.Lane, u *component.HostileUnit, distance float64) bool {
	n := l.Segments()
	for distance > 0 && u.Segment < n {
		segLen := l.SegmentLength(u.Segment)
		if segLen <= 0 {
			u.Segment++
			u.Offset = 0
			continue
		}
		left := (1 - u.Offset) * segLen
		if distance < left {
			u.Offset += distance / segLen
			u.Traveled += distance
			distance = 0
			break
		}
		u.Traveled += left
		distance -= left
		u.Segment++
		u.Offset = 0
	}
	u.Position = l.PointAt(u.Segment, u.Offset)
	return u.Segment >= n
}
