// internal/component/projectile.go
package component

import (
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/geom"
)

// Projectile is a homing shot from a direct-fire emplacement. Damage is
// resolved when it is fired; Arrived marks it for the next tick's impact
// phase.
type Projectile struct {
	ID     types.EntityID
	Source types.EntityID
	Kind   defs.EmplacementKind
	Target types.EntityID

	Position geom.Vec2
	Speed    float64
	Damage   float64

	SplashRadius float64
	SplashFactor float64
	IgnorePhase  bool

	Arrived bool
	Done    bool
}

// SiegeShot is a homing attack from a siege unit at an emplacement. Whether
// it misses is rolled when it is fired.
type SiegeShot struct {
	ID     types.EntityID
	Source types.EntityID
	Target types.EntityID

	Position geom.Vec2
	Speed    float64
	Damage   float64
	Miss     bool

	Arrived bool
	Done    bool
}
