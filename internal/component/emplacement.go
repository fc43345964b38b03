// internal/component/emplacement.go
package component

import (
	"math"

	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
	"go-lane-defense/pkg/utils"
)

// Emplacement is a player-built structure on a grid cell.
type Emplacement struct {
	ID       types.EntityID
	Kind     defs.EmplacementKind
	Cell     gridmap.Cell
	Position geom.Vec2

	Progression  Progression
	Construction *ConstructionJob

	HP     float64
	MaxHP  float64
	Shield *Shield

	// Invested is every payment made into this emplacement.
	Invested int

	BuffRemaining float64
	Cooldown      float64
	AimAngle      *float64

	Power PowerState

	Destroyed bool

	def *defs.EmplacementDefinition
}

// Shield is a consumable HP pool that absorbs damage before the hull.
type Shield struct {
	HP  float64
	Max float64
}

// PowerState is the allocator's verdict for a consumer. Sources are always
// powered.
type PowerState struct {
	Powered bool
	Source  types.EntityID
}

// NewEmplacement places a level-0 emplacement that starts in the building
// state. cost is recorded in the ledger.
func NewEmplacement(id types.EntityID, def *defs.EmplacementDefinition, cell gridmap.Cell, cost int, fortification float64) *Emplacement {
	e := &Emplacement{
		ID:          id,
		Kind:        def.Kind,
		Cell:        cell,
		Position:    cell.Center(),
		Progression: Level(0),
		Invested:    cost,
		def:         def,
	}
	e.MaxHP = e.maxHPFor(fortification)
	e.HP = e.MaxHP
	e.Construction = &ConstructionJob{Kind: Building{}, Duration: def.Levels[0].BuildTime}
	e.Power.Powered = def.IsSource()
	return e
}

// Def returns the archetype definition.
func (e *Emplacement) Def() *defs.EmplacementDefinition {
	return e.def
}

// Stats returns the tier stats selected by the current progression.
func (e *Emplacement) Stats() defs.TierStats {
	return TierFor(e.def, e.Progression)
}

// IsSource reports whether the emplacement supplies power.
func (e *Emplacement) IsSource() bool {
	return e.def.IsSource()
}

// Idle reports whether no construction job is running.
func (e *Emplacement) Idle() bool {
	return e.Construction == nil
}

// Operational reports whether the emplacement counts for power allocation:
// it exists and has finished its initial build.
func (e *Emplacement) Operational() bool {
	if e.Destroyed {
		return false
	}
	if e.Construction == nil {
		return true
	}
	_, building := e.Construction.Kind.(Building)
	return !building
}

// Buffed reports whether the damage buff window is open.
func (e *Emplacement) Buffed() bool {
	return e.BuffRemaining > 0
}

// Level returns the current level and false when the emplacement has branched.
func (e *Emplacement) Level() (int, bool) {
	l, ok := e.Progression.(Level)
	return int(l), ok
}

// StartJob enters a construction state.
func (e *Emplacement) StartJob(kind Construction, duration float64) {
	MustHold(e.Construction == nil, "emplacement %d already has a job", e.ID)
	e.Construction = &ConstructionJob{Kind: kind, Duration: duration}
}

// AdvanceJob moves the running job forward by dt and completes it when its
// timer runs out. It reports the job that completed, if any.
func (e *Emplacement) AdvanceJob(dt, fortification float64) *ConstructionJob {
	job := e.Construction
	if job == nil {
		return nil
	}
	job.Elapsed += dt
	if !job.Done() {
		return nil
	}
	e.Construction = nil
	switch k := job.Kind.(type) {
	case Building:
	case Upgrading:
		MustHold(CanUpgrade(e.Progression), "upgrade completed on %T", e.Progression)
		e.Progression = e.Progression.(Level) + 1
		e.RefreshMaxHP(fortification)
	case Branching:
		MustHold(CanBranch(e.Progression), "branch completed on %T", e.Progression)
		e.Progression = Branch{Key: k.Key}
		e.RefreshMaxHP(fortification)
	case Repairing:
		e.HP = e.MaxHP
	case Shielding:
		pool := config.ShieldHPFraction * e.MaxHP
		e.Shield = &Shield{HP: pool, Max: pool}
	}
	return job
}

// RefreshMaxHP recomputes MaxHP for the current tier and fortification.
// Growth is added to current HP; shrinkage only clamps it.
func (e *Emplacement) RefreshMaxHP(fortification float64) {
	next := e.maxHPFor(fortification)
	if next > e.MaxHP {
		e.HP += next - e.MaxHP
	}
	e.MaxHP = next
	e.HP = math.Min(e.HP, e.MaxHP)
}

func (e *Emplacement) maxHPFor(fortification float64) float64 {
	return math.Max(1, e.Stats().HP*(1+fortification))
}

// TakeDamage routes damage through the shield first. It returns the amounts
// absorbed by the shield and removed from the hull.
func (e *Emplacement) TakeDamage(amount float64) (absorbed, hull float64) {
	if e.Destroyed || amount <= 0 {
		return 0, 0
	}
	if e.Shield != nil && e.Shield.HP > 0 {
		absorbed = math.Min(e.Shield.HP, amount)
		e.Shield.HP -= absorbed
		amount -= absorbed
	}
	if amount > 0 {
		hull = math.Min(e.HP, amount)
		e.HP -= amount
		if e.HP <= 0 {
			e.HP = 0
			e.Destroyed = true
		}
	}
	return absorbed, hull
}

// MissingHPFraction is the share of hull HP lost, in [0, 1].
func (e *Emplacement) MissingHPFraction() float64 {
	return utils.Clamp(1-utils.SafeDiv(e.HP, e.MaxHP, 1), 0, 1)
}

// MissingShieldFraction is the share of the shield pool to buy: 1 when no
// shield exists.
func (e *Emplacement) MissingShieldFraction() float64 {
	if e.Shield == nil || e.Shield.Max <= 0 {
		return 1
	}
	return utils.Clamp(1-e.Shield.HP/e.Shield.Max, 0, 1)
}

// HealthFraction is HP/MaxHP in [0, 1].
func (e *Emplacement) HealthFraction() float64 {
	return utils.Clamp(utils.SafeDiv(e.HP, e.MaxHP, 0), 0, 1)
}

// ShieldFraction is the shield's remaining fraction, 0 without a shield.
func (e *Emplacement) ShieldFraction() float64 {
	if e.Shield == nil {
		return 0
	}
	return utils.Clamp(utils.SafeDiv(e.Shield.HP, e.Shield.Max, 0), 0, 1)
}

// Aim returns the explicit aim direction, if one was set.
func (e *Emplacement) Aim() (float64, bool) {
	if e.AimAngle == nil {
		return 0, false
	}
	return *e.AimAngle, true
}
