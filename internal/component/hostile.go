// internal/component/hostile.go
package component

import (
	"math"

	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/utils"
)

// HostileUnit is a unit advancing along a lane.
type HostileUnit struct {
	ID    types.EntityID
	Kind  defs.HostileKind
	Elite int

	Health    float64
	MaxHealth float64
	Speed     float64
	Armor     float64
	Reward    int
	LivesCost int

	// Lane progress: Segment indexes the lane segment the unit is on and
	// Offset is the fraction of that segment already covered.
	Lane     int
	Segment  int
	Offset   float64
	Traveled float64
	Position geom.Vec2

	Status   StatusEffects
	Behavior BehaviorTimers

	Phase *defs.PhaseCycle
	Burst *defs.BurstCycle
	Heal  *defs.HealAura
	Siege *defs.SiegeAttack // elite-scaled copy
	Split *defs.SplitOnDeath

	Dead   bool
	Leaked bool

	// Killer is the emplacement that landed the lethal hit; zero when a
	// damage-over-time tick finished the unit.
	Killer types.EntityID
	// Settled is set once the death or leak has been paid out.
	Settled bool
}

// BehaviorTimers are the archetype cycles. Each counts down to its next
// transition.
type BehaviorTimers struct {
	PhaseTimer float64
	Phased     bool
	BurstTimer float64
	Bursting   bool
	HealTimer  float64
	SiegeTimer float64
}

// NewHostileUnit builds a unit from its definition. healthScale is the wave
// health curve and rewardScale the wave reward curve; the elite tier is
// applied on top of both.
func NewHostileUnit(id types.EntityID, def *defs.HostileDefinition, elite int, healthScale, rewardScale float64, lane int) *HostileUnit {
	if elite < 0 || elite >= len(defs.EliteScales) {
		elite = 0
	}
	es := defs.EliteScales[elite]
	hp := math.Max(1, def.Health*healthScale*es.Health)
	h := &HostileUnit{
		ID:        id,
		Kind:      def.Kind,
		Elite:     elite,
		Health:    hp,
		MaxHealth: hp,
		Speed:     def.Speed * es.Speed,
		Armor:     def.Armor * es.Armor,
		Reward:    int(math.Round(float64(def.Reward) * rewardScale * es.Reward)),
		LivesCost: def.LivesCost,
		Lane:      lane,
		Phase:     def.Phase,
		Burst:     def.Burst,
		Heal:      def.Heal,
		Split:     def.Split,
	}
	if def.Siege != nil {
		s := *def.Siege
		s.Damage *= es.Attack
		s.Interval /= math.Max(1, es.Attack)
		h.Siege = &s
		h.Behavior.SiegeTimer = s.Interval
	}
	if h.Phase != nil {
		h.Behavior.PhaseTimer = h.Phase.Off
	}
	if h.Burst != nil {
		h.Behavior.BurstTimer = h.Burst.Every
	}
	if h.Heal != nil {
		h.Behavior.HealTimer = h.Heal.Interval
	}
	return h
}

// Alive reports whether the unit is still on the field.
func (h *HostileUnit) Alive() bool {
	return !h.Dead && !h.Leaked
}

// InPhaseWindow reports whether the unit is inside its damage-reduction window.
func (h *HostileUnit) InPhaseWindow() bool {
	return h.Phase != nil && h.Behavior.Phased
}

// EffectiveSpeed is the base speed scaled by an active slow, overridden
// wholesale by a running burst.
func (h *HostileUnit) EffectiveSpeed() float64 {
	if h.Burst != nil && h.Behavior.Bursting {
		return h.Burst.Speed
	}
	return h.Speed * h.Status.SlowFactor()
}

// TakeDamage applies a hit and returns the health actually removed. The
// order is phase window, then armor (floored at 1), then vulnerability.
// ignorePhase skips the phase window reduction.
func (h *HostileUnit) TakeDamage(amount float64, ignorePhase bool) float64 {
	if !h.Alive() || amount <= 0 {
		return 0
	}
	if h.InPhaseWindow() && !ignorePhase {
		amount *= h.Phase.DamageFactor
	}
	amount -= h.Armor
	if amount < 1 {
		amount = 1
	}
	amount *= h.Status.VulnerabilityFactor()
	return h.removeHealth(amount)
}

// TakePureDamage removes health without armor, phase or vulnerability.
func (h *HostileUnit) TakePureDamage(amount float64) float64 {
	if !h.Alive() || amount <= 0 {
		return 0
	}
	return h.removeHealth(amount)
}

func (h *HostileUnit) removeHealth(amount float64) float64 {
	applied := math.Min(amount, h.Health)
	h.Health -= amount
	if h.Health <= 0 {
		h.Health = 0
		h.Dead = true
	}
	return applied
}

// Restore heals up to MaxHealth and returns the amount restored.
func (h *HostileUnit) Restore(amount float64) float64 {
	if !h.Alive() || amount <= 0 {
		return 0
	}
	before := h.Health
	h.Health = math.Min(h.MaxHealth, h.Health+amount)
	return h.Health - before
}

// HealthFraction is Health/MaxHealth in [0, 1].
func (h *HostileUnit) HealthFraction() float64 {
	return utils.Clamp(utils.SafeDiv(h.Health, h.MaxHealth, 0), 0, 1)
}
