package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/utils"
)

// BehaviorSystem drives the archetype cycles: phase windows, speed bursts,
// healing auras and siege attacks.
type BehaviorSystem struct {
	ecs *entity.ECS
	rng *utils.PRNGService
}

func NewBehaviorSystem(ecs *entity.ECS, rng *utils.PRNGService) *BehaviorSystem {
	return &BehaviorSystem{ecs: ecs, rng: rng}
}

func (s *BehaviorSystem) Update(deltaTime float64, em *event.Emitter) {
	for _, u := range s.ecs.Units {
		if !u.Alive() {
			continue
		}
		b := &u.Behavior
		if p := u.Phase; p != nil && p.On+p.Off > 0 {
			b.PhaseTimer -= deltaTime
			for b.PhaseTimer <= 0 {
				b.Phased = !b.Phased
				if b.Phased {
					b.PhaseTimer += p.On
				} else {
					b.PhaseTimer += p.Off
				}
			}
		}
		if bc := u.Burst; bc != nil && bc.Every+bc.Duration > 0 {
			b.BurstTimer -= deltaTime
			for b.BurstTimer <= 0 {
				b.Bursting = !b.Bursting
				if b.Bursting {
					b.BurstTimer += bc.Duration
				} else {
					b.BurstTimer += bc.Every
				}
			}
		}
		if h := u.Heal; h != nil && h.Interval > 0 {
			b.HealTimer -= deltaTime
			for b.HealTimer <= 0 {
				b.HealTimer += h.Interval
				s.heal(u, em)
			}
		}
		if sg := u.Siege; sg != nil && sg.Interval > 0 {
			b.SiegeTimer -= deltaTime
			if b.SiegeTimer <= 0 {
				if s.siege(u) {
					b.SiegeTimer += sg.Interval
				} else {
					// Nothing in reach: try again next tick.
					b.SiegeTimer = 0
				}
			}
		}
	}
}

func (s *BehaviorSystem) heal(healer *component.HostileUnit, em *event.Emitter) {
	r2 := healer.Heal.Radius * healer.Heal.Radius
	for _, other := range s.ecs.Units {
		if other == healer || !other.Alive() {
			continue
		}
		if healer.Position.DistSq(other.Position) > r2 {
			continue
		}
		amount := other.Restore(healer.Heal.Amount)
		em.Healed(event.HealInfo{Unit: other.ID, Healer: healer.ID, Amount: amount})
	}
}

// siege picks an emplacement in range, closer ones more likely, and fires a
// shot at it. The miss is rolled now and revealed on arrival.
func (s *BehaviorSystem) siege(u *component.HostileUnit) bool {
	var targets []*component.Emplacement
	var weights []float64
	for _, e := range s.ecs.Emplacements {
		if e.Destroyed {
			continue
		}
		d := u.Position.Dist(e.Position)
		if d > u.Siege.Range {
			continue
		}
		targets = append(targets, e)
		weights = append(weights, 1/(d+0.5))
	}
	i := s.rng.ChooseWeighted(weights)
	if i < 0 {
		return false
	}
	s.ecs.AddSiegeShot(&component.SiegeShot{
		ID:       s.ecs.NewEntity(),
		Source:   u.ID,
		Target:   targets[i].ID,
		Position: u.Position,
		Speed:    config.SiegeShotSpeed,
		Damage:   u.Siege.Damage,
		Miss:     s.rng.Chance(u.Siege.MissChance),
	})
	return true
}
