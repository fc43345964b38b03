// internal/system/status_effect.go
package system

import (
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
)

// StatusEffectSystem runs effect timers and pays out damage-over-time.
type StatusEffectSystem struct {
	ecs *entity.ECS
}

func NewStatusEffectSystem(ecs *entity.ECS) *StatusEffectSystem {
	return &StatusEffectSystem{ecs: ecs}
}

func (s *StatusEffectSystem) Update(deltaTime float64, em *event.Emitter) {
	for _, u := range s.ecs.Units {
		if !u.Alive() {
			continue
		}
		if dot := u.Status.Advance(deltaTime); dot > 0 {
			applied := u.TakePureDamage(dot)
			em.Damaged(event.DamageInfo{Unit: u.ID, Amount: applied})
		}
	}
}
