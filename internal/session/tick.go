package session

import (
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/event"
	mathutil "go-lane-defense/pkg/utils"
)

// Tick applies the queued actions and then advances the world by one step.
// The frame delta is clamped to config.MaxDeltaTime before the speed
// multiplier applies. After the game is over the world no longer advances
// and every action is rejected.
func (s *Session) Tick(deltaTime float64, actions []Action) (*event.TickEvents, []ActionResult) {
	em := s.em
	results := make([]ActionResult, 0, len(actions))
	for _, a := range actions {
		results = append(results, s.Apply(a))
	}

	dt := mathutil.Clamp(deltaTime, 0, config.MaxDeltaTime) * s.speed
	if !s.over && dt > 0 {
		s.step(dt, em)
	}

	s.tick++
	s.em = event.NewEmitter(s.tick+1, s.EventDispatcher)
	return em.Events, results
}

// step runs the systems in their fixed order.
func (s *Session) step(dt float64, em *event.Emitter) {
	mods := s.Modifiers()

	s.Director.Update(dt, em)

	s.StatusEffectSystem.Update(dt, em)
	s.BehaviorSystem.Update(dt, em)
	s.MovementSystem.Update(dt)

	if s.LeakSystem.Update(em) {
		s.over = true
		em.GameOver(event.GameOverInfo{Wave: s.Director.Wave})
		s.logger.Printf("game over on wave %d", s.Director.Wave)
		s.ECS.SweepUnits()
		s.ECS.SweepShots()
		return
	}

	s.ProjectileSystem.ResolveSiege(em)
	s.ProjectileSystem.Resolve(em)
	s.ConstructionSystem.Cleanup(em)

	s.ConstructionSystem.Update(dt, mods, em)
	s.Power.Refresh(mods)

	s.CombatSystem.Update(dt, mods, em)
	s.ProjectileSystem.Move(dt)

	s.DeathSystem.Update(em)
	s.ECS.SweepUnits()
	s.ECS.SweepShots()

	s.Director.CheckCleared(em)
}
