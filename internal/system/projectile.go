// internal/system/projectile.go
package system

import (
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/pkg/geom"
)

// ProjectileSystem moves homing shots and lands the ones that arrived on the
// previous tick. A shot whose target or source is gone is dropped.
type ProjectileSystem struct {
	ecs *entity.ECS
}

func NewProjectileSystem(ecs *entity.ECS) *ProjectileSystem {
	return &ProjectileSystem{ecs: ecs}
}

// ResolveSiege lands arrived siege shots on their emplacements.
func (s *ProjectileSystem) ResolveSiege(em *event.Emitter) {
	for _, shot := range s.ecs.SiegeShots {
		if shot.Done {
			continue
		}
		target, ok := s.ecs.Emplacement(shot.Target)
		if _, alive := s.ecs.Unit(shot.Source); !ok || !alive {
			shot.Done = true
			continue
		}
		if !shot.Arrived {
			continue
		}
		shot.Done = true
		if shot.Miss {
			continue
		}
		absorbed, hull := target.TakeDamage(shot.Damage)
		em.StructureDamaged(event.StructureDamageInfo{
			Emplacement: target.ID, Attacker: shot.Source, Absorbed: absorbed, Hull: hull,
		})
	}
}

// Resolve lands arrived projectiles, including splash.
func (s *ProjectileSystem) Resolve(em *event.Emitter) {
	for _, p := range s.ecs.Projectiles {
		if p.Done {
			continue
		}
		target, ok := s.ecs.Unit(p.Target)
		if _, alive := s.ecs.Emplacement(p.Source); !ok || !alive {
			p.Done = true
			continue
		}
		if !p.Arrived {
			continue
		}
		p.Done = true
		applyHit(target, p.Damage, p.Source, p.IgnorePhase, em)
		if p.SplashRadius <= 0 || p.SplashFactor <= 0 {
			continue
		}
		r2 := p.SplashRadius * p.SplashRadius
		for _, u := range s.ecs.Units {
			if u == target || !u.Alive() || u.Position.DistSq(p.Position) > r2 {
				continue
			}
			applyHit(u, p.Damage*p.SplashFactor, p.Source, p.IgnorePhase, em)
		}
	}
}

// Move advances every shot still in flight towards its target's current
// position.
func (s *ProjectileSystem) Move(deltaTime float64) {
	for _, p := range s.ecs.Projectiles {
		if p.Done || p.Arrived {
			continue
		}
		target, ok := s.ecs.Unit(p.Target)
		if !ok {
			p.Done = true
			continue
		}
		p.Position, p.Arrived = home(p.Position, target.Position, p.Speed*deltaTime)
	}
	for _, shot := range s.ecs.SiegeShots {
		if shot.Done || shot.Arrived {
			continue
		}
		target, ok := s.ecs.Emplacement(shot.Target)
		if !ok {
			shot.Done = true
			continue
		}
		shot.Position, shot.Arrived = home(shot.Position, target.Position, shot.Speed*deltaTime)
	}
}

func home(from, to geom.Vec2, step float64) (geom.Vec2, bool) {
	if from.Dist(to) <= step+config.ProjectileHitRadius {
		return to, true
	}
	next, _ := geom.MoveTowards(from, to, step)
	return next, false
}
