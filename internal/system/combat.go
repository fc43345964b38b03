// internal/system/combat.go
package system

import (
	"sort"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/utils"
	"go-lane-defense/pkg/geom"
)

// CombatSystem runs emplacement cooldowns, targeting and firing.
type CombatSystem struct {
	ecs *entity.ECS
	rng *utils.PRNGService
}

func NewCombatSystem(ecs *entity.ECS, rng *utils.PRNGService) *CombatSystem {
	return &CombatSystem{ecs: ecs, rng: rng}
}

// shot carries what every weapon needs for one firing.
type shot struct {
	e      *component.Emplacement
	stats  defs.TierStats
	reach  float64
	mods   research.Modifiers
	target *component.HostileUnit
}

func (s *CombatSystem) Update(deltaTime float64, mods research.Modifiers, em *event.Emitter) {
	for _, e := range s.ecs.Emplacements {
		if e.Destroyed || e.IsSource() {
			continue
		}
		if e.Cooldown > 0 {
			e.Cooldown = max(0, e.Cooldown-deltaTime)
		}
		if e.Cooldown > 0 || !e.Power.Powered {
			continue
		}
		stats := e.Stats()
		rate := stats.FireRate * mods.FireRateMult
		if job := e.Construction; job != nil {
			if !mods.ActiveConstruction || !job.AllowsActiveFire() {
				continue
			}
			rate *= config.ActiveConstructionRate
		}
		if rate <= 0 {
			continue
		}

		reach := EffectiveRange(e.Def(), stats, mods)
		target := SelectTarget(e.Def(), Candidates(s.ecs.Units, e.Position, reach))
		if target == nil {
			continue
		}
		hits := s.fire(shot{e: e, stats: stats, reach: reach, mods: mods, target: target}, em)
		if hits == 0 {
			continue
		}
		component.MustHold(e.Power.Powered, "emplacement %d fired while unpowered", e.ID)
		e.Cooldown = 1.0 / rate
		em.Fired(event.FireInfo{Emplacement: e.ID, Kind: e.Kind, Targets: hits})
	}
}

// fire dispatches on the weapon capability and returns the number of units
// hit (or targeted, for projectiles).
func (s *CombatSystem) fire(sh shot, em *event.Emitter) int {
	switch w := sh.stats.Weapon.(type) {
	case defs.DirectFire:
		return s.fireProjectile(sh, w)
	case defs.PierceBeam:
		return s.fireBeam(sh, w, em)
	case defs.ChainArc:
		return s.fireChain(sh, w, em)
	case defs.SlowPulse:
		return s.firePulse(sh, w, em)
	case defs.RadialBurst:
		return s.fireBurst(sh, em)
	}
	return 0
}

func (s *CombatSystem) hitContext(sh shot, u *component.HostileUnit) HitContext {
	return HitContext{
		Target:   u,
		Distance: sh.e.Position.Dist(u.Position),
		Range:    sh.reach,
		Buffed:   sh.e.Buffed(),
	}
}

func (s *CombatSystem) strike(sh shot, u *component.HostileUnit, base float64, em *event.Emitter) {
	dmg := ResolveHit(base, s.hitContext(sh, u), sh.mods, s.rng)
	applyHit(u, dmg, sh.e.ID, sh.mods.PhaseBreaker, em)
}

func (s *CombatSystem) fireProjectile(sh shot, w defs.DirectFire) int {
	dmg := ResolveHit(sh.stats.Damage, s.hitContext(sh, sh.target), sh.mods, s.rng)
	s.ecs.AddProjectile(&component.Projectile{
		ID:           s.ecs.NewEntity(),
		Source:       sh.e.ID,
		Kind:         sh.e.Kind,
		Target:       sh.target.ID,
		Position:     sh.e.Position,
		Speed:        w.ProjectileSpeed,
		Damage:       dmg,
		SplashRadius: w.SplashRadius,
		SplashFactor: w.SplashFactor,
		IgnorePhase:  sh.mods.PhaseBreaker,
	})
	return 1
}

// fireBeam resolves instantly along the aim angle, or towards the target
// when no angle was set, hitting units inside the corridor nearest first.
func (s *CombatSystem) fireBeam(sh shot, w defs.PierceBeam, em *event.Emitter) int {
	angle, ok := sh.e.Aim()
	if !ok {
		angle = geom.Angle(sh.e.Position, sh.target.Position)
	}
	dir := geom.FromAngle(angle)
	type beamHit struct {
		u     *component.HostileUnit
		along float64
	}
	var hits []beamHit
	for _, u := range s.ecs.Units {
		if !u.Alive() {
			continue
		}
		along, perp := geom.RayProjection(sh.e.Position, dir, u.Position)
		if along < 0 || along > sh.reach || perp > w.Width/2 {
			continue
		}
		hits = append(hits, beamHit{u: u, along: along})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].along < hits[j].along })
	if len(hits) > w.PierceCap {
		hits = hits[:w.PierceCap]
	}
	for _, h := range hits {
		s.strike(sh, h.u, sh.stats.Damage, em)
	}
	return len(hits)
}

// fireChain hits the target, then hops to the nearest unhit living unit
// within chain range of the last one, losing Falloff per hop.
func (s *CombatSystem) fireChain(sh shot, w defs.ChainArc, em *event.Emitter) int {
	hit := map[*component.HostileUnit]bool{}
	cur := sh.target
	dmg := sh.stats.Damage
	n := 0
	for cur != nil && n < w.ChainCap {
		hit[cur] = true
		s.strike(sh, cur, dmg, em)
		if w.DotDPS > 0 && cur.Alive() {
			cur.Status.ApplyDoT(w.DotDPS, w.DotDuration)
		}
		n++
		dmg *= w.Falloff

		var next *component.HostileUnit
		best := w.ChainRange * w.ChainRange
		for _, u := range s.ecs.Units {
			if hit[u] || !u.Alive() {
				continue
			}
			if d := cur.Position.DistSq(u.Position); d <= best && (next == nil || d < best) {
				next, best = u, d
			}
		}
		cur = next
	}
	return n
}

// firePulse damages, slows and optionally weakens every unit in range.
func (s *CombatSystem) firePulse(sh shot, w defs.SlowPulse, em *event.Emitter) int {
	slow, slowDur := ScaledSlow(w.SlowFactor, w.SlowDuration, sh.mods)
	vuln, vulnDur := ScaledVulnerability(w.VulnFactor, w.VulnDuration, sh.mods)
	targets := Candidates(s.ecs.Units, sh.e.Position, sh.reach)
	for _, u := range targets {
		s.strike(sh, u, sh.stats.Damage, em)
		if !u.Alive() {
			continue
		}
		u.Status.ApplySlow(slow, slowDur)
		u.Status.ApplyVulnerability(vuln, vulnDur)
	}
	return len(targets)
}

func (s *CombatSystem) fireBurst(sh shot, em *event.Emitter) int {
	targets := Candidates(s.ecs.Units, sh.e.Position, sh.reach)
	for _, u := range targets {
		s.strike(sh, u, sh.stats.Damage, em)
	}
	return len(targets)
}
