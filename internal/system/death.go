package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/lanes"
	"go-lane-defense/internal/utils"
)

// LeakSystem charges lives for units that reached the goal.
type LeakSystem struct {
	ecs     *entity.ECS
	economy *component.Economy
}

func NewLeakSystem(ecs *entity.ECS, economy *component.Economy) *LeakSystem {
	return &LeakSystem{ecs: ecs, economy: economy}
}

// Update reports whether the player ran out of lives.
func (s *LeakSystem) Update(em *event.Emitter) bool {
	out := false
	for _, u := range s.ecs.Units {
		if !u.Leaked || u.Settled {
			continue
		}
		u.Settled = true
		out = s.economy.LoseLives(u.LivesCost) || out
		em.Leaked(event.LeakInfo{Unit: u.ID, Kind: u.Kind, LivesCost: u.LivesCost})
		em.Economy(event.EconomyInfo{Money: s.economy.Money, Lives: s.economy.Lives})
	}
	return out
}

// DeathSystem pays rewards for dead units and spawns split offspring.
type DeathSystem struct {
	ecs      *entity.ECS
	lanes    []*lanes.Lane
	rng      *utils.PRNGService
	economy  *component.Economy
	director *WaveDirector
}

func NewDeathSystem(ecs *entity.ECS, laneSet []*lanes.Lane, rng *utils.PRNGService, economy *component.Economy, director *WaveDirector) *DeathSystem {
	return &DeathSystem{ecs: ecs, lanes: laneSet, rng: rng, economy: economy, director: director}
}

func (s *DeathSystem) Update(em *event.Emitter) {
	units := s.ecs.Units
	for _, u := range units {
		if !u.Dead || u.Settled {
			continue
		}
		u.Settled = true
		cause := event.CauseWeapon
		if u.Killer == 0 {
			cause = event.CauseDoT
		}
		s.economy.Earn(u.Reward)
		em.Died(event.DeathInfo{
			Unit: u.ID, Kind: u.Kind, Elite: u.Elite, Cause: cause,
			Killer: u.Killer, Reward: u.Reward, Position: u.Position,
		})
		em.Economy(event.EconomyInfo{Money: s.economy.Money, Lives: s.economy.Lives, Delta: u.Reward})
		if u.Split != nil {
			s.split(u, em)
		}
	}
}

func (s *DeathSystem) split(u *component.HostileUnit, em *event.Emitter) {
	if u.Lane < 0 || u.Lane >= len(s.lanes) {
		return
	}
	base := s.lanes[u.Lane].DistanceAt(u.Segment, u.Offset)
	for i := 0; i < u.Split.Count; i++ {
		jitter := (s.rng.Float64()*2 - 1) * config.SplitJitter
		s.director.SpawnAt(u.Split.Into, u.Elite, u.Lane, base+jitter, u.ID, em)
	}
}
