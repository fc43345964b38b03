package session

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/system"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
)

// UnitView is the renderable state of a hostile unit.
type UnitView struct {
	ID       types.EntityID   `json:"id"`
	Kind     defs.HostileKind `json:"kind"`
	Elite    int              `json:"elite"`
	Lane     int              `json:"lane"`
	Position geom.Vec2        `json:"position"`
	Health   float64          `json:"health"`
	Slowed   bool             `json:"slowed,omitempty"`
	Weakened bool             `json:"weakened,omitempty"`
	Burning  bool             `json:"burning,omitempty"`
	Phased   bool             `json:"phased,omitempty"`
	Bursting bool             `json:"bursting,omitempty"`
}

// EmplacementView is the renderable state of an emplacement.
type EmplacementView struct {
	ID           types.EntityID       `json:"id"`
	Kind         defs.EmplacementKind `json:"kind"`
	Name         string               `json:"name"`
	Cell         gridmap.Cell         `json:"cell"`
	Position     geom.Vec2            `json:"position"`
	Level        int                  `json:"level"`
	Branch       defs.BranchKey       `json:"branch,omitempty"`
	Health       float64              `json:"health"`
	Shield       float64              `json:"shield"`
	Construction string               `json:"construction"`
	Progress     float64              `json:"progress"`
	Powered      bool                 `json:"powered"`
	Buffed       bool                 `json:"buffed,omitempty"`
	Aim          *float64             `json:"aim,omitempty"`
	Range        float64              `json:"range"`
	Selected     bool                 `json:"selected,omitempty"`
}

// ShotView is a projectile or siege shot in flight.
type ShotView struct {
	Position geom.Vec2 `json:"position"`
	Siege    bool      `json:"siege,omitempty"`
}

// WaveView summarises the director.
type WaveView struct {
	Number    int     `json:"number"`
	Active    bool    `json:"active"`
	Countdown float64 `json:"countdown"`
	Pending   int     `json:"pending"`
}

// Snapshot is a read-only copy of everything a presentation layer draws.
type Snapshot struct {
	Tick           uint64            `json:"tick"`
	Economy        component.Economy `json:"economy"`
	ResearchPoints int               `json:"research_points"`
	Research       []string          `json:"research"`
	Wave           WaveView          `json:"wave"`
	Speed          float64           `json:"speed"`
	GameOver       bool              `json:"game_over"`
	Units          []UnitView        `json:"units"`
	Emplacements   []EmplacementView `json:"emplacements"`
	Shots          []ShotView        `json:"shots"`
}

// WaveState returns the director summary.
func (s *Session) WaveState() WaveView {
	d := s.Director
	return WaveView{Number: d.Wave, Active: d.Active, Countdown: max(0, d.Countdown), Pending: len(d.Queue)}
}

// Snapshot copies the current state. Entities are listed in store order.
func (s *Session) Snapshot() Snapshot {
	mods := s.Modifiers()
	snap := Snapshot{
		Tick:           s.tick,
		Economy:        s.Economy,
		ResearchPoints: s.Research.Points,
		Research:       s.Research.Owned(),
		Wave:           s.WaveState(),
		Speed:          s.speed,
		GameOver:       s.over,
	}
	for _, u := range s.ECS.Units {
		if !u.Alive() {
			continue
		}
		snap.Units = append(snap.Units, UnitView{
			ID:       u.ID,
			Kind:     u.Kind,
			Elite:    u.Elite,
			Lane:     u.Lane,
			Position: u.Position,
			Health:   u.HealthFraction(),
			Slowed:   u.Status.Slow.Active(),
			Weakened: u.Status.Vulnerability.Active(),
			Burning:  u.Status.DoT.Active(),
			Phased:   u.InPhaseWindow(),
			Bursting: u.Burst != nil && u.Behavior.Bursting,
		})
	}
	for _, e := range s.ECS.Emplacements {
		if e.Destroyed {
			continue
		}
		stats := e.Stats()
		v := EmplacementView{
			ID:           e.ID,
			Kind:         e.Kind,
			Name:         stats.Name,
			Cell:         e.Cell,
			Position:     e.Position,
			Health:       e.HealthFraction(),
			Shield:       e.ShieldFraction(),
			Construction: component.ConstructionName(e.Construction),
			Progress:     e.Construction.Progress(),
			Powered:      e.Power.Powered,
			Buffed:       e.Buffed(),
			Range:        system.EffectiveRange(e.Def(), stats, mods),
			Selected:     e.ID == s.selected,
		}
		if level, ok := e.Level(); ok {
			v.Level = level
		} else if b, ok := e.Progression.(component.Branch); ok {
			v.Level = defs.MaxLevel + 1
			v.Branch = b.Key
		}
		if ps, ok := stats.Weapon.(defs.PowerSource); ok {
			v.Range = ps.Radius
		}
		if a, ok := e.Aim(); ok {
			v.Aim = &a
		}
		snap.Emplacements = append(snap.Emplacements, v)
	}
	for _, p := range s.ECS.Projectiles {
		if !p.Done {
			snap.Shots = append(snap.Shots, ShotView{Position: p.Position})
		}
	}
	for _, sh := range s.ECS.SiegeShots {
		if !sh.Done {
			snap.Shots = append(snap.Shots, ShotView{Position: sh.Position, Siege: true})
		}
	}
	return snap
}
