// Package autopilot is a scripted player used by the headless runner and the
// viewer's demo mode. It only reads session state and answers with queued
// actions, so a recorded run replays without it.
package autopilot

import (
	"sort"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/session"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
)

// DefaultOrder is the weapon build rotation.
var DefaultOrder = []defs.EmplacementKind{
	defs.Blaster, defs.Blaster, defs.Frost, defs.Arc, defs.Lancer, defs.Blaster, defs.Quake,
}

const (
	coverageRadius = 3.0
	repairBelow    = 0.5
)

// Pilot picks at most one action of each sort per call: research, repair,
// aim, then one build or upgrade.
type Pilot struct {
	Order []defs.EmplacementKind
	// Reserve is kept back when deciding on upgrades.
	Reserve int

	next       int
	aimed      map[types.EntityID]bool
	candidates []candidate
	bound      *session.Session
}

type candidate struct {
	cell     gridmap.Cell
	coverage int
	aim      geom.Vec2
}

func New() *Pilot {
	return &Pilot{Order: DefaultOrder, Reserve: 40, aimed: make(map[types.EntityID]bool)}
}

// Plan returns the actions to queue for the next tick.
func (p *Pilot) Plan(s *session.Session) []session.Action {
	if s.GameOver() {
		return nil
	}
	if p.bound != s {
		p.bound = s
		p.candidates = rankCells(s)
		p.next = 0
		p.aimed = make(map[types.EntityID]bool)
	}

	var out []session.Action
	if a, ok := p.research(s); ok {
		out = append(out, a)
	}
	if a, ok := p.repair(s); ok {
		out = append(out, a)
	}
	if a, ok := p.aim(s); ok {
		out = append(out, a)
	}
	if a, ok := p.build(s); ok {
		out = append(out, a)
	} else if a, ok := p.upgrade(s); ok {
		out = append(out, a)
	}
	return out
}

func (p *Pilot) research(s *session.Session) (session.Action, bool) {
	for _, n := range research.Nodes {
		if s.Research.Check(n.ID) == nil {
			return session.Action{Kind: session.ActionResearch, Node: n.ID}, true
		}
	}
	return session.Action{}, false
}

func (p *Pilot) repair(s *session.Session) (session.Action, bool) {
	for _, e := range s.ECS.Emplacements {
		if e.Destroyed || !e.Idle() || e.IsSource() {
			continue
		}
		if e.HealthFraction() < repairBelow {
			return session.Action{Kind: session.ActionRepair, Emplacement: e.ID}, true
		}
	}
	return session.Action{}, false
}

// aim points each new fixed-direction emplacement at the lane cell it covers.
func (p *Pilot) aim(s *session.Session) (session.Action, bool) {
	for _, e := range s.ECS.Emplacements {
		if e.Destroyed || !e.Def().FixedDirection || p.aimed[e.ID] {
			continue
		}
		p.aimed[e.ID] = true
		for _, c := range p.candidates {
			if c.cell == e.Cell {
				angle := geom.Angle(e.Position, c.aim)
				return session.Action{Kind: session.ActionAim, Emplacement: e.ID, Angle: angle}, true
			}
		}
	}
	return session.Action{}, false
}

func (p *Pilot) build(s *session.Session) (session.Action, bool) {
	if len(p.Order) == 0 {
		return session.Action{}, false
	}
	kind := p.Order[p.next%len(p.Order)]
	if !s.Economy.CanAfford(s.Catalog.Emplacement(kind).Levels[0].Cost) {
		return session.Action{}, false
	}

	spare := spareSources(s)
	for _, c := range p.candidates {
		if !free(s, c.cell) {
			continue
		}
		for _, src := range spare {
			if src.pos.Dist(c.cell.Center()) <= src.radius {
				p.next++
				return session.Action{Kind: session.ActionPlace, Archetype: kind, Cell: c.cell}, true
			}
		}
	}

	// Nothing powered is free: open a new source at the best cell left.
	gen := s.Catalog.Emplacement(defs.Generator).Levels[0].Cost
	if !s.Economy.CanAfford(gen) {
		return session.Action{}, false
	}
	for _, c := range p.candidates {
		if free(s, c.cell) {
			return session.Action{Kind: session.ActionPlace, Archetype: defs.Generator, Cell: c.cell}, true
		}
	}
	return session.Action{}, false
}

// upgrade levels the weakest idle weapon, then branches maxed ones.
func (p *Pilot) upgrade(s *session.Session) (session.Action, bool) {
	var best *component.Emplacement
	bestLevel := defs.MaxLevel + 1
	for _, e := range s.ECS.Emplacements {
		if e.Destroyed || !e.Idle() || e.IsSource() {
			continue
		}
		level, ok := e.Level()
		if !ok {
			continue
		}
		if level < bestLevel {
			best, bestLevel = e, level
		}
	}
	if best == nil {
		return session.Action{}, false
	}
	def := best.Def()
	if component.CanUpgrade(best.Progression) {
		if s.Economy.CanAfford(def.Levels[bestLevel+1].Cost + p.Reserve) {
			return session.Action{Kind: session.ActionUpgrade, Emplacement: best.ID}, true
		}
		return session.Action{}, false
	}
	if component.CanBranch(best.Progression) {
		key := defs.BranchA
		if best.ID%2 == 1 {
			key = defs.BranchB
		}
		if s.Economy.CanAfford(def.Branch(key).Cost + p.Reserve) {
			return session.Action{Kind: session.ActionBranch, Emplacement: best.ID, Branch: key}, true
		}
	}
	return session.Action{}, false
}

type source struct {
	pos    geom.Vec2
	radius float64
}

// spareSources lists power sources with fewer consumers in reach than
// capacity, counting consumers that are still under construction.
func spareSources(s *session.Session) []source {
	bonus := s.Modifiers().SourceCapacityBonus
	var out []source
	for _, g := range s.ECS.Emplacements {
		if g.Destroyed || !g.IsSource() {
			continue
		}
		ps, ok := g.Stats().Weapon.(defs.PowerSource)
		if !ok {
			continue
		}
		load := 0
		for _, e := range s.ECS.Emplacements {
			if !e.Destroyed && !e.IsSource() && e.Position.Dist(g.Position) <= ps.Radius {
				load++
			}
		}
		if load < ps.Capacity+bonus {
			out = append(out, source{pos: g.Position, radius: ps.Radius})
		}
	}
	return out
}

func free(s *session.Session, c gridmap.Cell) bool {
	if !s.Grid.Buildable(c) {
		return false
	}
	_, taken := s.ECS.EmplacementAt(c)
	return !taken
}

// rankCells orders buildable cells by how many lane cells lie within
// coverageRadius, best first. Cells that cover nothing are dropped.
func rankCells(s *session.Session) []candidate {
	var laneCells []gridmap.Cell
	for _, l := range s.Lanes() {
		laneCells = append(laneCells, l.Cells()...)
	}
	var out []candidate
	for y := 0; y < s.Grid.Height; y++ {
		for x := 0; x < s.Grid.Width; x++ {
			cell := gridmap.Cell{X: x, Y: y}
			if !s.Grid.Buildable(cell) {
				continue
			}
			c := candidate{cell: cell}
			nearest := coverageRadius + 1
			for _, lc := range laneCells {
				d := cell.Center().Dist(lc.Center())
				if d > coverageRadius {
					continue
				}
				c.coverage++
				if d < nearest {
					nearest, c.aim = d, lc.Center()
				}
			}
			if c.coverage > 0 {
				out = append(out, c)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].coverage > out[j].coverage })
	return out
}
