package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/research"
)

// ConstructionSystem advances construction jobs and buff windows, and keeps
// hull HP in step with the fortification research.
type ConstructionSystem struct {
	ecs      *entity.ECS
	power    *PowerAllocator
	lastFort float64
}

func NewConstructionSystem(ecs *entity.ECS, power *PowerAllocator) *ConstructionSystem {
	return &ConstructionSystem{ecs: ecs, power: power}
}

func (s *ConstructionSystem) Update(deltaTime float64, mods research.Modifiers, em *event.Emitter) {
	refit := mods.Fortification != s.lastFort
	s.lastFort = mods.Fortification
	for _, e := range s.ecs.Emplacements {
		if e.Destroyed {
			continue
		}
		if refit {
			e.RefreshMaxHP(mods.Fortification)
		}
		if e.BuffRemaining > 0 {
			e.BuffRemaining = max(0, e.BuffRemaining-deltaTime)
		}
		job := e.AdvanceJob(deltaTime, mods.Fortification)
		if job == nil {
			continue
		}
		switch job.Kind.(type) {
		case component.Building, component.Upgrading, component.Branching:
			s.power.MarkDirty()
		}
		em.Constructed(event.ConstructionInfo{
			Emplacement: e.ID,
			Kind:        e.Kind,
			State:       component.ConstructionName(job),
		})
	}
}

// Cleanup removes destroyed emplacements and reports each loss.
func (s *ConstructionSystem) Cleanup(em *event.Emitter) {
	removed := s.ecs.SweepEmplacements()
	for _, e := range removed {
		em.StructureLost(event.StructureLossInfo{Emplacement: e.ID, Kind: e.Kind})
	}
	if len(removed) > 0 {
		s.power.MarkDirty()
	}
}
