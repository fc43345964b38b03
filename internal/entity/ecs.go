// internal/entity/ecs.go
package entity

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/gridmap"
)

// ECS owns every live simulated entity. Lists keep insertion order so that
// iteration is deterministic; the maps are lookup indexes over the same
// pointers.
type ECS struct {
	NextID types.EntityID

	Units        []*component.HostileUnit
	Emplacements []*component.Emplacement
	Projectiles  []*component.Projectile
	SiegeShots   []*component.SiegeShot

	units        map[types.EntityID]*component.HostileUnit
	emplacements map[types.EntityID]*component.Emplacement
	cells        map[gridmap.Cell]*component.Emplacement
}

func NewECS() *ECS {
	return &ECS{
		NextID:       1,
		units:        make(map[types.EntityID]*component.HostileUnit),
		emplacements: make(map[types.EntityID]*component.Emplacement),
		cells:        make(map[gridmap.Cell]*component.Emplacement),
	}
}

func (ecs *ECS) NewEntity() types.EntityID {
	id := ecs.NextID
	ecs.NextID++
	return id
}

func (ecs *ECS) AddUnit(u *component.HostileUnit) {
	ecs.Units = append(ecs.Units, u)
	ecs.units[u.ID] = u
}

func (ecs *ECS) AddEmplacement(e *component.Emplacement) {
	ecs.Emplacements = append(ecs.Emplacements, e)
	ecs.emplacements[e.ID] = e
	ecs.cells[e.Cell] = e
}

func (ecs *ECS) AddProjectile(p *component.Projectile) {
	ecs.Projectiles = append(ecs.Projectiles, p)
}

func (ecs *ECS) AddSiegeShot(s *component.SiegeShot) {
	ecs.SiegeShots = append(ecs.SiegeShots, s)
}

// Unit returns a live unit by ID.
func (ecs *ECS) Unit(id types.EntityID) (*component.HostileUnit, bool) {
	u, ok := ecs.units[id]
	if !ok || !u.Alive() {
		return nil, false
	}
	return u, true
}

// Emplacement returns a standing emplacement by ID.
func (ecs *ECS) Emplacement(id types.EntityID) (*component.Emplacement, bool) {
	e, ok := ecs.emplacements[id]
	if !ok || e.Destroyed {
		return nil, false
	}
	return e, true
}

// EmplacementAt returns the emplacement occupying cell.
func (ecs *ECS) EmplacementAt(cell gridmap.Cell) (*component.Emplacement, bool) {
	e, ok := ecs.cells[cell]
	return e, ok
}

// AliveUnits counts units that have neither died nor leaked.
func (ecs *ECS) AliveUnits() int {
	n := 0
	for _, u := range ecs.Units {
		if u.Alive() {
			n++
		}
	}
	return n
}

// RemoveEmplacement drops an emplacement from the store immediately.
func (ecs *ECS) RemoveEmplacement(id types.EntityID) {
	e, ok := ecs.emplacements[id]
	if !ok {
		return
	}
	delete(ecs.emplacements, id)
	if ecs.cells[e.Cell] == e {
		delete(ecs.cells, e.Cell)
	}
	ecs.Emplacements = filter(ecs.Emplacements, func(x *component.Emplacement) bool { return x.ID != id })
}

// SweepUnits removes dead and leaked units.
func (ecs *ECS) SweepUnits() {
	ecs.Units = filter(ecs.Units, func(u *component.HostileUnit) bool {
		if u.Alive() {
			return true
		}
		delete(ecs.units, u.ID)
		return false
	})
}

// SweepEmplacements removes destroyed emplacements and returns them.
func (ecs *ECS) SweepEmplacements() []*component.Emplacement {
	var removed []*component.Emplacement
	ecs.Emplacements = filter(ecs.Emplacements, func(e *component.Emplacement) bool {
		if !e.Destroyed {
			return true
		}
		removed = append(removed, e)
		delete(ecs.emplacements, e.ID)
		if ecs.cells[e.Cell] == e {
			delete(ecs.cells, e.Cell)
		}
		return false
	})
	return removed
}

// SweepShots removes finished projectiles and siege shots.
func (ecs *ECS) SweepShots() {
	ecs.Projectiles = filter(ecs.Projectiles, func(p *component.Projectile) bool { return !p.Done })
	ecs.SiegeShots = filter(ecs.SiegeShots, func(s *component.SiegeShot) bool { return !s.Done })
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	var zero T
	for i := len(out); i < len(items); i++ {
		items[i] = zero
	}
	return out
}
