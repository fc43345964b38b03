// internal/system/power.go
package system

import (
	"sort"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/types"
)

// powerLink is a consumer within reach of a source.
type powerLink struct {
	Consumer *component.Emplacement
	Source   *component.Emplacement
	Distance float64
}

// sortPowerLinks orders links nearest first, breaking ties by source and
// then consumer identity so the allocation is reproducible.
func sortPowerLinks(links []powerLink) {
	sort.Slice(links, func(i, j int) bool {
		a, b := links[i], links[j]
		if a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		if a.Source.ID != b.Source.ID {
			return a.Source.ID < b.Source.ID
		}
		return a.Consumer.ID < b.Consumer.ID
	})
}

// PowerAllocator decides which consumers are powered. It only recomputes
// when marked dirty or when the research that shapes it changed.
type PowerAllocator struct {
	ecs        *entity.ECS
	dirty      bool
	lastBonus  int
	lastActive bool
}

func NewPowerAllocator(ecs *entity.ECS) *PowerAllocator {
	return &PowerAllocator{ecs: ecs, dirty: true}
}

// MarkDirty schedules a recompute: call it when an emplacement is added,
// removed or finishes construction.
func (p *PowerAllocator) MarkDirty() {
	p.dirty = true
}

// Refresh recomputes the allocation if needed and reports whether it did.
func (p *PowerAllocator) Refresh(mods research.Modifiers) bool {
	if mods.SourceCapacityBonus != p.lastBonus || mods.ActiveConstruction != p.lastActive {
		p.dirty = true
	}
	if !p.dirty {
		return false
	}
	p.dirty = false
	p.lastBonus = mods.SourceCapacityBonus
	p.lastActive = mods.ActiveConstruction
	Allocate(p.ecs.Emplacements, mods.SourceCapacityBonus, mods.ActiveConstruction)
	return true
}

// Allocate greedily assigns each consumer to the nearest source that still
// has capacity. Consumers still being built only take part when
// includeBuilding is set; sources still being built supply nothing.
func Allocate(emplacements []*component.Emplacement, capacityBonus int, includeBuilding bool) {
	var sources, consumers []*component.Emplacement
	for _, e := range emplacements {
		if e.Destroyed {
			continue
		}
		if e.IsSource() {
			e.Power = component.PowerState{Powered: true, Source: e.ID}
			if e.Operational() {
				sources = append(sources, e)
			}
			continue
		}
		e.Power = component.PowerState{}
		if e.Operational() || includeBuilding {
			consumers = append(consumers, e)
		}
	}

	remaining := make(map[types.EntityID]int, len(sources))
	var links []powerLink
	for _, src := range sources {
		ps, ok := src.Stats().Weapon.(defs.PowerSource)
		if !ok {
			continue
		}
		remaining[src.ID] = ps.Capacity + capacityBonus
		for _, c := range consumers {
			if d := src.Position.Dist(c.Position); d <= ps.Radius {
				links = append(links, powerLink{Consumer: c, Source: src, Distance: d})
			}
		}
	}
	sortPowerLinks(links)

	for _, l := range links {
		if l.Consumer.Power.Powered || remaining[l.Source.ID] < config.ConsumerPowerCost {
			continue
		}
		remaining[l.Source.ID] -= config.ConsumerPowerCost
		l.Consumer.Power = component.PowerState{Powered: true, Source: l.Source.ID}
	}
}
