package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/research"
	"go-lane-defense/pkg/geom"
)

// EffectiveRange is the emplacement's range after research.
func EffectiveRange(def *defs.EmplacementDefinition, stats defs.TierStats, mods research.Modifiers) float64 {
	r := stats.Range * mods.RangeMult
	if def.Area {
		r *= 1 + mods.AreaRangeBonus
	}
	return r
}

// Candidates lists living units within radius of origin, in store order.
func Candidates(units []*component.HostileUnit, origin geom.Vec2, radius float64) []*component.HostileUnit {
	var out []*component.HostileUnit
	r2 := radius * radius
	for _, u := range units {
		if u.Alive() && origin.DistSq(u.Position) <= r2 {
			out = append(out, u)
		}
	}
	return out
}

// SelectTarget applies the archetype's targeting rule: fixed-direction
// emplacements take the first candidate, a prioritised archetype wins when
// present, and otherwise the unit that has travelled furthest is picked.
func SelectTarget(def *defs.EmplacementDefinition, candidates []*component.HostileUnit) *component.HostileUnit {
	if len(candidates) == 0 {
		return nil
	}
	if def.FixedDirection {
		return candidates[0]
	}
	if def.Prioritizes != nil {
		var preferred []*component.HostileUnit
		for _, u := range candidates {
			if u.Kind == *def.Prioritizes {
				preferred = append(preferred, u)
			}
		}
		if len(preferred) > 0 {
			return mostAdvanced(preferred)
		}
	}
	return mostAdvanced(candidates)
}

func mostAdvanced(units []*component.HostileUnit) *component.HostileUnit {
	best := units[0]
	for _, u := range units[1:] {
		if u.Traveled > best.Traveled || (u.Traveled == best.Traveled && u.ID < best.ID) {
			best = u
		}
	}
	return best
}
