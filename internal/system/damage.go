package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/types"
)

// applyHit lands a resolved hit on u, records it and remembers the killer.
func applyHit(u *component.HostileUnit, amount float64, source types.EntityID, ignorePhase bool, em *event.Emitter) float64 {
	wasAlive := u.Alive()
	applied := u.TakeDamage(amount, ignorePhase)
	em.Damaged(event.DamageInfo{Unit: u.ID, Source: source, Amount: applied})
	if wasAlive && u.Dead {
		u.Killer = source
	}
	return applied
}
