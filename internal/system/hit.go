package system

import (
	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/utils"
	mathutil "go-lane-defense/pkg/utils"
)

// HitContext is what the shared hit resolution needs to know about a shot.
type HitContext struct {
	Target   *component.HostileUnit
	Distance float64 // from the emplacement to the target
	Range    float64 // the emplacement's effective range
	Buffed   bool
}

// ResolveHit turns base weapon damage into the damage handed to the
// target. Bonuses apply in a fixed order: crit, crowd-control, far, near,
// execute, buff.
func ResolveHit(base float64, hc HitContext, mods research.Modifiers, rng *utils.PRNGService) float64 {
	dmg := base * mods.DamageMult
	if mods.CritChance > 0 && rng.Chance(mods.CritChance) {
		dmg *= 2
	}
	if mods.CCBonus > 0 && hc.Target.Status.Slow.Active() {
		dmg *= 1 + mods.CCBonus
	}
	if mods.FarBonus > 0 && hc.Range > 0 && hc.Distance >= mods.FarThreshold*hc.Range {
		dmg *= 1 + mods.FarBonus
	}
	if mods.NearBonus > 0 && hc.Range > 0 && hc.Distance <= mods.NearThreshold*hc.Range {
		dmg *= 1 + mods.NearBonus
	}
	if mods.ExecuteBonus > 0 && hc.Target.HealthFraction() < mods.ExecuteThreshold {
		dmg *= 1 + mods.ExecuteBonus
	}
	if hc.Buffed {
		dmg *= config.BuffMultiplier
	}
	return dmg
}

// controlScale is how strongly the control research amplifies slows and
// vulnerability, clamped to a floor and ceiling.
func controlScale(mods research.Modifiers) float64 {
	return mathutil.Clamp(1+mods.Control, 0.5, 1.6)
}

// ScaledSlow applies the control scale to a slow factor and duration.
func ScaledSlow(factor, duration float64, mods research.Modifiers) (float64, float64) {
	k := controlScale(mods)
	return mathutil.Clamp(1-(1-factor)*k, 0.2, 0.95), duration * k
}

// ScaledVulnerability applies the control scale to a vulnerability factor
// and duration.
func ScaledVulnerability(factor, duration float64, mods research.Modifiers) (float64, float64) {
	k := controlScale(mods)
	return mathutil.Clamp(1+(factor-1)*k, 1, 2.5), duration * k
}
