// internal/component/status_effect.go
package component

import "go-lane-defense/internal/config"

// TimedEffect is a value that stays in force while Remaining > 0.
type TimedEffect struct {
	Value     float64
	Remaining float64
}

// Active reports whether the effect is still in force.
func (e TimedEffect) Active() bool {
	return e.Remaining > 0
}

// StatusEffects holds the independent timed effects on a hostile unit.
// Refreshing an effect never weakens it: the stronger value and the longer
// remaining duration are kept.
type StatusEffects struct {
	Slow          TimedEffect // Value is a speed factor in (0, 1]
	Vulnerability TimedEffect // Value is a damage factor >= 1
	DoT           TimedEffect // Value is damage per second

	dotTimer float64
}

// ApplySlow refreshes the slow effect.
func (s *StatusEffects) ApplySlow(factor, duration float64) {
	if factor <= 0 || factor >= 1 || duration <= 0 {
		return
	}
	if !s.Slow.Active() {
		s.Slow = TimedEffect{Value: factor, Remaining: duration}
		return
	}
	s.Slow.Value = min(s.Slow.Value, factor)
	s.Slow.Remaining = max(s.Slow.Remaining, duration)
}

// ApplyVulnerability refreshes the vulnerability effect.
func (s *StatusEffects) ApplyVulnerability(factor, duration float64) {
	if factor <= 1 || duration <= 0 {
		return
	}
	if !s.Vulnerability.Active() {
		s.Vulnerability = TimedEffect{Value: factor, Remaining: duration}
		return
	}
	s.Vulnerability.Value = max(s.Vulnerability.Value, factor)
	s.Vulnerability.Remaining = max(s.Vulnerability.Remaining, duration)
}

// ApplyDoT refreshes the damage-over-time effect.
func (s *StatusEffects) ApplyDoT(dps, duration float64) {
	if dps <= 0 || duration <= 0 {
		return
	}
	if !s.DoT.Active() {
		s.DoT = TimedEffect{Value: dps, Remaining: duration}
		s.dotTimer = 0
		return
	}
	s.DoT.Value = max(s.DoT.Value, dps)
	s.DoT.Remaining = max(s.DoT.Remaining, duration)
}

// SlowFactor is the speed multiplier currently in force (1 when not slowed).
func (s *StatusEffects) SlowFactor() float64 {
	if s.Slow.Active() {
		return s.Slow.Value
	}
	return 1
}

// VulnerabilityFactor is the damage multiplier currently in force.
func (s *StatusEffects) VulnerabilityFactor() float64 {
	if s.Vulnerability.Active() {
		return s.Vulnerability.Value
	}
	return 1
}

// Advance runs every effect timer forward by dt and returns the
// damage-over-time that fell due. DoT pays out in fixed ticks.
func (s *StatusEffects) Advance(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	var dot float64
	if s.DoT.Active() {
		s.dotTimer += min(dt, s.DoT.Remaining)
		for s.dotTimer >= config.DotTickInterval-1e-9 {
			s.dotTimer -= config.DotTickInterval
			dot += s.DoT.Value * config.DotTickInterval
		}
	}
	s.Slow.Remaining = decay(s.Slow.Remaining, dt)
	s.Vulnerability.Remaining = decay(s.Vulnerability.Remaining, dt)
	s.DoT.Remaining = decay(s.DoT.Remaining, dt)
	if !s.DoT.Active() {
		s.dotTimer = 0
	}
	return dot
}

func decay(remaining, dt float64) float64 {
	remaining -= dt
	if remaining < 0 {
		return 0
	}
	return remaining
}
