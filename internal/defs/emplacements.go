// internal/defs/emplacements.go
package defs

import "go-lane-defense/internal/config"

// Weapon is the capability an emplacement tier fires with. Each variant
// carries only the parameters its delivery mechanism needs.
type Weapon interface {
	weapon()
}

// DirectFire launches a homing projectile; a positive SplashRadius damages
// other units around the impact for SplashFactor of the hit.
type DirectFire struct {
	ProjectileSpeed float64
	SplashRadius    float64
	SplashFactor    float64
}

// PierceBeam resolves instantly along a ray, hitting up to PierceCap units
// inside a corridor of the given Width, nearest first.
type PierceBeam struct {
	PierceCap int
	Width     float64
}

// ChainArc hits the primary target and hops ChainCap-1 more times to the
// nearest unhit unit within ChainRange, scaling damage by Falloff per hop.
type ChainArc struct {
	ChainCap    int
	ChainRange  float64
	Falloff     float64
	DotDPS      float64
	DotDuration float64
}

// SlowPulse damages every unit in range and applies a slow and, when
// VulnFactor > 1, a vulnerability effect.
type SlowPulse struct {
	SlowFactor   float64
	SlowDuration float64
	VulnFactor   float64
	VulnDuration float64
}

// RadialBurst damages every unit in range.
type RadialBurst struct{}

// PowerSource supplies Capacity consumers within Radius.
type PowerSource struct {
	Capacity int
	Radius   float64
}

func (DirectFire) weapon()  {}
func (PierceBeam) weapon()  {}
func (ChainArc) weapon()    {}
func (SlowPulse) weapon()   {}
func (RadialBurst) weapon() {}
func (PowerSource) weapon() {}

// TierStats describes one progression step. Cost is what the step costs to
// reach: placement for level 0, the upgrade price for levels 1-2 and the
// branch price for branches.
type TierStats struct {
	Name      string
	Cost      int
	BuildTime float64
	Damage    float64
	FireRate  float64 // shots per second
	Range     float64
	HP        float64
	Weapon    Weapon
}

// EmplacementDefinition holds the static data for an emplacement archetype.
type EmplacementDefinition struct {
	Kind     EmplacementKind
	Levels   [MaxLevel + 1]TierStats
	Branches [2]TierStats

	// Area archetypes receive the area range research bonus.
	Area bool
	// FixedDirection archetypes fire along an aim angle and take the first
	// candidate in range instead of the most advanced one.
	FixedDirection bool
	// Prioritizes names a hostile archetype picked ahead of the default rule.
	Prioritizes *HostileKind
}

// Branch returns the tier stats for key.
func (d *EmplacementDefinition) Branch(key BranchKey) TierStats {
	if key == BranchB {
		return d.Branches[1]
	}
	return d.Branches[0]
}

// IsSource reports whether the archetype supplies power instead of using it.
func (d *EmplacementDefinition) IsSource() bool {
	_, ok := d.Levels[0].Weapon.(PowerSource)
	return ok
}

func defaultEmplacements() map[EmplacementKind]EmplacementDefinition {
	mender := Mender
	return map[EmplacementKind]EmplacementDefinition{
		Blaster: {
			Kind: Blaster,
			Levels: [3]TierStats{
				{Name: "Blaster", Cost: 60, BuildTime: 2.0, Damage: 12, FireRate: 2.0, Range: 3.5, HP: 120, Weapon: DirectFire{ProjectileSpeed: 12}},
				{Name: "Blaster II", Cost: 70, BuildTime: 2.5, Damage: 18, FireRate: 2.4, Range: 3.8, HP: 160, Weapon: DirectFire{ProjectileSpeed: 13}},
				{Name: "Blaster III", Cost: 110, BuildTime: 3.0, Damage: 26, FireRate: 2.8, Range: 4.2, HP: 210, Weapon: DirectFire{ProjectileSpeed: 14}},
			},
			Branches: [2]TierStats{
				{Name: "Gatling", Cost: 180, BuildTime: config.BranchDuration, Damage: 22, FireRate: 5.0, Range: 4.2, HP: 240, Weapon: DirectFire{ProjectileSpeed: 16}},
				{Name: "Cannon", Cost: 200, BuildTime: config.BranchDuration, Damage: 60, FireRate: 1.0, Range: 4.5, HP: 260, Weapon: DirectFire{ProjectileSpeed: 9, SplashRadius: 1.5, SplashFactor: 0.5}},
			},
		},
		Lancer: {
			Kind:           Lancer,
			FixedDirection: true,
			Levels: [3]TierStats{
				{Name: "Lancer", Cost: 90, BuildTime: 2.5, Damage: 30, FireRate: 0.8, Range: 6.0, HP: 110, Weapon: PierceBeam{PierceCap: 3, Width: 0.8}},
				{Name: "Lancer II", Cost: 90, BuildTime: 3.0, Damage: 45, FireRate: 0.9, Range: 6.5, HP: 150, Weapon: PierceBeam{PierceCap: 4, Width: 0.8}},
				{Name: "Lancer III", Cost: 140, BuildTime: 3.5, Damage: 65, FireRate: 1.0, Range: 7.0, HP: 190, Weapon: PierceBeam{PierceCap: 5, Width: 0.8}},
			},
			Branches: [2]TierStats{
				{Name: "Railgun", Cost: 240, BuildTime: config.BranchDuration, Damage: 110, FireRate: 0.8, Range: 9.0, HP: 220, Weapon: PierceBeam{PierceCap: 10, Width: 0.6}},
				{Name: "Prism", Cost: 220, BuildTime: config.BranchDuration, Damage: 70, FireRate: 1.1, Range: 7.0, HP: 220, Weapon: PierceBeam{PierceCap: 6, Width: 1.6}},
			},
		},
		Arc: {
			Kind:        Arc,
			Prioritizes: &mender,
			Levels: [3]TierStats{
				{Name: "Arc", Cost: 80, BuildTime: 2.5, Damage: 16, FireRate: 1.0, Range: 3.5, HP: 110, Weapon: ChainArc{ChainCap: 3, ChainRange: 2.5, Falloff: 0.8}},
				{Name: "Arc II", Cost: 85, BuildTime: 3.0, Damage: 24, FireRate: 1.1, Range: 3.8, HP: 150, Weapon: ChainArc{ChainCap: 4, ChainRange: 2.5, Falloff: 0.8}},
				{Name: "Arc III", Cost: 130, BuildTime: 3.5, Damage: 34, FireRate: 1.2, Range: 4.0, HP: 190, Weapon: ChainArc{ChainCap: 5, ChainRange: 2.7, Falloff: 0.8}},
			},
			Branches: [2]TierStats{
				{Name: "Storm", Cost: 220, BuildTime: config.BranchDuration, Damage: 40, FireRate: 1.3, Range: 4.2, HP: 220, Weapon: ChainArc{ChainCap: 9, ChainRange: 3.0, Falloff: 0.85}},
				{Name: "Ignite", Cost: 210, BuildTime: config.BranchDuration, Damage: 36, FireRate: 1.2, Range: 4.0, HP: 220, Weapon: ChainArc{ChainCap: 4, ChainRange: 2.7, Falloff: 0.8, DotDPS: 12, DotDuration: 3}},
			},
		},
		Frost: {
			Kind: Frost,
			Area: true,
			Levels: [3]TierStats{
				{Name: "Frost", Cost: 70, BuildTime: 2.0, Damage: 4, FireRate: 0.7, Range: 2.5, HP: 120, Weapon: SlowPulse{SlowFactor: 0.6, SlowDuration: 1.5, VulnFactor: 1, VulnDuration: 0}},
				{Name: "Frost II", Cost: 75, BuildTime: 2.5, Damage: 6, FireRate: 0.8, Range: 2.8, HP: 160, Weapon: SlowPulse{SlowFactor: 0.5, SlowDuration: 1.8, VulnFactor: 1, VulnDuration: 0}},
				{Name: "Frost III", Cost: 115, BuildTime: 3.0, Damage: 9, FireRate: 0.9, Range: 3.1, HP: 200, Weapon: SlowPulse{SlowFactor: 0.45, SlowDuration: 2.0, VulnFactor: 1.15, VulnDuration: 2.0}},
			},
			Branches: [2]TierStats{
				{Name: "Glacier", Cost: 200, BuildTime: config.BranchDuration, Damage: 10, FireRate: 1.0, Range: 3.4, HP: 230, Weapon: SlowPulse{SlowFactor: 0.3, SlowDuration: 2.5, VulnFactor: 1.15, VulnDuration: 2.0}},
				{Name: "Brittle", Cost: 210, BuildTime: config.BranchDuration, Damage: 12, FireRate: 0.9, Range: 3.1, HP: 230, Weapon: SlowPulse{SlowFactor: 0.5, SlowDuration: 2.0, VulnFactor: 1.4, VulnDuration: 3.0}},
			},
		},
		Quake: {
			Kind: Quake,
			Area: true,
			Levels: [3]TierStats{
				{Name: "Quake", Cost: 110, BuildTime: 3.0, Damage: 40, FireRate: 0.25, Range: 4.5, HP: 160, Weapon: RadialBurst{}},
				{Name: "Quake II", Cost: 110, BuildTime: 3.5, Damage: 60, FireRate: 0.28, Range: 5.0, HP: 210, Weapon: RadialBurst{}},
				{Name: "Quake III", Cost: 160, BuildTime: 4.0, Damage: 85, FireRate: 0.32, Range: 5.5, HP: 260, Weapon: RadialBurst{}},
			},
			Branches: [2]TierStats{
				{Name: "Tremor", Cost: 240, BuildTime: config.BranchDuration, Damage: 70, FireRate: 0.5, Range: 5.5, HP: 300, Weapon: RadialBurst{}},
				{Name: "Cataclysm", Cost: 280, BuildTime: config.BranchDuration, Damage: 200, FireRate: 0.2, Range: 6.5, HP: 300, Weapon: RadialBurst{}},
			},
		},
		Generator: {
			Kind: Generator,
			Levels: [3]TierStats{
				{Name: "Generator", Cost: 50, BuildTime: 2.0, HP: 150, Weapon: PowerSource{Capacity: 3, Radius: 4.0}},
				{Name: "Generator II", Cost: 60, BuildTime: 2.5, HP: 200, Weapon: PowerSource{Capacity: 5, Radius: 4.5}},
				{Name: "Generator III", Cost: 90, BuildTime: 3.0, HP: 260, Weapon: PowerSource{Capacity: 7, Radius: 5.0}},
			},
			Branches: [2]TierStats{
				{Name: "Dynamo", Cost: 160, BuildTime: config.BranchDuration, HP: 300, Weapon: PowerSource{Capacity: 12, Radius: 5.0}},
				{Name: "Relay", Cost: 150, BuildTime: config.BranchDuration, HP: 260, Weapon: PowerSource{Capacity: 7, Radius: 8.0}},
			},
		},
	}
}
