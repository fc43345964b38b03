// internal/defs/hostiles.go
package defs

// HostileDefinition holds the static data for one hostile archetype. The
// behaviour blocks are nil for archetypes that do not have them.
type HostileDefinition struct {
	Kind      HostileKind
	Health    float64
	Speed     float64 // cells per second
	Armor     float64
	Reward    int
	LivesCost int

	Phase *PhaseCycle
	Burst *BurstCycle
	Heal  *HealAura
	Siege *SiegeAttack
	Split *SplitOnDeath
}

// PhaseCycle alternates an invulnerability window (On) with a normal window
// (Off). Damage taken inside the window is multiplied by DamageFactor.
type PhaseCycle struct {
	On, Off      float64
	DamageFactor float64
}

// BurstCycle replaces the unit's speed with Speed for Duration seconds every
// Every seconds.
type BurstCycle struct {
	Every, Duration float64
	Speed           float64
}

// HealAura heals every other living unit within Radius by Amount each Interval.
type HealAura struct {
	Interval, Radius, Amount float64
}

// SiegeAttack fires at an emplacement within Range every Interval seconds.
type SiegeAttack struct {
	Interval   float64
	Range      float64
	Damage     float64
	MissChance float64
}

// SplitOnDeath spawns Count units of kind Into where the unit died.
type SplitOnDeath struct {
	Count int
	Into  HostileKind
}

// EliteScale multiplies a unit's stats once at creation.
type EliteScale struct {
	Health, Speed, Armor, Reward, Attack float64
}

// EliteScales is indexed by elite tier (0 is the identity).
var EliteScales = [3]EliteScale{
	{Health: 1, Speed: 1, Armor: 1, Reward: 1, Attack: 1},
	{Health: 1.75, Speed: 1.10, Armor: 1.5, Reward: 2.0, Attack: 1.4},
	{Health: 3.0, Speed: 1.20, Armor: 2.0, Reward: 3.5, Attack: 1.8},
}

func defaultHostiles() map[HostileKind]HostileDefinition {
	return map[HostileKind]HostileDefinition{
		Grunt:  {Kind: Grunt, Health: 60, Speed: 1.6, Armor: 0, Reward: 5, LivesCost: 1},
		Runner: {Kind: Runner, Health: 40, Speed: 2.8, Armor: 0, Reward: 6, LivesCost: 1},
		Brute:  {Kind: Brute, Health: 180, Speed: 1.1, Armor: 4, Reward: 12, LivesCost: 1},
		Dasher: {
			Kind: Dasher, Health: 70, Speed: 1.5, Armor: 1, Reward: 9, LivesCost: 1,
			Burst: &BurstCycle{Every: 3.5, Duration: 0.8, Speed: 4.0},
		},
		Phase: {
			Kind: Phase, Health: 90, Speed: 1.5, Armor: 1, Reward: 11, LivesCost: 1,
			Phase: &PhaseCycle{On: 1.2, Off: 2.8, DamageFactor: 0.2},
		},
		Splitter: {
			Kind: Splitter, Health: 120, Speed: 1.3, Armor: 2, Reward: 10, LivesCost: 1,
			Split: &SplitOnDeath{Count: 3, Into: Spawnling},
		},
		Spawnling: {Kind: Spawnling, Health: 25, Speed: 2.2, Armor: 0, Reward: 2, LivesCost: 1},
		Mender: {
			Kind: Mender, Health: 100, Speed: 1.3, Armor: 1, Reward: 14, LivesCost: 1,
			Heal: &HealAura{Interval: 2.5, Radius: 2.5, Amount: 15},
		},
		Siege: {
			Kind: Siege, Health: 150, Speed: 1.0, Armor: 3, Reward: 16, LivesCost: 2,
			Siege: &SiegeAttack{Interval: 3.0, Range: 4.5, Damage: 18, MissChance: 0.25},
		},
		Boss:      {Kind: Boss, Health: 1500, Speed: 0.9, Armor: 6, Reward: 120, LivesCost: 5},
		UltraBoss: {Kind: UltraBoss, Health: 6000, Speed: 0.75, Armor: 10, Reward: 400, LivesCost: 10},
	}
}
