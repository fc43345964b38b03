// internal/event/types.go
package event

import (
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/types"
	"go-lane-defense/pkg/geom"
)

const (
	UnitSpawned           EventType = "UnitSpawned"
	UnitDamaged           EventType = "UnitDamaged"
	UnitHealed            EventType = "UnitHealed"
	UnitDied              EventType = "UnitDied"
	UnitLeaked            EventType = "UnitLeaked"
	EmplacementFired      EventType = "EmplacementFired"
	EmplacementDamaged    EventType = "EmplacementDamaged"
	EmplacementDestroyed  EventType = "EmplacementDestroyed"
	ConstructionCompleted EventType = "ConstructionCompleted"
	WaveStarted           EventType = "WaveStarted"
	WaveCleared           EventType = "WaveCleared"
	EconomyChanged        EventType = "EconomyChanged"
	ResearchChanged       EventType = "ResearchChanged"
	GameOver              EventType = "GameOver"
)

// AllTypes lists every event type in a stable order.
var AllTypes = []EventType{
	UnitSpawned, UnitDamaged, UnitHealed, UnitDied, UnitLeaked,
	EmplacementFired, EmplacementDamaged, EmplacementDestroyed, ConstructionCompleted,
	WaveStarted, WaveCleared, EconomyChanged, ResearchChanged, GameOver,
}

// DeathCause says what finished a unit off.
type DeathCause string

const (
	CauseWeapon DeathCause = "weapon"
	CauseDoT    DeathCause = "dot"
)

type SpawnInfo struct {
	Unit  types.EntityID
	Kind  defs.HostileKind
	Elite int
	Lane  int
	// Parent is set for split offspring.
	Parent types.EntityID
}

type DamageInfo struct {
	Unit   types.EntityID
	Source types.EntityID // zero for damage-over-time
	Amount float64
}

type HealInfo struct {
	Unit   types.EntityID
	Healer types.EntityID
	Amount float64
}

type DeathInfo struct {
	Unit     types.EntityID
	Kind     defs.HostileKind
	Elite    int
	Cause    DeathCause
	Killer   types.EntityID
	Reward   int
	Position geom.Vec2
}

type LeakInfo struct {
	Unit      types.EntityID
	Kind      defs.HostileKind
	LivesCost int
}

type FireInfo struct {
	Emplacement types.EntityID
	Kind        defs.EmplacementKind
	Targets     int
}

type StructureDamageInfo struct {
	Emplacement types.EntityID
	Attacker    types.EntityID
	Absorbed    float64
	Hull        float64
}

type StructureLossInfo struct {
	Emplacement types.EntityID
	Kind        defs.EmplacementKind
}

type ConstructionInfo struct {
	Emplacement types.EntityID
	Kind        defs.EmplacementKind
	State       string
}

type WaveInfo struct {
	Wave   int
	Spawns int
	Early  bool
	Payout int
}

type WaveClearInfo struct {
	Wave           int
	Bonus          int
	ResearchPoints int
	Spawned        int
	Killed         int
	Leaked         int
	Money          int
	Lives          int
}

type EconomyInfo struct {
	Money int
	Lives int
	Delta int
}

type ResearchInfo struct {
	Node   string
	Points int
}

type GameOverInfo struct {
	Wave int
}
