// internal/config/config.go
package config

const (
	// Frame step clamp: the driver may pass any frame delta, the tick never
	// advances more than this before the speed multiplier is applied.
	MaxDeltaTime = 0.06

	WorldWidth  = 40
	WorldHeight = 24

	DefaultLaneCount = 3
	MinLaneCount     = 1
	MaxLaneCount     = 4

	// Lane generation
	GoalInset           = 5
	ExitSpacing         = 3
	MinSegmentLength    = 3
	MaxClaimFraction    = 0.30
	LaneAttemptBudget   = 60
	LayoutAttemptBudget = 25
	SplitJitter         = 0.35

	// Wave director
	CountdownFirst    = 30.0
	CountdownEarly    = 20.0
	CountdownRegular  = 12.0
	EarlyRewardPerSec = 2.0
	ClearBonusBase    = 50
	ClearBonusPerWave = 10
	ClearBonusLate    = 20
	LateWave          = 25
	BossInterval      = 10
	UltraFirstWave    = 15
	UltraInterval     = 20
	BossSpacing       = 2.5
	SpacingReduction  = 0.02
	MinSpacing        = 0.30

	// Emplacement economy
	SellRefund         = 0.70
	RepairCostFraction = 0.40
	RepairDuration     = 2.0
	ShieldHPFraction   = 0.50
	ShieldCostFraction = 0.30
	ShieldDuration     = 1.5
	BranchDuration     = 4.0
	BuffCost           = 40
	BuffDuration       = 8.0
	BuffMultiplier     = 1.5
	ConsumerPowerCost  = 1

	// Combat
	DotTickInterval        = 0.5
	ProjectileHitRadius    = 0.15
	SiegeShotSpeed         = 7.0
	ActiveConstructionRate = 0.5
)

// SpeedMultipliers are the playback speeds a driver may select.
var SpeedMultipliers = []float64{1, 2, 4}
