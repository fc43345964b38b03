// internal/system/wave.go
package system

import (
	"errors"
	"log"
	"math"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/lanes"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/types"
	"go-lane-defense/internal/utils"
	mathutil "go-lane-defense/pkg/utils"
)

// ErrWaveInProgress is returned when an early send is asked for while a
// wave is still running.
var ErrWaveInProgress = errors.New("wave already in progress")

// PendingSpawn is one queued unit. Delay is the wait after it spawns before
// the next entry is released.
type PendingSpawn struct {
	Kind  defs.HostileKind
	Elite int
	Delay float64
}

// WaveStats counts what happened during the current wave.
type WaveStats struct {
	Spawned int
	Killed  int
	Leaked  int
}

// WaveDirector composes waves, releases their units and pays out clears.
type WaveDirector struct {
	ecs      *entity.ECS
	catalog  *defs.Catalog
	lanes    []*lanes.Lane
	rng      *utils.PRNGService
	economy  *component.Economy
	research *research.State
	logger   *log.Logger

	Wave       int
	Queue      []PendingSpawn
	Countdown  float64
	Active     bool
	Stats      WaveStats
	spawnTimer float64
}

func NewWaveDirector(ecs *entity.ECS, catalog *defs.Catalog, laneSet []*lanes.Lane, rng *utils.PRNGService,
	economy *component.Economy, rs *research.State, logger *log.Logger) *WaveDirector {
	return &WaveDirector{
		ecs:       ecs,
		catalog:   catalog,
		lanes:     laneSet,
		rng:       rng,
		economy:   economy,
		research:  rs,
		logger:    logger,
		Countdown: CountdownBefore(1),
	}
}

// OnEvent keeps the per-wave counters.
func (d *WaveDirector) OnEvent(e event.Event) {
	switch e.Type {
	case event.UnitDied:
		d.Stats.Killed++
	case event.UnitLeaked:
		d.Stats.Leaked++
	}
}

// HealthScale is the wave health curve.
func HealthScale(wave int) float64 {
	w := float64(max(wave, 1) - 1)
	return 1 + 0.11*w + 0.0025*w*w
}

// CountScale grows linearly to wave 20 and more gently after.
func CountScale(wave int) float64 {
	w := max(wave, 1)
	if w <= 20 {
		return 1 + 0.15*float64(w-1)
	}
	return 1 + 0.15*19 + 0.06*float64(w-20)
}

// SpawnCount is the number of units of one archetype in a wave.
func SpawnCount(base, wave int) int {
	return max(1, int(math.Round(float64(base)*CountScale(wave))))
}

// SpawnSpacing is the delay between units of one archetype.
func SpawnSpacing(base float64, wave int) float64 {
	return math.Max(base-config.SpacingReduction*float64(max(wave, 1)-1), config.MinSpacing)
}

// RewardScale multiplies kill rewards.
func RewardScale(wave int) float64 {
	return 1 + 0.05*float64(max(wave, 1)-1)
}

// SubsetSize is how many archetypes a wave draws from a pool of poolSize.
func SubsetSize(poolSize, wave int) int {
	return min(poolSize, 1+(max(wave, 1)-1)/3)
}

// EliteChances returns the tier-1 and tier-2 promotion probabilities.
func EliteChances(wave int) (p1, p2 float64) {
	if wave >= 5 {
		p1 = math.Min(0.35, 0.02*float64(wave-4))
	}
	if wave >= 15 {
		p2 = math.Min(0.15, 0.01*float64(wave-14))
	}
	return p1, p2
}

// BossCount is the number of bosses appended to a wave.
func BossCount(wave int) int {
	if wave <= 0 || wave%config.BossInterval != 0 {
		return 0
	}
	return wave / config.BossInterval
}

// IsUltraWave reports whether the ultra boss joins this wave. The schedule
// is offset from the boss interval so the two never coincide.
func IsUltraWave(wave int) bool {
	return wave >= config.UltraFirstWave && (wave-config.UltraFirstWave)%config.UltraInterval == 0
}

// CountdownBefore is the pre-wave countdown ahead of wave.
func CountdownBefore(wave int) float64 {
	switch {
	case wave <= 1:
		return config.CountdownFirst
	case wave <= 3:
		return config.CountdownEarly
	}
	return config.CountdownRegular
}

// ClearBonus is the money paid when wave is cleared.
func ClearBonus(wave int) int {
	bonus := config.ClearBonusBase + config.ClearBonusPerWave*wave
	if wave > config.LateWave {
		bonus += config.ClearBonusLate * (wave - config.LateWave)
	}
	return bonus
}

// ClearResearchPoints is the research paid when wave is cleared.
func ClearResearchPoints(wave int) int {
	if wave > 0 && wave%5 == 0 {
		return 2
	}
	return 1
}

// Compose builds the spawn queue for wave.
func (d *WaveDirector) Compose(wave int) []PendingSpawn {
	var pool []defs.WaveUnlock
	var weights []float64
	for i, u := range d.catalog.WaveUnlocks() {
		if u.Wave <= wave {
			pool = append(pool, u)
			weights = append(weights, float64(i+1))
		}
	}

	var queue []PendingSpawn
	for n := SubsetSize(len(pool), wave); n > 0; n-- {
		i := d.rng.ChooseWeighted(weights)
		if i < 0 {
			break
		}
		weights[i] = 0
		u := pool[i]
		spacing := SpawnSpacing(u.BaseSpacing, wave)
		for c := SpawnCount(u.BaseCount, wave); c > 0; c-- {
			queue = append(queue, PendingSpawn{Kind: u.Kind, Delay: spacing})
		}
	}
	d.rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })

	for b := BossCount(wave); b > 0; b-- {
		queue = append(queue, PendingSpawn{Kind: defs.Boss, Delay: config.BossSpacing})
	}
	if IsUltraWave(wave) {
		queue = append(queue, PendingSpawn{Kind: defs.UltraBoss, Delay: config.BossSpacing})
	}

	p1, p2 := EliteChances(wave)
	for i := range queue {
		switch {
		case p2 > 0 && d.rng.Chance(p2):
			queue[i].Elite = 2
		case p1 > 0 && d.rng.Chance(p1):
			queue[i].Elite = 1
		}
	}
	return queue
}

// StartNextWave advances the counter and queues the new wave.
func (d *WaveDirector) StartNextWave(em *event.Emitter, early bool, payout int) {
	d.Wave++
	d.Queue = d.Compose(d.Wave)
	d.Active = true
	d.Countdown = 0
	d.spawnTimer = 0
	d.Stats = WaveStats{}
	em.WaveStarted(event.WaveInfo{Wave: d.Wave, Spawns: len(d.Queue), Early: early, Payout: payout})
	if d.logger != nil {
		d.logger.Printf("wave %d started: %d spawns", d.Wave, len(d.Queue))
	}
}

// SendEarly starts the next wave during its countdown and pays a reward
// proportional to the time skipped.
func (d *WaveDirector) SendEarly(em *event.Emitter) (int, error) {
	if d.Active {
		return 0, ErrWaveInProgress
	}
	reward := mathutil.CeilInt(d.Countdown * config.EarlyRewardPerSec)
	d.economy.Earn(reward)
	if reward > 0 {
		em.Economy(event.EconomyInfo{Money: d.economy.Money, Lives: d.economy.Lives, Delta: reward})
	}
	d.StartNextWave(em, true, reward)
	return reward, nil
}

// Update runs the countdown or releases queued units.
func (d *WaveDirector) Update(deltaTime float64, em *event.Emitter) {
	if !d.Active {
		d.Countdown -= deltaTime
		if d.Countdown > 0 {
			return
		}
		// The first unit leaves on the tick the wave starts.
		d.StartNextWave(em, false, 0)
	} else {
		d.spawnTimer -= deltaTime
	}
	for d.spawnTimer <= 0 && len(d.Queue) > 0 {
		next := d.Queue[0]
		d.Queue = d.Queue[1:]
		lane := d.rng.Intn(len(d.lanes))
		d.SpawnAt(next.Kind, next.Elite, lane, 0, 0, em)
		d.spawnTimer += next.Delay
	}
}

// SpawnAt creates a unit of kind on lane at the given distance along it.
func (d *WaveDirector) SpawnAt(kind defs.HostileKind, elite, lane int, distance float64, parent types.EntityID, em *event.Emitter) *component.HostileUnit {
	def := d.catalog.Hostile(kind)
	if def == nil || lane < 0 || lane >= len(d.lanes) {
		log.Printf("spawn skipped: kind %v lane %d", kind, lane)
		return nil
	}
	l := d.lanes[lane]
	u := component.NewHostileUnit(d.ecs.NewEntity(), def, elite, HealthScale(d.Wave), RewardScale(d.Wave), lane)
	u.Segment, u.Offset = l.Locate(distance)
	u.Traveled = l.DistanceAt(u.Segment, u.Offset)
	u.Position = l.PointAt(u.Segment, u.Offset)
	d.ecs.AddUnit(u)
	d.Stats.Spawned++
	em.Spawned(event.SpawnInfo{Unit: u.ID, Kind: kind, Elite: u.Elite, Lane: lane, Parent: parent})
	return u
}

// CheckCleared closes the wave once its queue is empty and nothing is left
// alive, paying the clear bonus and research points.
func (d *WaveDirector) CheckCleared(em *event.Emitter) bool {
	if !d.Active || len(d.Queue) > 0 || d.ecs.AliveUnits() > 0 {
		return false
	}
	d.Active = false
	d.Countdown = CountdownBefore(d.Wave + 1)

	bonus := ClearBonus(d.Wave)
	points := ClearResearchPoints(d.Wave)
	d.economy.Earn(bonus)
	d.research.Points += points
	em.Economy(event.EconomyInfo{Money: d.economy.Money, Lives: d.economy.Lives, Delta: bonus})
	em.WaveCleared(event.WaveClearInfo{
		Wave:           d.Wave,
		Bonus:          bonus,
		ResearchPoints: points,
		Spawned:        d.Stats.Spawned,
		Killed:         d.Stats.Killed,
		Leaked:         d.Stats.Leaked,
		Money:          d.economy.Money,
		Lives:          d.economy.Lives,
	})
	if d.logger != nil {
		d.logger.Printf("wave %d cleared: bonus %d", d.Wave, bonus)
	}
	return true
}
