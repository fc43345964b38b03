// Package session owns one simulated game: the world, its systems and the
// player action API. A driver calls Tick once per frame.
package session

import (
	"errors"
	"fmt"
	"log"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/lanes"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/system"
	"go-lane-defense/internal/types"
	"go-lane-defense/internal/utils"
	"go-lane-defense/pkg/gridmap"
)

// Options configures a new session. The zero value is a valid default game
// with seed 0.
type Options struct {
	Seed      int64
	Tuning    defs.Tuning
	LaneCount int
	Logger    *log.Logger
}

// Session holds the game state and the systems that advance it.
type Session struct {
	Grid     *gridmap.Grid
	ECS      *entity.ECS
	Catalog  *defs.Catalog
	Economy  component.Economy
	Research *research.State
	Rng      *utils.PRNGService

	EventDispatcher *event.Dispatcher

	Director           *system.WaveDirector
	StatusEffectSystem *system.StatusEffectSystem
	BehaviorSystem     *system.BehaviorSystem
	MovementSystem     *system.MovementSystem
	LeakSystem         *system.LeakSystem
	ProjectileSystem   *system.ProjectileSystem
	ConstructionSystem *system.ConstructionSystem
	Power              *system.PowerAllocator
	CombatSystem       *system.CombatSystem
	DeathSystem        *system.DeathSystem

	lanes        []*lanes.Lane
	laneFallback bool
	logger       *log.Logger

	seed     int64
	tick     uint64
	speed    float64
	em       *event.Emitter
	selected types.EntityID
	over     bool
}

// New builds a session: catalog from the tuning, lanes from the seed.
func New(opts Options) (*Session, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	catalog, err := defs.NewCatalog(opts.Tuning)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	laneCount := opts.LaneCount
	if laneCount == 0 {
		laneCount = config.DefaultLaneCount
	}

	rng := utils.NewPRNGService(opts.Seed)
	grid := gridmap.NewGrid(config.WorldWidth, config.WorldHeight)
	laneSet, err := lanes.NewGenerator(grid, rng).Generate(laneCount)
	fallback := false
	if err != nil {
		var gf *lanes.GenerationFailure
		if !errors.As(err, &gf) {
			return nil, fmt.Errorf("generate lanes: %w", err)
		}
		fallback = true
		logger.Printf("lane generation failed, using fallback layout: %v", gf)
	}

	ecs := entity.NewECS()
	s := &Session{
		Grid:            grid,
		ECS:             ecs,
		Catalog:         catalog,
		Economy:         component.Economy{Money: catalog.StartMoney, Lives: catalog.StartLives},
		Research:        research.NewState(),
		Rng:             rng,
		EventDispatcher: event.NewDispatcher(),
		lanes:           laneSet,
		laneFallback:    fallback,
		logger:          logger,
		seed:            opts.Seed,
		speed:           config.SpeedMultipliers[0],
	}
	s.Director = system.NewWaveDirector(ecs, catalog, laneSet, rng, &s.Economy, s.Research, logger)
	s.StatusEffectSystem = system.NewStatusEffectSystem(ecs)
	s.BehaviorSystem = system.NewBehaviorSystem(ecs, rng)
	s.MovementSystem = system.NewMovementSystem(ecs, laneSet)
	s.LeakSystem = system.NewLeakSystem(ecs, &s.Economy)
	s.ProjectileSystem = system.NewProjectileSystem(ecs)
	s.Power = system.NewPowerAllocator(ecs)
	s.ConstructionSystem = system.NewConstructionSystem(ecs, s.Power)
	s.CombatSystem = system.NewCombatSystem(ecs, rng)
	s.DeathSystem = system.NewDeathSystem(ecs, laneSet, rng, &s.Economy, s.Director)

	s.EventDispatcher.Subscribe(event.UnitDied, s.Director)
	s.EventDispatcher.Subscribe(event.UnitLeaked, s.Director)
	s.em = event.NewEmitter(1, s.EventDispatcher)

	logger.Printf("session ready: seed %d, %d lanes", opts.Seed, len(laneSet))
	return s, nil
}

// Seed returns the seed the session was created with.
func (s *Session) Seed() int64 {
	return s.seed
}

// TickCount is the number of ticks already run.
func (s *Session) TickCount() uint64 {
	return s.tick
}

// Lanes returns the lane set. Lanes are immutable.
func (s *Session) Lanes() []*lanes.Lane {
	return s.lanes
}

// LaneFallback reports whether lane generation gave up and the fallback
// layout is in use.
func (s *Session) LaneFallback() bool {
	return s.laneFallback
}

// Modifiers derives the research modifiers in force.
func (s *Session) Modifiers() research.Modifiers {
	return research.Derive(s.Research)
}

// Wave returns the director's current wave number.
func (s *Session) Wave() int {
	return s.Director.Wave
}

// GameOver reports whether the player ran out of lives.
func (s *Session) GameOver() bool {
	return s.over
}

// Selected returns the selected emplacement, or 0.
func (s *Session) Selected() types.EntityID {
	if _, ok := s.ECS.Emplacement(s.selected); !ok {
		return 0
	}
	return s.selected
}

// Speed is the current playback multiplier.
func (s *Session) Speed() float64 {
	return s.speed
}

// SetSpeed selects one of config.SpeedMultipliers.
func (s *Session) SetSpeed(multiplier float64) error {
	for _, m := range config.SpeedMultipliers {
		if m == multiplier {
			s.speed = m
			return nil
		}
	}
	return fmt.Errorf("unsupported speed multiplier %v", multiplier)
}

// CycleSpeed steps to the next playback multiplier, wrapping around.
func (s *Session) CycleSpeed() float64 {
	for i, m := range config.SpeedMultipliers {
		if m == s.speed {
			s.speed = config.SpeedMultipliers[(i+1)%len(config.SpeedMultipliers)]
			return s.speed
		}
	}
	s.speed = config.SpeedMultipliers[0]
	return s.speed
}
