package session

import (
	"errors"
	"io"
	"log"
	"testing"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/event"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
)

func newSession(t *testing.T, seed int64) *Session {
	t.Helper()
	s, err := New(Options{Seed: seed, Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// buildableRow finds n horizontally adjacent buildable cells.
func buildableRow(t *testing.T, s *Session, n int) []gridmap.Cell {
	t.Helper()
	for y := 1; y < s.Grid.Height-1; y++ {
		for x := 1; x+n < s.Grid.Width-1; x++ {
			var row []gridmap.Cell
			for i := 0; i < n; i++ {
				c := gridmap.Cell{X: x + i, Y: y}
				if !s.Grid.Buildable(c) {
					break
				}
				row = append(row, c)
			}
			if len(row) == n {
				return row
			}
		}
	}
	t.Fatalf("no row of %d buildable cells", n)
	return nil
}

func place(t *testing.T, s *Session, kind defs.EmplacementKind, cell gridmap.Cell) *component.Emplacement {
	t.Helper()
	id, err := s.PlaceEmplacement(kind, cell)
	if err != nil {
		t.Fatalf("place %s at %v: %v", kind, cell, err)
	}
	e, _ := s.ECS.Emplacement(id)
	return e
}

// finish completes the running job without advancing the world.
func finish(e *component.Emplacement) {
	if e.Construction != nil {
		e.AdvanceJob(e.Construction.Duration, 0)
	}
}

func dummy(s *Session, pos geom.Vec2, hp float64) *component.HostileUnit {
	u := &component.HostileUnit{ID: s.ECS.NewEntity(), Kind: defs.Grunt, Health: hp, MaxHealth: hp, Lane: -1, Position: pos}
	s.ECS.AddUnit(u)
	return u
}

func TestNewDefaults(t *testing.T) {
	s := newSession(t, 1)
	if len(s.Lanes()) != 3 || s.Economy.Money != 250 || s.Economy.Lives != 20 {
		t.Fatalf("lanes %d money %d lives %d", len(s.Lanes()), s.Economy.Money, s.Economy.Lives)
	}
	if s.Speed() != 1 || s.Wave() != 0 || s.GameOver() {
		t.Fatalf("unexpected initial state")
	}
	if _, err := New(Options{LaneCount: 7, Logger: log.New(io.Discard, "", 0)}); err == nil {
		t.Fatalf("lane count 7 accepted")
	}
}

func TestDirectFireKillsOnFirstHitReachingHealth(t *testing.T) {
	s := newSession(t, 2)
	row := buildableRow(t, s, 2)
	gen := place(t, s, defs.Generator, row[0])
	gun := place(t, s, defs.Blaster, row[1])
	finish(gen)
	finish(gun)
	s.Power.MarkDirty()

	target := dummy(s, gun.Position.Add(geom.V(1, 0)), 100)
	hits, deaths := 0, 0
	healthBefore := 0.0
	for i := 0; i < 400 && deaths == 0; i++ {
		before := target.Health
		events, _ := s.Tick(0.05, nil)
		for _, d := range events.Damaged {
			if d.Unit == target.ID {
				hits++
				healthBefore = before
			}
		}
		for _, d := range events.Died {
			if d.Unit == target.ID {
				deaths++
				if d.Killer != gun.ID || d.Cause != event.CauseWeapon {
					t.Fatalf("death %+v", d)
				}
			}
		}
	}
	// 12 damage per shot: 8 hits leave 4 HP, the 9th is lethal.
	if deaths != 1 || hits != 9 || healthBefore != 4 {
		t.Fatalf("deaths %d hits %d health before last hit %v", deaths, hits, healthBefore)
	}
}

func TestUnpoweredConsumerNeverFires(t *testing.T) {
	s := newSession(t, 3)
	row := buildableRow(t, s, 1)
	gun := place(t, s, defs.Blaster, row[0])
	finish(gun)
	dummy(s, gun.Position.Add(geom.V(1, 0)), 100)

	for i := 0; i < 10; i++ {
		events, _ := s.Tick(0.05, nil)
		if len(events.Fired) != 0 {
			t.Fatalf("tick %d: unpowered emplacement fired", i)
		}
	}
	if gun.Power.Powered {
		t.Fatalf("consumer with no source in reach marked powered")
	}
}

func TestPlacementRejections(t *testing.T) {
	s := newSession(t, 4)
	laneCell := s.Lanes()[0].Cells()[4]
	if _, err := s.PlaceEmplacement(defs.Blaster, laneCell); ReasonOf(err) != ReasonInvalidPlacement {
		t.Fatalf("placing on a lane: %v", err)
	}
	if _, err := s.PlaceEmplacement(defs.Blaster, gridmap.Cell{X: -1, Y: 3}); ReasonOf(err) != ReasonInvalidPlacement {
		t.Fatalf("placing out of bounds: %v", err)
	}
	row := buildableRow(t, s, 2)
	place(t, s, defs.Blaster, row[0])
	if _, err := s.PlaceEmplacement(defs.Frost, row[0]); ReasonOf(err) != ReasonInvalidPlacement {
		t.Fatalf("placing on an occupied cell: %v", err)
	}
	s.Economy.Money = 10
	_, err := s.PlaceEmplacement(defs.Blaster, row[1])
	var ia *InvalidAction
	if !errors.As(err, &ia) || ia.Reason != ReasonInsufficientFunds || ia.Action != ActionPlace {
		t.Fatalf("placing without funds: %v", err)
	}
	if s.Economy.Money != 10 {
		t.Fatalf("rejected placement charged money")
	}
}

func TestConstructionActionRules(t *testing.T) {
	s := newSession(t, 5)
	s.Economy.Money = 10000
	row := buildableRow(t, s, 2)
	gun := place(t, s, defs.Blaster, row[0])

	if err := s.Upgrade(gun.ID); ReasonOf(err) != ReasonAlreadyInProgress {
		t.Fatalf("upgrade while building: %v", err)
	}
	finish(gun)
	if err := s.Branch(gun.ID, defs.BranchA); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("branch at level 0: %v", err)
	}
	if err := s.Repair(gun.ID); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("repair at full health: %v", err)
	}
	if err := s.SetAimAngle(gun.ID, 1); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("aiming a blaster: %v", err)
	}
	if err := s.Upgrade(999); ReasonOf(err) != ReasonNotFound {
		t.Fatalf("upgrade unknown: %v", err)
	}

	for level := 1; level <= defs.MaxLevel; level++ {
		if err := s.Upgrade(gun.ID); err != nil {
			t.Fatalf("upgrade to %d: %v", level, err)
		}
		finish(gun)
	}
	if err := s.Upgrade(gun.ID); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("upgrade past max: %v", err)
	}
	if err := s.Branch(gun.ID, defs.BranchB); err != nil {
		t.Fatalf("branch: %v", err)
	}
	finish(gun)
	if gun.Stats().Name != "Cannon" || gun.MaxHP != 260 {
		t.Fatalf("branch not applied: %s %v", gun.Stats().Name, gun.MaxHP)
	}
	if err := s.Branch(gun.ID, defs.BranchA); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("second branch: %v", err)
	}
	if gun.Invested != 60+70+110+200 {
		t.Fatalf("ledger %d", gun.Invested)
	}

	gun.TakeDamage(130)
	if err := s.Repair(gun.ID); err != nil {
		t.Fatalf("repair: %v", err)
	}
	// ceil(440 * 0.4 * 0.5)
	if gun.Invested != 440+88 {
		t.Fatalf("repair cost not recorded: %d", gun.Invested)
	}
	finish(gun)
	if gun.HP != gun.MaxHP {
		t.Fatalf("repair did not restore hull")
	}

	if err := s.BuyShield(gun.ID); err != nil {
		t.Fatalf("shield: %v", err)
	}
	finish(gun)
	if gun.Shield == nil || gun.Shield.HP != 130 {
		t.Fatalf("shield %+v", gun.Shield)
	}
	if err := s.BuyShield(gun.ID); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("full shield recharge: %v", err)
	}
}

func TestSellRefundsLedger(t *testing.T) {
	s := newSession(t, 6)
	row := buildableRow(t, s, 1)
	gun := place(t, s, defs.Blaster, row[0])
	finish(gun)
	if err := s.Upgrade(gun.ID); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	money := s.Economy.Money
	refund, err := s.Sell(gun.ID)
	if err != nil || refund != 91 {
		t.Fatalf("refund %d err %v", refund, err)
	}
	if s.Economy.Money != money+91 {
		t.Fatalf("money %d", s.Economy.Money)
	}
	if _, ok := s.ECS.EmplacementAt(row[0]); ok {
		t.Fatalf("sold emplacement still occupies its cell")
	}
	if _, err := s.Sell(gun.ID); ReasonOf(err) != ReasonNotFound {
		t.Fatalf("selling twice: %v", err)
	}
}

func TestAimAndBuff(t *testing.T) {
	s := newSession(t, 7)
	row := buildableRow(t, s, 2)
	lancer := place(t, s, defs.Lancer, row[0])
	gen := place(t, s, defs.Generator, row[1])
	if err := s.SetAimAngle(lancer.ID, 7); err != nil {
		t.Fatalf("aim: %v", err)
	}
	if a, ok := lancer.Aim(); !ok || a > 3.15 || a < -3.15 {
		t.Fatalf("aim not normalised: %v", a)
	}
	if err := s.BuffEmplacement(gen.ID); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("buffing a generator: %v", err)
	}
	if err := s.BuffEmplacement(lancer.ID); err != nil {
		t.Fatalf("buff: %v", err)
	}
	if err := s.BuffEmplacement(lancer.ID); ReasonOf(err) != ReasonAlreadyInProgress {
		t.Fatalf("second buff: %v", err)
	}
}

func TestResearchAndEarlySend(t *testing.T) {
	s := newSession(t, 8)
	if err := s.BuyResearch("nope"); ReasonOf(err) != ReasonNotFound {
		t.Fatalf("unknown node: %v", err)
	}
	if err := s.BuyResearch("hardened_rounds"); ReasonOf(err) != ReasonInsufficientFunds {
		t.Fatalf("no points: %v", err)
	}
	s.Research.Points = 1
	if err := s.BuyResearch("overclock"); ReasonOf(err) != ReasonUnmetPrerequisite {
		t.Fatalf("missing prerequisite: %v", err)
	}
	if err := s.BuyResearch("hardened_rounds"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	reward, err := s.SendWaveEarly()
	if err != nil || reward != 60 {
		t.Fatalf("reward %d err %v", reward, err)
	}
	if _, err := s.SendWaveEarly(); ReasonOf(err) != ReasonAlreadyInProgress {
		t.Fatalf("second early send: %v", err)
	}
	events, _ := s.Tick(0.05, nil)
	if len(events.WaveStarted) != 1 || len(events.Research) != 1 || len(events.Spawned) != 1 {
		t.Fatalf("events %+v", events)
	}
}

func TestTickReturnsOneResultPerAction(t *testing.T) {
	s := newSession(t, 9)
	row := buildableRow(t, s, 1)
	_, results := s.Tick(0.05, []Action{
		{Kind: ActionPlace, Archetype: defs.Frost, Cell: row[0]},
		{Kind: ActionPlace, Archetype: defs.Frost, Cell: row[0]},
		{Kind: ActionSell, Emplacement: 12345},
	})
	if len(results) != 3 {
		t.Fatalf("%d results", len(results))
	}
	if results[0].Err != nil || results[0].Emplacement == 0 {
		t.Fatalf("first placement: %+v", results[0])
	}
	if ReasonOf(results[1].Err) != ReasonInvalidPlacement || ReasonOf(results[2].Err) != ReasonNotFound {
		t.Fatalf("results %+v", results)
	}
}

func TestLeaksEndTheGame(t *testing.T) {
	s := newSession(t, 10)
	s.Economy.Lives = 2
	l := s.Lanes()[0]
	s.Director.SpawnAt(defs.Siege, 0, 0, l.Length()-0.01, 0, s.em)

	events, _ := s.Tick(0.05, nil)
	if len(events.Leaked) != 1 || events.GameOver == nil || !s.GameOver() {
		t.Fatalf("leak %+v over %v", events.Leaked, events.GameOver)
	}
	if s.Economy.Lives != 0 {
		t.Fatalf("lives %d", s.Economy.Lives)
	}

	_, results := s.Tick(0.05, []Action{{Kind: ActionSendEarly}})
	if ReasonOf(results[0].Err) != ReasonGameOver {
		t.Fatalf("action after game over: %v", results[0].Err)
	}
	if s.Director.Wave != 0 || len(s.ECS.Units) != 0 {
		t.Fatalf("world advanced after game over")
	}
}

func TestSpeedMultiplier(t *testing.T) {
	s := newSession(t, 11)
	if err := s.SetSpeed(3); err == nil {
		t.Fatalf("speed 3 accepted")
	}
	if err := s.SetSpeed(4); err != nil {
		t.Fatalf("speed 4: %v", err)
	}
	before := s.Director.Countdown
	s.Tick(1.0, nil)
	// 1s frames are clamped to the max step before the multiplier.
	if got := before - s.Director.Countdown; got < 0.2399 || got > 0.2401 {
		t.Fatalf("countdown advanced %v", got)
	}
	if s.CycleSpeed() != 1 {
		t.Fatalf("speed did not wrap")
	}
}

// script is a fixed action stream keyed by tick.
func script(t *testing.T, s *Session) map[int][]Action {
	row := buildableRow(t, s, 3)
	return map[int][]Action{
		0:  {{Kind: ActionPlace, Archetype: defs.Generator, Cell: row[0]}, {Kind: ActionPlace, Archetype: defs.Blaster, Cell: row[1]}},
		5:  {{Kind: ActionPlace, Archetype: defs.Frost, Cell: row[2]}},
		10: {{Kind: ActionSendEarly}},
	}
}

func runScripted(t *testing.T, seed int64, ticks int) []string {
	s := newSession(t, seed)
	plan := script(t, s)
	digests := make([]string, 0, ticks)
	for i := 0; i < ticks; i++ {
		s.Tick(1.0/60, plan[i])
		digests = append(digests, s.Digest())
	}
	return digests
}

func TestSameSeedSameDigests(t *testing.T) {
	a := runScripted(t, 42, 900)
	b := runScripted(t, 42, 900)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("digests diverge at tick %d", i)
		}
	}
	c := runScripted(t, 43, 900)
	if a[len(a)-1] == c[len(c)-1] {
		t.Fatalf("different seeds produced the same final digest")
	}
}

func TestSnapshotReflectsState(t *testing.T) {
	s := newSession(t, 12)
	row := buildableRow(t, s, 1)
	gun := place(t, s, defs.Blaster, row[0])
	if err := s.SelectEmplacement(gun.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	dummy(s, geom.V(1, 1), 50)

	snap := s.Snapshot()
	if len(snap.Emplacements) != 1 || len(snap.Units) != 1 {
		t.Fatalf("snapshot %+v", snap)
	}
	v := snap.Emplacements[0]
	if v.Construction != "building" || !v.Selected || v.Powered || v.Name != "Blaster" {
		t.Fatalf("emplacement view %+v", v)
	}
	if snap.Wave.Countdown != 30 || snap.Economy.Money != 190 {
		t.Fatalf("wave %+v economy %+v", snap.Wave, snap.Economy)
	}
	if s.Selected() != gun.ID {
		t.Fatalf("selection lost")
	}
	if err := s.SelectEmplacement(0); err != nil || s.Selected() != 0 {
		t.Fatalf("clearing selection")
	}
}
