package system

import (
	"math"
	"testing"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/entity"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/lanes"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/utils"
	"go-lane-defense/pkg/geom"
	"go-lane-defense/pkg/gridmap"
)

func testLane() *lanes.Lane {
	return lanes.NewLane([]gridmap.Cell{{X: 0, Y: 5}, {X: 12, Y: 5}, {X: 12, Y: 14}, {X: 30, Y: 14}})
}

func newDirector(seed int64) (*WaveDirector, *entity.ECS) {
	ecs := entity.NewECS()
	econ := &component.Economy{Money: 100, Lives: 20}
	d := NewWaveDirector(ecs, defs.DefaultCatalog(), []*lanes.Lane{testLane()}, utils.NewPRNGService(seed), econ, research.NewState(), nil)
	return d, ecs
}

func TestMovementDistanceIndependentOfStep(t *testing.T) {
	l := testLane()
	for _, dt := range []float64{0.01, 0.0333, 0.06, 0.17, 1.3} {
		u := &component.HostileUnit{Speed: 2.3, Health: 1, MaxHealth: 1}
		steps := 0
		for !Advance(l, u, u.EffectiveSpeed()*dt) {
			steps++
			if steps > 100000 {
				t.Fatalf("dt %v: never reached the end", dt)
			}
		}
		if math.Abs(u.Traveled-l.Length()) > 1e-6 {
			t.Fatalf("dt %v: traveled %v, lane length %v", dt, u.Traveled, l.Length())
		}
		if u.Position != l.End() {
			t.Fatalf("dt %v: final position %v", dt, u.Position)
		}
	}
}

func TestMovementCarriesOverflowAcrossWaypoints(t *testing.T) {
	l := testLane()
	u := &component.HostileUnit{}
	Advance(l, u, 13.5)
	if u.Segment != 1 || math.Abs(u.Offset-1.5/9) > 1e-12 {
		t.Fatalf("segment %d offset %v", u.Segment, u.Offset)
	}
	if want := (geom.Vec2{X: 12.5, Y: 7}); u.Position.Dist(want) > 1e-9 {
		t.Fatalf("position %v, want %v", u.Position, want)
	}
}

func TestMovementSkipsZeroLengthSegments(t *testing.T) {
	l := lanes.NewLane([]gridmap.Cell{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 6}})
	u := &component.HostileUnit{}
	if Advance(l, u, 5) {
		t.Fatalf("reached end early")
	}
	if u.Segment != 2 || math.IsNaN(u.Offset) {
		t.Fatalf("segment %d offset %v", u.Segment, u.Offset)
	}
}

func TestWaveFormulas(t *testing.T) {
	if HealthScale(1) != 1 || math.Abs(HealthScale(11)-(1+1.1+0.25)) > 1e-12 {
		t.Fatalf("health scale")
	}
	if math.Abs(CountScale(20)-3.85) > 1e-12 || math.Abs(CountScale(30)-4.45) > 1e-12 {
		t.Fatalf("count scale")
	}
	if SpawnSpacing(0.6, 30) != 0.30 || math.Abs(SpawnSpacing(2.0, 11)-1.8) > 1e-12 {
		t.Fatalf("spacing")
	}
	if p1, p2 := EliteChances(4); p1 != 0 || p2 != 0 {
		t.Fatalf("elite chances before wave 5")
	}
	if p1, p2 := EliteChances(40); p1 != 0.35 || p2 != 0.15 {
		t.Fatalf("elite caps: %v %v", p1, p2)
	}
	if CountdownBefore(1) != 30 || CountdownBefore(3) != 20 || CountdownBefore(4) != 12 {
		t.Fatalf("countdowns")
	}
	if ClearBonus(10) != 150 || ClearBonus(27) != 50+270+40 {
		t.Fatalf("clear bonus")
	}
	if ClearResearchPoints(5) != 2 || ClearResearchPoints(6) != 1 {
		t.Fatalf("research points")
	}
}

func TestBossAndUltraWavesNeverCoincide(t *testing.T) {
	ultras := 0
	for w := 1; w <= 500; w++ {
		if IsUltraWave(w) {
			ultras++
			if BossCount(w) > 0 {
				t.Fatalf("wave %d has both", w)
			}
		}
	}
	if ultras == 0 || !IsUltraWave(15) || !IsUltraWave(35) || BossCount(30) != 3 {
		t.Fatalf("schedule wrong")
	}
}

func TestComposeMatchesScalingFormulas(t *testing.T) {
	for _, wave := range []int{1, 4, 9, 10, 15, 23, 35} {
		d, _ := newDirector(int64(wave) * 31)
		queue := d.Compose(wave)

		counts := map[defs.HostileKind]int{}
		for _, p := range queue {
			counts[p.Kind]++
		}
		pool := 0
		for _, u := range d.catalog.WaveUnlocks() {
			if u.Wave > wave {
				continue
			}
			pool++
			if c, ok := counts[u.Kind]; ok && c != SpawnCount(u.BaseCount, wave) {
				t.Fatalf("wave %d %s: %d, want %d", wave, u.Kind, c, SpawnCount(u.BaseCount, wave))
			}
		}
		regular := len(counts)
		if counts[defs.Boss] > 0 {
			regular--
		}
		if counts[defs.UltraBoss] > 0 {
			regular--
		}
		if regular != SubsetSize(pool, wave) {
			t.Fatalf("wave %d: %d archetypes, want %d", wave, regular, SubsetSize(pool, wave))
		}
		if counts[defs.Boss] != BossCount(wave) {
			t.Fatalf("wave %d: %d bosses", wave, counts[defs.Boss])
		}
		if (counts[defs.UltraBoss] == 1) != IsUltraWave(wave) {
			t.Fatalf("wave %d: ultra boss mismatch", wave)
		}
		tail := counts[defs.Boss] + counts[defs.UltraBoss]
		for i, p := range queue {
			if p.Kind.IsBoss() != (i >= len(queue)-tail) {
				t.Fatalf("wave %d: bosses not appended last", wave)
			}
			if wave < 5 && p.Elite != 0 {
				t.Fatalf("wave %d: early elite", wave)
			}
		}
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	a, _ := newDirector(9)
	b, _ := newDirector(9)
	qa, qb := a.Compose(17), b.Compose(17)
	if len(qa) != len(qb) {
		t.Fatalf("lengths differ")
	}
	for i := range qa {
		if qa[i] != qb[i] {
			t.Fatalf("entry %d differs", i)
		}
	}
}

func TestDirectorCountdownSpawnAndClear(t *testing.T) {
	d, ecs := newDirector(3)
	em := event.NewEmitter(0, nil)
	d.Update(29.9, em)
	if d.Active {
		t.Fatalf("wave started before the countdown ended")
	}
	d.Update(0.2, em)
	if !d.Active || d.Wave != 1 || len(em.Events.Spawned) != 1 {
		t.Fatalf("wave 1 did not start with an immediate spawn: %+v", em.Events)
	}
	for len(d.Queue) > 0 {
		d.Update(0.5, em)
	}
	if d.CheckCleared(em) {
		t.Fatalf("cleared with units alive")
	}
	for _, u := range ecs.Units {
		u.Dead = true
	}
	if !d.CheckCleared(em) {
		t.Fatalf("wave not cleared")
	}
	if d.economy.Money != 100+ClearBonus(1) || d.research.Points != 1 || d.Countdown != 20 {
		t.Fatalf("money %d points %d countdown %v", d.economy.Money, d.research.Points, d.Countdown)
	}
}

func TestSendEarlyPaysForSkippedTime(t *testing.T) {
	d, _ := newDirector(3)
	em := event.NewEmitter(0, nil)
	d.Update(10.2, em)
	reward, err := d.SendEarly(em)
	if err != nil || reward != 40 {
		t.Fatalf("reward %d err %v", reward, err)
	}
	if _, err := d.SendEarly(em); err != ErrWaveInProgress {
		t.Fatalf("second send: %v", err)
	}
}

func place(ecs *entity.ECS, kind defs.EmplacementKind, cell gridmap.Cell) *component.Emplacement {
	def := defs.DefaultCatalog().Emplacement(kind)
	e := component.NewEmplacement(ecs.NewEntity(), def, cell, def.Levels[0].Cost, 0)
	e.Construction = nil
	ecs.AddEmplacement(e)
	return e
}

func TestPowerRespectsCapacityAndPrefersNearest(t *testing.T) {
	ecs := entity.NewECS()
	gen := place(ecs, defs.Generator, gridmap.Cell{X: 10, Y: 10})
	var consumers []*component.Emplacement
	for _, c := range []gridmap.Cell{{X: 13, Y: 10}, {X: 11, Y: 10}, {X: 10, Y: 12}, {X: 10, Y: 7}, {X: 12, Y: 12}, {X: 30, Y: 10}} {
		consumers = append(consumers, place(ecs, defs.Blaster, c))
	}
	Allocate(ecs.Emplacements, 0, false)

	powered := 0
	for _, c := range consumers {
		if c.Power.Powered {
			powered++
			if c.Power.Source != gen.ID {
				t.Fatalf("consumer %d powered by %d", c.ID, c.Power.Source)
			}
		}
	}
	if powered != 3 {
		t.Fatalf("powered %d consumers, capacity is 3", powered)
	}
	// Distances: (11,10)=1, (10,12)=2, (12,12)=2.83, (13,10)=3, (10,7)=3.
	if !consumers[1].Power.Powered || !consumers[2].Power.Powered || !consumers[4].Power.Powered {
		t.Fatalf("nearest consumers were not preferred")
	}
	if consumers[5].Power.Powered {
		t.Fatalf("out-of-radius consumer powered")
	}

	Allocate(ecs.Emplacements, 2, false)
	if !consumers[0].Power.Powered || !consumers[3].Power.Powered {
		t.Fatalf("capacity bonus not used")
	}
}

func TestPowerAllocatorOnlyRecomputesWhenDirty(t *testing.T) {
	ecs := entity.NewECS()
	p := NewPowerAllocator(ecs)
	mods := research.Baseline()
	if !p.Refresh(mods) || p.Refresh(mods) {
		t.Fatalf("dirty flag not honoured")
	}
	mods.SourceCapacityBonus = 2
	if !p.Refresh(mods) {
		t.Fatalf("capacity change did not trigger a recompute")
	}
	p.MarkDirty()
	if !p.Refresh(mods) {
		t.Fatalf("MarkDirty ignored")
	}
}

func TestSelectTargetRules(t *testing.T) {
	c := defs.DefaultCatalog()
	a := &component.HostileUnit{ID: 1, Kind: defs.Grunt, Traveled: 5}
	b := &component.HostileUnit{ID: 2, Kind: defs.Mender, Traveled: 2}
	d := &component.HostileUnit{ID: 3, Kind: defs.Runner, Traveled: 9}
	list := []*component.HostileUnit{a, b, d}

	if got := SelectTarget(c.Emplacement(defs.Blaster), list); got != d {
		t.Fatalf("default rule picked %d", got.ID)
	}
	if got := SelectTarget(c.Emplacement(defs.Arc), list); got != b {
		t.Fatalf("arc did not prioritise the mender")
	}
	if got := SelectTarget(c.Emplacement(defs.Lancer), list); got != a {
		t.Fatalf("fixed-direction rule picked %d", got.ID)
	}
	if SelectTarget(c.Emplacement(defs.Blaster), nil) != nil {
		t.Fatalf("empty candidate list")
	}
}

func TestResolveHitOrder(t *testing.T) {
	rng := utils.NewPRNGService(1)
	u := &component.HostileUnit{Health: 10, MaxHealth: 100}
	u.Status.ApplySlow(0.5, 1)
	mods := research.Baseline()
	mods.CCBonus = 0.5
	mods.FarBonus, mods.FarThreshold = 1, 0.5
	mods.ExecuteBonus, mods.ExecuteThreshold = 1, 0.2
	got := ResolveHit(10, HitContext{Target: u, Distance: 4, Range: 5, Buffed: true}, mods, rng)
	want := 10 * 1.5 * 2 * 2 * 1.5
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("ResolveHit = %v, want %v", got, want)
	}
}

func TestBeamHitsCorridorNearestFirstUpToCap(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Lancer, gridmap.Cell{X: 2, Y: 10})
	e.Power.Powered = true
	angle := 0.0
	e.AimAngle = &angle
	var units []*component.HostileUnit
	for i, x := range []float64{7.5, 4.5, 5.5, 6.5} {
		u := &component.HostileUnit{ID: ecs.NewEntity(), Health: 500, MaxHealth: 500, Position: geom.V(x, 10.5+float64(i%2)*0.2)}
		units = append(units, u)
		ecs.AddUnit(u)
	}
	off := &component.HostileUnit{ID: ecs.NewEntity(), Health: 500, MaxHealth: 500, Position: geom.V(4.5, 12.5)}
	ecs.AddUnit(off)

	em := event.NewEmitter(0, nil)
	NewCombatSystem(ecs, utils.NewPRNGService(1)).Update(0.01, research.Baseline(), em)

	if len(em.Events.Fired) != 1 || em.Events.Fired[0].Targets != 3 {
		t.Fatalf("fired = %+v", em.Events.Fired)
	}
	if units[0].Health != 500 || off.Health != 500 {
		t.Fatalf("beam hit a unit it should not have")
	}
	for _, u := range units[1:] {
		if u.Health >= 500 {
			t.Fatalf("unit %d at %v not hit", u.ID, u.Position)
		}
	}
}

func TestChainHopsToNearestUnhit(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Arc, gridmap.Cell{X: 5, Y: 5})
	e.Power.Powered = true
	mk := func(x, y, traveled float64) *component.HostileUnit {
		u := &component.HostileUnit{ID: ecs.NewEntity(), Health: 100, MaxHealth: 100, Position: geom.V(x, y), Traveled: traveled}
		ecs.AddUnit(u)
		return u
	}
	first := mk(7, 5.5, 10)
	second := mk(8.5, 5.5, 1)
	third := mk(10.5, 5.5, 1)
	far := mk(20, 5.5, 1)

	em := event.NewEmitter(0, nil)
	NewCombatSystem(ecs, utils.NewPRNGService(1)).Update(0.01, research.Baseline(), em)

	if first.Health != 84 || math.Abs(second.Health-87.2) > 1e-9 || math.Abs(third.Health-89.76) > 1e-9 {
		t.Fatalf("chain damage: %v %v %v", first.Health, second.Health, third.Health)
	}
	if far.Health != 100 {
		t.Fatalf("chain jumped beyond range")
	}
}

func TestPulseSlowsEveryoneInRange(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Frost, gridmap.Cell{X: 5, Y: 5})
	e.Power.Powered = true
	in := &component.HostileUnit{ID: ecs.NewEntity(), Health: 100, MaxHealth: 100, Position: geom.V(6.5, 5.5)}
	out := &component.HostileUnit{ID: ecs.NewEntity(), Health: 100, MaxHealth: 100, Position: geom.V(12.5, 5.5)}
	ecs.AddUnit(in)
	ecs.AddUnit(out)

	em := event.NewEmitter(0, nil)
	NewCombatSystem(ecs, utils.NewPRNGService(1)).Update(0.01, research.Baseline(), em)
	if math.Abs(in.Status.SlowFactor()-0.6) > 1e-12 || in.Health != 96 {
		t.Fatalf("in-range unit: slow %v health %v", in.Status.SlowFactor(), in.Health)
	}
	if out.Status.Slow.Active() || out.Health != 100 {
		t.Fatalf("out-of-range unit affected")
	}
}

func TestUnpoweredAndBuildingEmplacementsHoldFire(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Blaster, gridmap.Cell{X: 5, Y: 5})
	ecs.AddUnit(&component.HostileUnit{ID: ecs.NewEntity(), Health: 100, MaxHealth: 100, Position: geom.V(6.5, 5.5)})
	cs := NewCombatSystem(ecs, utils.NewPRNGService(1))

	em := event.NewEmitter(0, nil)
	cs.Update(0.05, research.Baseline(), em)
	if len(em.Events.Fired) != 0 {
		t.Fatalf("unpowered emplacement fired")
	}

	e.Power.Powered = true
	e.StartJob(component.Upgrading{Cost: 70}, 2.5)
	cs.Update(0.05, research.Baseline(), em)
	if len(em.Events.Fired) != 0 {
		t.Fatalf("upgrading emplacement fired without active construction")
	}
	mods := research.Baseline()
	mods.ActiveConstruction = true
	cs.Update(0.05, mods, em)
	if len(em.Events.Fired) != 1 || math.Abs(e.Cooldown-1/(2.0*0.5)) > 1e-9 {
		t.Fatalf("active construction fire: %+v cooldown %v", em.Events.Fired, e.Cooldown)
	}
}

func TestProjectileLandsTickAfterArrival(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Blaster, gridmap.Cell{X: 5, Y: 5})
	u := &component.HostileUnit{ID: ecs.NewEntity(), Health: 100, MaxHealth: 100, Position: geom.V(6.5, 5.5)}
	ecs.AddUnit(u)
	ecs.AddProjectile(&component.Projectile{ID: ecs.NewEntity(), Source: e.ID, Target: u.ID, Position: e.Position, Speed: 12, Damage: 12})

	ps := NewProjectileSystem(ecs)
	em := event.NewEmitter(0, nil)
	ps.Move(0.1)
	if !ecs.Projectiles[0].Arrived || u.Health != 100 {
		t.Fatalf("projectile should arrive without landing")
	}
	ps.Resolve(em)
	if u.Health != 88 || !ecs.Projectiles[0].Done {
		t.Fatalf("projectile did not land: %v", u.Health)
	}
}

func TestProjectileDroppedWhenSourceGone(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Blaster, gridmap.Cell{X: 5, Y: 5})
	u := &component.HostileUnit{ID: ecs.NewEntity(), Health: 100, MaxHealth: 100, Position: geom.V(6.5, 5.5)}
	ecs.AddUnit(u)
	ecs.AddProjectile(&component.Projectile{ID: ecs.NewEntity(), Source: e.ID, Target: u.ID, Position: u.Position, Arrived: true, Damage: 50})
	e.Destroyed = true

	NewProjectileSystem(ecs).Resolve(event.NewEmitter(0, nil))
	if u.Health != 100 || !ecs.Projectiles[0].Done {
		t.Fatalf("cancelled projectile still landed")
	}
}

func TestSplitterSpawnsOffspringOnDeath(t *testing.T) {
	d, ecs := newDirector(5)
	d.Wave = 10
	em := event.NewEmitter(0, nil)
	parent := d.SpawnAt(defs.Splitter, 1, 0, 6, 0, em)
	parent.TakeDamage(1e6, false)
	parent.Killer = 99

	ds := NewDeathSystem(ecs, d.lanes, d.rng, d.economy, d)
	ds.Update(em)
	if len(em.Events.Died) != 1 || em.Events.Died[0].Cause != event.CauseWeapon {
		t.Fatalf("death not recorded: %+v", em.Events.Died)
	}
	kids := 0
	for _, u := range ecs.Units {
		if u.Kind == defs.Spawnling {
			kids++
			if u.Elite != 1 || u.Lane != 0 || math.Abs(u.Traveled-6) > 0.35+1e-9 {
				t.Fatalf("offspring %+v", u)
			}
		}
	}
	if kids != 3 {
		t.Fatalf("%d offspring", kids)
	}
	ds.Update(em)
	if len(em.Events.Died) != 1 {
		t.Fatalf("death paid twice")
	}
}

func TestBehaviorCycles(t *testing.T) {
	ecs := entity.NewECS()
	c := defs.DefaultCatalog()
	phase := component.NewHostileUnit(ecs.NewEntity(), c.Hostile(defs.Phase), 0, 1, 1, 0)
	mender := component.NewHostileUnit(ecs.NewEntity(), c.Hostile(defs.Mender), 0, 1, 1, 0)
	hurt := component.NewHostileUnit(ecs.NewEntity(), c.Hostile(defs.Brute), 0, 1, 1, 0)
	hurt.Health = 50
	for _, u := range []*component.HostileUnit{phase, mender, hurt} {
		ecs.AddUnit(u)
	}
	bs := NewBehaviorSystem(ecs, utils.NewPRNGService(1))
	em := event.NewEmitter(0, nil)

	bs.Update(2.9, em)
	if !phase.InPhaseWindow() {
		t.Fatalf("phase window did not open after the off period")
	}
	// The phase unit is at full health, so only the brute is healed.
	if hurt.Health != 65 || len(em.Events.Healed) != 1 {
		t.Fatalf("heal: health %v events %d", hurt.Health, len(em.Events.Healed))
	}
	bs.Update(1.2, em)
	if phase.InPhaseWindow() {
		t.Fatalf("phase window did not close")
	}
}

func TestSiegeShotsTargetEmplacementsInRange(t *testing.T) {
	ecs := entity.NewECS()
	e := place(ecs, defs.Blaster, gridmap.Cell{X: 5, Y: 5})
	siege := component.NewHostileUnit(ecs.NewEntity(), defs.DefaultCatalog().Hostile(defs.Siege), 0, 1, 1, 0)
	siege.Position = geom.V(8.5, 5.5)
	siege.Siege.MissChance = 0
	ecs.AddUnit(siege)

	bs := NewBehaviorSystem(ecs, utils.NewPRNGService(1))
	ps := NewProjectileSystem(ecs)
	em := event.NewEmitter(0, nil)
	bs.Update(3.0, em)
	if len(ecs.SiegeShots) != 1 {
		t.Fatalf("%d siege shots", len(ecs.SiegeShots))
	}
	ps.Move(1.0)
	ps.ResolveSiege(em)
	if e.HP != e.MaxHP-18 || len(em.Events.EmplacementDamaged) != 1 {
		t.Fatalf("hp %v of %v", e.HP, e.MaxHP)
	}
}
