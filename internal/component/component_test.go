package component

import (
	"math"
	"testing"

	"go-lane-defense/internal/defs"
	"go-lane-defense/pkg/gridmap"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSlowRefreshNeverWeakens(t *testing.T) {
	var s StatusEffects
	s.ApplySlow(0.5, 2)
	s.ApplySlow(0.8, 1)
	if s.SlowFactor() != 0.5 {
		t.Fatalf("slow factor = %v, want 0.5", s.SlowFactor())
	}
	if s.Slow.Remaining < 2 {
		t.Fatalf("remaining = %v, want >= 2", s.Slow.Remaining)
	}

	s.Advance(0.5)
	s.ApplySlow(0.3, 0.1)
	if s.SlowFactor() != 0.3 || !near(s.Slow.Remaining, 1.5) {
		t.Fatalf("stronger slow: factor %v remaining %v", s.SlowFactor(), s.Slow.Remaining)
	}
}

func TestEffectsExpireAndNeverGoNegative(t *testing.T) {
	var s StatusEffects
	s.ApplyVulnerability(1.4, 1)
	s.ApplyVulnerability(1.2, 3)
	if s.VulnerabilityFactor() != 1.4 || s.Vulnerability.Remaining != 3 {
		t.Fatalf("vulnerability = %+v", s.Vulnerability)
	}
	s.Advance(5)
	if s.Vulnerability.Remaining != 0 || s.VulnerabilityFactor() != 1 {
		t.Fatalf("vulnerability did not expire: %+v", s.Vulnerability)
	}
}

func TestDoTPaysInFixedTicks(t *testing.T) {
	var s StatusEffects
	s.ApplyDoT(10, 2)
	var total float64
	for i := 0; i < 100; i++ {
		total += s.Advance(0.03)
	}
	if !near(total, 20) {
		t.Fatalf("dot total = %v, want 20", total)
	}
	if s.DoT.Active() {
		t.Fatalf("dot still active")
	}
}

func TestDamageOrderIsArmorThenVulnerability(t *testing.T) {
	h := &HostileUnit{Health: 100, MaxHealth: 100, Armor: 5}
	h.Status.ApplyVulnerability(1.5, 10)

	got := h.TakeDamage(20, false)
	if !near(got, 22.5) {
		t.Fatalf("applied = %v, want 22.5", got)
	}
	swapped := 20*1.5 - 5
	if near(got, swapped) {
		t.Fatalf("order is not observable on this fixture")
	}
}

func TestDamageFloorsAtOneAndPhaseReduces(t *testing.T) {
	h := &HostileUnit{Health: 50, MaxHealth: 50, Armor: 10}
	if got := h.TakeDamage(4, false); got != 1 {
		t.Fatalf("armored hit = %v, want 1", got)
	}

	p := &HostileUnit{Health: 100, MaxHealth: 100, Phase: &defs.PhaseCycle{On: 1, Off: 1, DamageFactor: 0.2}}
	p.Behavior.Phased = true
	if got := p.TakeDamage(50, false); !near(got, 10) {
		t.Fatalf("phased hit = %v, want 10", got)
	}
	if got := p.TakeDamage(50, true); !near(got, 50) {
		t.Fatalf("phase-ignoring hit = %v, want 50", got)
	}
}

func TestLethalDamageMarksDead(t *testing.T) {
	h := &HostileUnit{Health: 10, MaxHealth: 10}
	h.TakeDamage(25, false)
	if !h.Dead || h.Health != 0 || h.Alive() {
		t.Fatalf("unit not dead: %+v", h)
	}
	if h.TakeDamage(5, false) != 0 || h.Restore(5) != 0 {
		t.Fatalf("dead unit still accepts changes")
	}
	if (&HostileUnit{}).HealthFraction() != 0 {
		t.Fatalf("zero max health must not produce NaN")
	}
}

func TestEliteScalingAppliedOnce(t *testing.T) {
	def := defs.DefaultCatalog().Hostile(defs.Siege)
	h := NewHostileUnit(1, def, 2, 1, 1, 0)
	if !near(h.MaxHealth, def.Health*3) || !near(h.Armor, def.Armor*2) {
		t.Fatalf("elite stats = %+v", h)
	}
	if !near(h.Siege.Damage, def.Siege.Damage*1.8) || def.Siege.Damage != 18 {
		t.Fatalf("siege damage scaled wrong or definition mutated")
	}
	if h.Reward != int(math.Round(float64(def.Reward)*3.5)) {
		t.Fatalf("reward = %d", h.Reward)
	}
}

func TestBurstOverridesSlow(t *testing.T) {
	h := &HostileUnit{Speed: 2, Burst: &defs.BurstCycle{Every: 1, Duration: 1, Speed: 5}}
	h.Status.ApplySlow(0.5, 3)
	if h.EffectiveSpeed() != 1 {
		t.Fatalf("slowed speed = %v", h.EffectiveSpeed())
	}
	h.Behavior.Bursting = true
	if h.EffectiveSpeed() != 5 {
		t.Fatalf("burst speed = %v", h.EffectiveSpeed())
	}
}

func TestProgressionIsLevelXorBranch(t *testing.T) {
	def := defs.DefaultCatalog().Emplacement(defs.Blaster)
	e := NewEmplacement(1, def, gridmap.Cell{X: 3, Y: 3}, def.Levels[0].Cost, 0)
	e.AdvanceJob(def.Levels[0].BuildTime, 0)
	if !e.Idle() {
		t.Fatalf("build did not finish")
	}

	for lvl := 1; lvl <= defs.MaxLevel; lvl++ {
		if !CanUpgrade(e.Progression) {
			t.Fatalf("cannot upgrade at %v", e.Progression)
		}
		e.StartJob(Upgrading{Cost: 10}, 1)
		e.AdvanceJob(1, 0)
		if l, ok := e.Level(); !ok || l != lvl {
			t.Fatalf("level = %d, %v", l, ok)
		}
	}
	if CanUpgrade(e.Progression) || !CanBranch(e.Progression) {
		t.Fatalf("max level must only allow branching")
	}
	e.StartJob(Branching{Key: defs.BranchB, Cost: 10}, 1)
	e.AdvanceJob(1, 0)
	if _, ok := e.Level(); ok {
		t.Fatalf("branched emplacement still reports a level")
	}
	if CanUpgrade(e.Progression) || CanBranch(e.Progression) {
		t.Fatalf("branch must be terminal")
	}
	if e.Stats().Name != "Cannon" || e.MaxHP != def.Branches[1].HP {
		t.Fatalf("branch stats = %+v", e.Stats())
	}
}

func TestBranchingABranchedEmplacementPanics(t *testing.T) {
	def := defs.DefaultCatalog().Emplacement(defs.Arc)
	e := NewEmplacement(1, def, gridmap.Cell{}, 0, 0)
	e.Construction = nil
	e.Progression = Branch{Key: defs.BranchA}
	e.StartJob(Branching{Key: defs.BranchB}, 0)

	defer func() {
		if _, ok := recover().(InvariantViolation); !ok {
			t.Fatalf("expected InvariantViolation")
		}
	}()
	e.AdvanceJob(0.1, 0)
}

func TestShieldAbsorbsFirstAndRecharges(t *testing.T) {
	def := defs.DefaultCatalog().Emplacement(defs.Blaster)
	e := NewEmplacement(1, def, gridmap.Cell{}, 60, 0)
	e.Construction = nil
	if e.MissingShieldFraction() != 1 {
		t.Fatalf("fresh shield fraction = %v", e.MissingShieldFraction())
	}
	e.StartJob(Shielding{}, 1)
	e.AdvanceJob(1, 0)
	if e.Shield == nil || e.Shield.Max != 60 {
		t.Fatalf("shield = %+v", e.Shield)
	}

	absorbed, hull := e.TakeDamage(80)
	if absorbed != 60 || hull != 20 || e.HP != 100 {
		t.Fatalf("absorbed %v hull %v hp %v", absorbed, hull, e.HP)
	}
	if e.MissingShieldFraction() != 1 {
		t.Fatalf("drained shield fraction = %v", e.MissingShieldFraction())
	}

	e.StartJob(Repairing{}, 1)
	e.AdvanceJob(1, 0)
	if e.HP != e.MaxHP {
		t.Fatalf("repair did not restore hull")
	}
}

func TestFortificationScalesMaxHP(t *testing.T) {
	def := defs.DefaultCatalog().Emplacement(defs.Generator)
	e := NewEmplacement(1, def, gridmap.Cell{}, 50, 0)
	e.TakeDamage(50)
	e.RefreshMaxHP(0.2)
	if !near(e.MaxHP, 180) || !near(e.HP, 130) {
		t.Fatalf("max %v hp %v", e.MaxHP, e.HP)
	}
}
