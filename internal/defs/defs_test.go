package defs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogCoversEveryKind(t *testing.T) {
	c := DefaultCatalog()
	for _, k := range HostileKinds() {
		def := c.Hostile(k)
		if def == nil || def.Kind != k {
			t.Fatalf("hostile %s missing", k)
		}
		if def.Health <= 0 || def.Speed <= 0 {
			t.Fatalf("hostile %s has non-positive stats: %+v", k, def)
		}
	}
	for _, k := range EmplacementKinds() {
		def := c.Emplacement(k)
		if def == nil || def.Kind != k {
			t.Fatalf("emplacement %s missing", k)
		}
		for i, lvl := range def.Levels {
			if lvl.Weapon == nil || lvl.HP <= 0 || lvl.BuildTime <= 0 {
				t.Fatalf("%s level %d incomplete: %+v", k, i, lvl)
			}
		}
		for i, br := range def.Branches {
			if br.Weapon == nil || br.HP <= 0 {
				t.Fatalf("%s branch %d incomplete: %+v", k, i, br)
			}
		}
	}
	if !c.Emplacement(Generator).IsSource() || c.Emplacement(Blaster).IsSource() {
		t.Fatalf("power roles wrong")
	}
}

func TestKindNamesRoundTrip(t *testing.T) {
	for _, k := range HostileKinds() {
		got, ok := ParseHostileKind(k.String())
		if !ok || got != k {
			t.Fatalf("ParseHostileKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	for _, k := range EmplacementKinds() {
		got, ok := ParseEmplacementKind(" " + strings.ToUpper(k.String()))
		if !ok || got != k {
			t.Fatalf("ParseEmplacementKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseHostileKind("dragon"); ok {
		t.Fatalf("unexpected match")
	}
}

func TestWaveUnlocksAreOrdered(t *testing.T) {
	unlocks := DefaultCatalog().WaveUnlocks()
	for i := 1; i < len(unlocks); i++ {
		if unlocks[i].Wave < unlocks[i-1].Wave {
			t.Fatalf("unlock table out of order at %d", i)
		}
	}
	for _, u := range unlocks {
		if u.Kind.IsBoss() {
			t.Fatalf("boss %s must not be in the regular pool", u.Kind)
		}
	}
}

func TestParseTuningAppliesOverrides(t *testing.T) {
	raw := []byte(`
start_money: 400
hostiles:
  grunt:
    health: 75
    reward: 7
emplacements:
  blaster:
    levels:
      - damage: 15
    branch_b:
      range: 5
waves:
  runner:
    unlock_wave: 3
`)
	tn, err := ParseTuning(raw)
	if err != nil {
		t.Fatalf("ParseTuning: %v", err)
	}
	c, err := NewCatalog(tn)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	if c.StartMoney != 400 || c.StartLives != defaultStartLives {
		t.Fatalf("economy = %d/%d", c.StartMoney, c.StartLives)
	}
	g := c.Hostile(Grunt)
	if g.Health != 75 || g.Reward != 7 || g.Speed != 1.6 {
		t.Fatalf("grunt = %+v", g)
	}
	b := c.Emplacement(Blaster)
	if b.Levels[0].Damage != 15 || b.Levels[1].Damage != 18 || b.Branches[1].Range != 5 {
		t.Fatalf("blaster = %+v", b)
	}
	if c.WaveUnlocks()[1].Wave != 3 {
		t.Fatalf("runner unlock = %d", c.WaveUnlocks()[1].Wave)
	}
	if DefaultCatalog().Hostile(Grunt).Health != 60 {
		t.Fatalf("defaults were mutated")
	}
}

func TestParseTuningRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"unknown field":    "start_cash: 10\n",
		"unknown hostile":  "hostiles:\n  dragon:\n    health: 5\n",
		"negative health":  "hostiles:\n  grunt:\n    health: -5\n",
		"too many levels":  "emplacements:\n  arc:\n    levels: [{}, {}, {}, {}]\n",
		"boss in the pool": "waves:\n  boss:\n    base_count: 2\n",
	}
	for name, doc := range cases {
		if _, err := ParseTuning([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadTuningFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("start_lives: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tn, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	if tn.StartLives == nil || *tn.StartLives != 5 {
		t.Fatalf("start_lives not loaded")
	}
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	empty, err := ParseTuning(nil)
	if err != nil || empty.StartLives != nil {
		t.Fatalf("empty document: %+v, %v", empty, err)
	}
}
