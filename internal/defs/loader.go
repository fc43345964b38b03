// internal/defs/loader.go
package defs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed tuning.schema.json
var tuningSchemaSource string

const tuningSchemaURL = "tuning.schema.json"

var tuningSchema = jsonschema.MustCompileString(tuningSchemaURL, tuningSchemaSource)

// Tuning is an optional override document applied on top of the built-in
// tables. Unset fields keep their default. It round-trips through JSON so
// replay headers can carry it.
type Tuning struct {
	StartMoney   *int                           `yaml:"start_money,omitempty" json:"start_money,omitempty"`
	StartLives   *int                           `yaml:"start_lives,omitempty" json:"start_lives,omitempty"`
	Hostiles     map[string]HostileOverride     `yaml:"hostiles,omitempty" json:"hostiles,omitempty"`
	Emplacements map[string]EmplacementOverride `yaml:"emplacements,omitempty" json:"emplacements,omitempty"`
	Waves        map[string]WaveOverride        `yaml:"waves,omitempty" json:"waves,omitempty"`
}

type HostileOverride struct {
	Health    *float64 `yaml:"health,omitempty" json:"health,omitempty"`
	Speed     *float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	Armor     *float64 `yaml:"armor,omitempty" json:"armor,omitempty"`
	Reward    *int     `yaml:"reward,omitempty" json:"reward,omitempty"`
	LivesCost *int     `yaml:"lives_cost,omitempty" json:"lives_cost,omitempty"`
}

type TierOverride struct {
	Cost      *int     `yaml:"cost,omitempty" json:"cost,omitempty"`
	BuildTime *float64 `yaml:"build_time,omitempty" json:"build_time,omitempty"`
	Damage    *float64 `yaml:"damage,omitempty" json:"damage,omitempty"`
	FireRate  *float64 `yaml:"fire_rate,omitempty" json:"fire_rate,omitempty"`
	Range     *float64 `yaml:"range,omitempty" json:"range,omitempty"`
	HP        *float64 `yaml:"hp,omitempty" json:"hp,omitempty"`
}

type EmplacementOverride struct {
	Levels  []TierOverride `yaml:"levels,omitempty" json:"levels,omitempty"`
	BranchA *TierOverride  `yaml:"branch_a,omitempty" json:"branch_a,omitempty"`
	BranchB *TierOverride  `yaml:"branch_b,omitempty" json:"branch_b,omitempty"`
}

type WaveOverride struct {
	UnlockWave  *int     `yaml:"unlock_wave,omitempty" json:"unlock_wave,omitempty"`
	BaseCount   *int     `yaml:"base_count,omitempty" json:"base_count,omitempty"`
	BaseSpacing *float64 `yaml:"base_spacing,omitempty" json:"base_spacing,omitempty"`
}

// DefaultTuning is the empty override document.
func DefaultTuning() Tuning {
	return Tuning{}
}

// LoadTuning reads a YAML tuning file and validates it against the
// embedded schema.
func LoadTuning(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning file: %w", err)
	}
	return ParseTuning(raw)
}

// ParseTuning decodes and validates a YAML tuning document.
func ParseTuning(raw []byte) (Tuning, error) {
	var t Tuning
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return t, fmt.Errorf("tuning yaml: %w", err)
	}
	if doc == nil {
		return t, nil
	}
	if err := validateTuningDoc(doc); err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning yaml: %w", err)
	}
	return t, nil
}

// The validator wants JSON-shaped values, so the YAML tree is normalised
// through encoding/json first.
func validateTuningDoc(doc any) error {
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tuning to json: %w", err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("tuning to json: %w", err)
	}
	if err := tuningSchema.Validate(v); err != nil {
		return fmt.Errorf("tuning schema: %w", err)
	}
	return nil
}

func (t Tuning) apply(c *Catalog) error {
	if t.StartMoney != nil {
		c.StartMoney = *t.StartMoney
	}
	if t.StartLives != nil {
		c.StartLives = *t.StartLives
	}
	for _, name := range sortedKeys(t.Hostiles) {
		kind, ok := ParseHostileKind(name)
		if !ok {
			return fmt.Errorf("unknown hostile %q", name)
		}
		o := t.Hostiles[name]
		def := &c.hostiles[kind]
		setFloat(&def.Health, o.Health)
		setFloat(&def.Speed, o.Speed)
		setFloat(&def.Armor, o.Armor)
		setInt(&def.Reward, o.Reward)
		setInt(&def.LivesCost, o.LivesCost)
	}
	for _, name := range sortedKeys(t.Emplacements) {
		kind, ok := ParseEmplacementKind(name)
		if !ok {
			return fmt.Errorf("unknown emplacement %q", name)
		}
		o := t.Emplacements[name]
		def := &c.emplacements[kind]
		if len(o.Levels) > len(def.Levels) {
			return fmt.Errorf("emplacement %q: %d levels, max %d", name, len(o.Levels), len(def.Levels))
		}
		for i := range o.Levels {
			o.Levels[i].applyTo(&def.Levels[i])
		}
		if o.BranchA != nil {
			o.BranchA.applyTo(&def.Branches[0])
		}
		if o.BranchB != nil {
			o.BranchB.applyTo(&def.Branches[1])
		}
	}
	for _, name := range sortedKeys(t.Waves) {
		kind, ok := ParseHostileKind(name)
		if !ok {
			return fmt.Errorf("unknown wave archetype %q", name)
		}
		idx := -1
		for i, u := range c.unlocks {
			if u.Kind == kind {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("archetype %q is not part of the wave pool", name)
		}
		o := t.Waves[name]
		setInt(&c.unlocks[idx].Wave, o.UnlockWave)
		setInt(&c.unlocks[idx].BaseCount, o.BaseCount)
		setFloat(&c.unlocks[idx].BaseSpacing, o.BaseSpacing)
	}
	return nil
}

func (o TierOverride) applyTo(s *TierStats) {
	setInt(&s.Cost, o.Cost)
	setFloat(&s.BuildTime, o.BuildTime)
	setFloat(&s.Damage, o.Damage)
	setFloat(&s.FireRate, o.FireRate)
	setFloat(&s.Range, o.Range)
	setFloat(&s.HP, o.HP)
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
