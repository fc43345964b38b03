// Package research holds the research tree and turns owned nodes into the
// global combat modifiers.
package research

// Node is one purchasable research upgrade.
type Node struct {
	ID       string
	Cost     int
	Requires []string
	apply    func(*Modifiers)
}

// Nodes is the research tree in display order. Prerequisites always appear
// before the nodes that need them.
var Nodes = []Node{
	{ID: "calibrated_optics", Cost: 1, apply: func(m *Modifiers) { m.RangeMult += 0.10 }},
	{ID: "hardened_rounds", Cost: 1, apply: func(m *Modifiers) { m.DamageMult += 0.10 }},
	{ID: "cryo_compounds", Cost: 1, apply: func(m *Modifiers) { m.Control += 0.25 }},
	{ID: "reinforced_plating", Cost: 1, apply: func(m *Modifiers) { m.Fortification += 0.25 }},
	{ID: "salvage_rights", Cost: 1, apply: func(m *Modifiers) { m.SellRefund = 0.85 }},
	{ID: "overclock", Cost: 2, Requires: []string{"hardened_rounds"}, apply: func(m *Modifiers) { m.FireRateMult += 0.10 }},
	{ID: "targeting_matrix", Cost: 2, Requires: []string{"calibrated_optics"}, apply: func(m *Modifiers) { m.CritChance += 0.10 }},
	{ID: "shatter_protocol", Cost: 2, Requires: []string{"cryo_compounds"}, apply: func(m *Modifiers) { m.CCBonus += 0.25 }},
	{ID: "long_range_doctrine", Cost: 2, Requires: []string{"calibrated_optics"}, apply: func(m *Modifiers) {
		m.FarBonus += 0.25
		m.FarThreshold = 0.7
	}},
	{ID: "point_defense", Cost: 2, Requires: []string{"hardened_rounds"}, apply: func(m *Modifiers) {
		m.NearBonus += 0.25
		m.NearThreshold = 0.35
	}},
	{ID: "seismic_lenses", Cost: 2, Requires: []string{"calibrated_optics"}, apply: func(m *Modifiers) { m.AreaRangeBonus += 0.15 }},
	{ID: "field_engineering", Cost: 2, Requires: []string{"reinforced_plating"}, apply: func(m *Modifiers) { m.ActiveConstruction = true }},
	{ID: "capacitor_banks", Cost: 2, Requires: []string{"reinforced_plating"}, apply: func(m *Modifiers) { m.SourceCapacityBonus += 2 }},
	{ID: "executioner", Cost: 3, Requires: []string{"targeting_matrix"}, apply: func(m *Modifiers) {
		m.ExecuteBonus += 0.5
		m.ExecuteThreshold = 0.2
	}},
	{ID: "phase_disruptor", Cost: 3, Requires: []string{"overclock"}, apply: func(m *Modifiers) { m.PhaseBreaker = true }},
}

// Lookup finds a node by ID.
func Lookup(id string) (*Node, bool) {
	for i := range Nodes {
		if Nodes[i].ID == id {
			return &Nodes[i], true
		}
	}
	return nil, false
}
