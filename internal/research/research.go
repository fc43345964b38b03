package research

import (
	"errors"
	"fmt"

	"go-lane-defense/internal/config"
)

var (
	ErrUnknownNode        = errors.New("unknown research node")
	ErrOwned              = errors.New("research node already owned")
	ErrPrerequisite       = errors.New("research prerequisite missing")
	ErrInsufficientPoints = errors.New("not enough research points")
)

// Modifiers are the global combat and economy adjustments derived from owned
// research. Multipliers start at 1, bonuses at 0.
type Modifiers struct {
	RangeMult    float64
	DamageMult   float64
	FireRateMult float64
	CritChance   float64

	// Control scales slow and vulnerability strength and duration.
	Control float64
	// CCBonus is extra damage against slowed targets.
	CCBonus float64

	FarBonus      float64
	FarThreshold  float64 // fraction of range
	NearBonus     float64
	NearThreshold float64

	ExecuteBonus     float64
	ExecuteThreshold float64 // fraction of max health

	Fortification       float64
	ActiveConstruction  bool
	PhaseBreaker        bool
	AreaRangeBonus      float64
	SellRefund          float64
	SourceCapacityBonus int
}

// Baseline is the modifier set with no research owned.
func Baseline() Modifiers {
	return Modifiers{
		RangeMult:    1,
		DamageMult:   1,
		FireRateMult: 1,
		SellRefund:   config.SellRefund,
	}
}

// State is the player's research progress.
type State struct {
	Points int
	owned  map[string]bool
}

func NewState() *State {
	return &State{owned: make(map[string]bool)}
}

// Owns reports whether id has been bought.
func (s *State) Owns(id string) bool {
	return s.owned[id]
}

// Owned lists owned node IDs in tree order.
func (s *State) Owned() []string {
	var out []string
	for _, n := range Nodes {
		if s.owned[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// Check reports why id cannot be bought, or nil.
func (s *State) Check(id string) error {
	node, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	if s.owned[id] {
		return fmt.Errorf("%w: %s", ErrOwned, id)
	}
	for _, req := range node.Requires {
		if !s.owned[req] {
			return fmt.Errorf("%w: %s needs %s", ErrPrerequisite, id, req)
		}
	}
	if s.Points < node.Cost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientPoints, id, node.Cost, s.Points)
	}
	return nil
}

// Buy spends points on id.
func (s *State) Buy(id string) error {
	if err := s.Check(id); err != nil {
		return err
	}
	node, _ := Lookup(id)
	s.Points -= node.Cost
	s.owned[id] = true
	return nil
}

// Derive folds every owned node into a Modifiers value. It does not touch s.
func Derive(s *State) Modifiers {
	m := Baseline()
	if s == nil {
		return m
	}
	for i := range Nodes {
		if s.owned[Nodes[i].ID] {
			Nodes[i].apply(&m)
		}
	}
	return m
}
