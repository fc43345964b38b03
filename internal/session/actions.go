package session

import (
	"errors"
	"fmt"
	"math"

	"go-lane-defense/internal/component"
	"go-lane-defense/internal/config"
	"go-lane-defense/internal/defs"
	"go-lane-defense/internal/event"
	"go-lane-defense/internal/research"
	"go-lane-defense/internal/system"
	"go-lane-defense/internal/types"
	"go-lane-defense/internal/utils"
	"go-lane-defense/pkg/gridmap"
	mathutil "go-lane-defense/pkg/utils"
)

// ActionKind names a player action.
type ActionKind int

const (
	ActionPlace ActionKind = iota + 1
	ActionSelect
	ActionUpgrade
	ActionBranch
	ActionRepair
	ActionShield
	ActionAim
	ActionSell
	ActionResearch
	ActionSendEarly
	ActionBuff
	ActionSpeed
)

var actionNames = map[ActionKind]string{
	ActionPlace:     "place",
	ActionSelect:    "select",
	ActionUpgrade:   "upgrade",
	ActionBranch:    "branch",
	ActionRepair:    "repair",
	ActionShield:    "shield",
	ActionAim:       "aim",
	ActionSell:      "sell",
	ActionResearch:  "research",
	ActionSendEarly: "send_early",
	ActionBuff:      "buff",
	ActionSpeed:     "speed",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k ActionKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKind) UnmarshalText(b []byte) error {
	for kind, name := range actionNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", b)
}

// Action is one queued player command. Only the fields its Kind uses are
// read.
type Action struct {
	Kind        ActionKind           `json:"kind"`
	Emplacement types.EntityID       `json:"emplacement,omitempty"`
	Archetype   defs.EmplacementKind `json:"archetype,omitempty"`
	Cell        gridmap.Cell         `json:"cell"`
	Branch      defs.BranchKey       `json:"branch,omitempty"`
	Angle       float64              `json:"angle,omitempty"`
	Node        string               `json:"node,omitempty"`
	// Speed is the playback multiplier for ActionSpeed; zero cycles.
	Speed float64 `json:"speed,omitempty"`
}

// ActionResult is the outcome of one Action. Emplacement is the new ID for a
// placement; Money is the amount refunded or rewarded, when any.
type ActionResult struct {
	Action      Action
	Emplacement types.EntityID
	Money       int
	Err         error
}

// Apply runs a queued action through the matching API method.
func (s *Session) Apply(a Action) ActionResult {
	r := ActionResult{Action: a}
	switch a.Kind {
	case ActionPlace:
		r.Emplacement, r.Err = s.PlaceEmplacement(a.Archetype, a.Cell)
	case ActionSelect:
		r.Err = s.SelectEmplacement(a.Emplacement)
	case ActionUpgrade:
		r.Err = s.Upgrade(a.Emplacement)
	case ActionBranch:
		r.Err = s.Branch(a.Emplacement, a.Branch)
	case ActionRepair:
		r.Err = s.Repair(a.Emplacement)
	case ActionShield:
		r.Err = s.BuyShield(a.Emplacement)
	case ActionAim:
		r.Err = s.SetAimAngle(a.Emplacement, a.Angle)
	case ActionSell:
		r.Money, r.Err = s.Sell(a.Emplacement)
	case ActionResearch:
		r.Err = s.BuyResearch(a.Node)
	case ActionSendEarly:
		r.Money, r.Err = s.SendWaveEarly()
	case ActionBuff:
		r.Err = s.BuffEmplacement(a.Emplacement)
	case ActionSpeed:
		if a.Speed == 0 {
			s.CycleSpeed()
		} else {
			r.Err = s.SetSpeed(a.Speed)
		}
	default:
		r.Err = fmt.Errorf("unknown action kind %d", a.Kind)
	}
	return r
}

// PlaceEmplacement builds a new level-0 emplacement on cell.
func (s *Session) PlaceEmplacement(kind defs.EmplacementKind, cell gridmap.Cell) (types.EntityID, error) {
	if s.over {
		return 0, reject(ActionPlace, ReasonGameOver, "")
	}
	def := s.Catalog.Emplacement(kind)
	if def == nil {
		return 0, reject(ActionPlace, ReasonNotFound, "archetype %d", kind)
	}
	if !s.Grid.Buildable(cell) {
		return 0, reject(ActionPlace, ReasonInvalidPlacement, "cell %v is not buildable", cell)
	}
	if _, taken := s.ECS.EmplacementAt(cell); taken {
		return 0, reject(ActionPlace, ReasonInvalidPlacement, "cell %v is occupied", cell)
	}
	cost := def.Levels[0].Cost
	if !s.Economy.Spend(cost) {
		return 0, reject(ActionPlace, ReasonInsufficientFunds, "%s costs %d, have %d", kind, cost, s.Economy.Money)
	}

	e := component.NewEmplacement(s.ECS.NewEntity(), def, cell, cost, s.Modifiers().Fortification)
	s.ECS.AddEmplacement(e)
	s.Power.MarkDirty()
	s.moneyChanged(-cost)
	return e.ID, nil
}

// SelectEmplacement marks id as the player's selection. Zero clears it.
func (s *Session) SelectEmplacement(id types.EntityID) error {
	if id == 0 {
		s.selected = 0
		return nil
	}
	if _, ok := s.ECS.Emplacement(id); !ok {
		return reject(ActionSelect, ReasonNotFound, "emplacement %d", id)
	}
	s.selected = id
	return nil
}

// Upgrade starts the next level of id.
func (s *Session) Upgrade(id types.EntityID) error {
	e, err := s.idleEmplacement(ActionUpgrade, id)
	if err != nil {
		return err
	}
	if !component.CanUpgrade(e.Progression) {
		return reject(ActionUpgrade, ReasonUnmetPrerequisite, "emplacement %d cannot level further", id)
	}
	level, _ := e.Level()
	next := e.Def().Levels[level+1]
	if err := s.pay(ActionUpgrade, e, next.Cost); err != nil {
		return err
	}
	e.StartJob(component.Upgrading{Cost: next.Cost}, next.BuildTime)
	return nil
}

// Branch starts the terminal specialisation key on a max-level emplacement.
func (s *Session) Branch(id types.EntityID, key defs.BranchKey) error {
	e, err := s.idleEmplacement(ActionBranch, id)
	if err != nil {
		return err
	}
	if !key.Valid() {
		return reject(ActionBranch, ReasonNotFound, "branch %d", key)
	}
	if !component.CanBranch(e.Progression) {
		return reject(ActionBranch, ReasonUnmetPrerequisite, "emplacement %d must reach level %d first", id, defs.MaxLevel)
	}
	tier := e.Def().Branch(key)
	if err := s.pay(ActionBranch, e, tier.Cost); err != nil {
		return err
	}
	e.StartJob(component.Branching{Key: key, Cost: tier.Cost}, tier.BuildTime)
	return nil
}

// Repair restores id to full hull HP.
func (s *Session) Repair(id types.EntityID) error {
	e, err := s.idleEmplacement(ActionRepair, id)
	if err != nil {
		return err
	}
	missing := e.MissingHPFraction()
	if missing <= 0 {
		return reject(ActionRepair, ReasonUnmetPrerequisite, "emplacement %d is undamaged", id)
	}
	cost := mathutil.CeilInt(float64(e.Invested) * config.RepairCostFraction * missing)
	if err := s.pay(ActionRepair, e, cost); err != nil {
		return err
	}
	e.StartJob(component.Repairing{Cost: cost}, config.RepairDuration)
	return nil
}

// BuyShield installs a fresh shield or recharges the one id has.
func (s *Session) BuyShield(id types.EntityID) error {
	e, err := s.idleEmplacement(ActionShield, id)
	if err != nil {
		return err
	}
	missing := e.MissingShieldFraction()
	if missing <= 0 {
		return reject(ActionShield, ReasonUnmetPrerequisite, "shield on %d is full", id)
	}
	cost := mathutil.CeilInt(float64(e.Invested) * config.ShieldCostFraction * missing)
	if err := s.pay(ActionShield, e, cost); err != nil {
		return err
	}
	e.StartJob(component.Shielding{Cost: cost}, config.ShieldDuration)
	return nil
}

// SetAimAngle points a fixed-direction emplacement along angle (radians).
func (s *Session) SetAimAngle(id types.EntityID, angle float64) error {
	if s.over {
		return reject(ActionAim, ReasonGameOver, "")
	}
	e, ok := s.ECS.Emplacement(id)
	if !ok {
		return reject(ActionAim, ReasonNotFound, "emplacement %d", id)
	}
	if !e.Def().FixedDirection {
		return reject(ActionAim, ReasonUnmetPrerequisite, "%s cannot be aimed", e.Kind)
	}
	a := utils.NormalizeAngle(angle)
	e.AimAngle = &a
	return nil
}

// Sell removes id and refunds part of everything paid into it.
func (s *Session) Sell(id types.EntityID) (int, error) {
	if s.over {
		return 0, reject(ActionSell, ReasonGameOver, "")
	}
	e, ok := s.ECS.Emplacement(id)
	if !ok {
		return 0, reject(ActionSell, ReasonNotFound, "emplacement %d", id)
	}
	refund := int(math.Floor(float64(e.Invested)*s.Modifiers().SellRefund + 1e-9))
	s.ECS.RemoveEmplacement(id)
	s.Power.MarkDirty()
	if s.selected == id {
		s.selected = 0
	}
	s.Economy.Earn(refund)
	s.moneyChanged(refund)
	return refund, nil
}

// BuyResearch spends research points on node.
func (s *Session) BuyResearch(node string) error {
	if s.over {
		return reject(ActionResearch, ReasonGameOver, "")
	}
	if err := s.Research.Buy(node); err != nil {
		reason := ReasonUnmetPrerequisite
		switch {
		case errors.Is(err, research.ErrUnknownNode):
			reason = ReasonNotFound
		case errors.Is(err, research.ErrOwned):
			reason = ReasonAlreadyInProgress
		case errors.Is(err, research.ErrInsufficientPoints):
			reason = ReasonInsufficientFunds
		}
		return &InvalidAction{Action: ActionResearch, Reason: reason, Detail: err.Error()}
	}
	s.em.Research(event.ResearchInfo{Node: node, Points: s.Research.Points})
	return nil
}

// SendWaveEarly cuts the countdown short and returns the reward paid.
func (s *Session) SendWaveEarly() (int, error) {
	if s.over {
		return 0, reject(ActionSendEarly, ReasonGameOver, "")
	}
	reward, err := s.Director.SendEarly(s.em)
	if errors.Is(err, system.ErrWaveInProgress) {
		return 0, reject(ActionSendEarly, ReasonAlreadyInProgress, "wave %d is running", s.Director.Wave)
	}
	return reward, err
}

// BuffEmplacement buys a timed damage buff for id.
func (s *Session) BuffEmplacement(id types.EntityID) error {
	if s.over {
		return reject(ActionBuff, ReasonGameOver, "")
	}
	e, ok := s.ECS.Emplacement(id)
	if !ok {
		return reject(ActionBuff, ReasonNotFound, "emplacement %d", id)
	}
	if e.IsSource() {
		return reject(ActionBuff, ReasonUnmetPrerequisite, "%s does not fire", e.Kind)
	}
	if e.Buffed() {
		return reject(ActionBuff, ReasonAlreadyInProgress, "buff on %d still active", id)
	}
	if !s.Economy.Spend(config.BuffCost) {
		return reject(ActionBuff, ReasonInsufficientFunds, "buff costs %d, have %d", config.BuffCost, s.Economy.Money)
	}
	e.BuffRemaining = config.BuffDuration
	s.moneyChanged(-config.BuffCost)
	return nil
}

// idleEmplacement looks up id for an action that starts a construction job.
func (s *Session) idleEmplacement(action ActionKind, id types.EntityID) (*component.Emplacement, error) {
	if s.over {
		return nil, reject(action, ReasonGameOver, "")
	}
	e, ok := s.ECS.Emplacement(id)
	if !ok {
		return nil, reject(action, ReasonNotFound, "emplacement %d", id)
	}
	if !e.Idle() {
		return nil, reject(action, ReasonAlreadyInProgress, "emplacement %d is %s", id, component.ConstructionName(e.Construction))
	}
	return e, nil
}

// pay charges cost for work on e and records it in e's ledger.
func (s *Session) pay(action ActionKind, e *component.Emplacement, cost int) error {
	if !s.Economy.Spend(cost) {
		return reject(action, ReasonInsufficientFunds, "costs %d, have %d", cost, s.Economy.Money)
	}
	e.Invested += cost
	s.moneyChanged(-cost)
	return nil
}

func (s *Session) moneyChanged(delta int) {
	s.em.Economy(event.EconomyInfo{Money: s.Economy.Money, Lives: s.Economy.Lives, Delta: delta})
}
