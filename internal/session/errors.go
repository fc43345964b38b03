package session

import (
	"errors"
	"fmt"
)

// Reason classifies a rejected action.
type Reason int

const (
	ReasonInsufficientFunds Reason = iota + 1
	ReasonInvalidPlacement
	ReasonUnmetPrerequisite
	ReasonAlreadyInProgress
	ReasonNotFound
	ReasonGameOver
)

func (r Reason) String() string {
	switch r {
	case ReasonInsufficientFunds:
		return "insufficient funds"
	case ReasonInvalidPlacement:
		return "invalid placement"
	case ReasonUnmetPrerequisite:
		return "unmet prerequisite"
	case ReasonAlreadyInProgress:
		return "already in progress"
	case ReasonNotFound:
		return "not found"
	case ReasonGameOver:
		return "game over"
	}
	return "unknown"
}

// InvalidAction is a player action rejected before it changed any state.
type InvalidAction struct {
	Action ActionKind
	Reason Reason
	Detail string
}

func (e *InvalidAction) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s rejected: %s", e.Action, e.Reason)
	}
	return fmt.Sprintf("%s rejected: %s: %s", e.Action, e.Reason, e.Detail)
}

func reject(action ActionKind, reason Reason, format string, args ...interface{}) error {
	return &InvalidAction{Action: action, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, or 0 when err is not an
// InvalidAction.
func ReasonOf(err error) Reason {
	var ia *InvalidAction
	if errors.As(err, &ia) {
		return ia.Reason
	}
	return 0
}
