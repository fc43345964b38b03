package component

import "fmt"

// InvariantViolation is a programming defect: a state the action API is
// supposed to make unreachable. It is raised with panic, never returned.
type InvariantViolation struct {
	What string
}

func (e InvariantViolation) Error() string {
	return "invariant violated: " + e.What
}

// MustHold panics with an InvariantViolation when cond is false.
func MustHold(cond bool, format string, args ...any) {
	if !cond {
		panic(InvariantViolation{What: fmt.Sprintf(format, args...)})
	}
}
