package component

import (
	"go-lane-defense/internal/defs"
	"go-lane-defense/pkg/utils"
)

// Construction is the pending effect of an in-progress job. A nil job on an
// emplacement means it is idle.
type Construction interface {
	construction()
}

type Building struct{}

type Upgrading struct {
	Cost int
}

type Branching struct {
	Key  defs.BranchKey
	Cost int
}

type Repairing struct {
	Cost int
}

type Shielding struct {
	Cost int
}

func (Building) construction()  {}
func (Upgrading) construction() {}
func (Branching) construction() {}
func (Repairing) construction() {}
func (Shielding) construction() {}

// ConstructionJob times one construction state.
type ConstructionJob struct {
	Kind     Construction
	Elapsed  float64
	Duration float64
}

// Progress is the completed fraction in [0, 1].
func (j *ConstructionJob) Progress() float64 {
	if j == nil {
		return 0
	}
	return utils.Clamp(utils.SafeDiv(j.Elapsed, j.Duration, 1), 0, 1)
}

// Done reports whether the job has run its full duration.
func (j *ConstructionJob) Done() bool {
	return j.Elapsed >= j.Duration
}

// AllowsActiveFire reports whether the job's state may fire at reduced rate
// when active construction is researched.
func (j *ConstructionJob) AllowsActiveFire() bool {
	switch j.Kind.(type) {
	case Building, Upgrading, Branching:
		return true
	}
	return false
}

// ConstructionName is the state label used in snapshots and events.
func ConstructionName(j *ConstructionJob) string {
	if j == nil {
		return "idle"
	}
	switch j.Kind.(type) {
	case Building:
		return "building"
	case Upgrading:
		return "upgrading"
	case Branching:
		return "branching"
	case Repairing:
		return "repairing"
	case Shielding:
		return "shielding"
	}
	return "unknown"
}
