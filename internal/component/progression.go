package component

import "go-lane-defense/internal/defs"

// Progression is either a Level or a Branch, never both. A Branch is
// terminal.
type Progression interface {
	progression()
}

// Level is the upgrade level, 0 through defs.MaxLevel.
type Level int

// Branch is a terminal specialisation chosen at max level.
type Branch struct {
	Key defs.BranchKey
}

func (Level) progression()  {}
func (Branch) progression() {}

// TierFor resolves the stats a progression selects from def.
func TierFor(def *defs.EmplacementDefinition, p Progression) defs.TierStats {
	switch p := p.(type) {
	case Branch:
		return def.Branch(p.Key)
	case Level:
		MustHold(p >= 0 && int(p) <= defs.MaxLevel, "level %d out of range", int(p))
		return def.Levels[p]
	}
	MustHold(false, "unknown progression %T", p)
	return defs.TierStats{}
}

// CanUpgrade reports whether p can move to the next level.
func CanUpgrade(p Progression) bool {
	l, ok := p.(Level)
	return ok && int(l) < defs.MaxLevel
}

// CanBranch reports whether p is at max level and not yet branched.
func CanBranch(p Progression) bool {
	l, ok := p.(Level)
	return ok && int(l) == defs.MaxLevel
}
