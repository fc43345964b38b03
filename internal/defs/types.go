// internal/defs/types.go
package defs

import (
	"fmt"
	"strings"
)

// HostileKind is the fixed set of hostile archetypes.
type HostileKind int

const (
	Grunt HostileKind = iota
	Runner
	Brute
	Dasher
	Phase
	Splitter
	Spawnling
	Mender
	Siege
	Boss
	UltraBoss
	hostileKindCount
)

var hostileNames = [...]string{
	Grunt:     "grunt",
	Runner:    "runner",
	Brute:     "brute",
	Dasher:    "dasher",
	Phase:     "phase",
	Splitter:  "splitter",
	Spawnling: "spawnling",
	Mender:    "mender",
	Siege:     "siege",
	Boss:      "boss",
	UltraBoss: "ultra_boss",
}

func (k HostileKind) String() string {
	if k < 0 || k >= hostileKindCount {
		return "unknown"
	}
	return hostileNames[k]
}

// IsBoss reports whether the archetype is appended after the shuffled part
// of a wave.
func (k HostileKind) IsBoss() bool {
	return k == Boss || k == UltraBoss
}

// ParseHostileKind resolves a name produced by String.
func ParseHostileKind(s string) (HostileKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range hostileNames {
		if name == s {
			return HostileKind(k), true
		}
	}
	return 0, false
}

func (k HostileKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *HostileKind) UnmarshalText(b []byte) error {
	v, ok := ParseHostileKind(string(b))
	if !ok {
		return fmt.Errorf("unknown hostile kind %q", b)
	}
	*k = v
	return nil
}

// HostileKinds lists every archetype in declaration order.
func HostileKinds() []HostileKind {
	out := make([]HostileKind, 0, hostileKindCount)
	for k := Grunt; k < hostileKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// EmplacementKind is the fixed set of emplacement archetypes.
type EmplacementKind int

const (
	Blaster EmplacementKind = iota
	Lancer
	Arc
	Frost
	Quake
	Generator
	emplacementKindCount
)

var emplacementNames = [...]string{
	Blaster:   "blaster",
	Lancer:    "lancer",
	Arc:       "arc",
	Frost:     "frost",
	Quake:     "quake",
	Generator: "generator",
}

func (k EmplacementKind) String() string {
	if k < 0 || k >= emplacementKindCount {
		return "unknown"
	}
	return emplacementNames[k]
}

// ParseEmplacementKind resolves a name produced by String.
func ParseEmplacementKind(s string) (EmplacementKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range emplacementNames {
		if name == s {
			return EmplacementKind(k), true
		}
	}
	return 0, false
}

func (k EmplacementKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EmplacementKind) UnmarshalText(b []byte) error {
	v, ok := ParseEmplacementKind(string(b))
	if !ok {
		return fmt.Errorf("unknown emplacement kind %q", b)
	}
	*k = v
	return nil
}

// EmplacementKinds lists every archetype in declaration order.
func EmplacementKinds() []EmplacementKind {
	out := make([]EmplacementKind, 0, emplacementKindCount)
	for k := Blaster; k < emplacementKindCount; k++ {
		out = append(out, k)
	}
	return out
}

// BranchKey selects one of the two terminal specialisations.
type BranchKey int

const (
	BranchA BranchKey = iota + 1
	BranchB
)

func (b BranchKey) String() string {
	switch b {
	case BranchA:
		return "A"
	case BranchB:
		return "B"
	}
	return "?"
}

// Valid reports whether b names a real branch.
func (b BranchKey) Valid() bool {
	return b == BranchA || b == BranchB
}

// MaxLevel is the last level before a branch may be chosen.
const MaxLevel = 2
