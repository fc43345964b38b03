// internal/defs/waves.go
package defs

// WaveUnlock describes when an archetype joins the wave pool and how it is
// released once picked.
type WaveUnlock struct {
	Kind        HostileKind
	Wave        int     // first wave the archetype may appear in
	BaseCount   int     // count at wave 1 before scaling
	BaseSpacing float64 // seconds between spawns before the per-wave reduction
}

// Unlock order matters: an entry's index+1 is its subset weight.
func defaultWaveUnlocks() []WaveUnlock {
	return []WaveUnlock{
		{Kind: Grunt, Wave: 1, BaseCount: 8, BaseSpacing: 0.9},
		{Kind: Runner, Wave: 2, BaseCount: 6, BaseSpacing: 0.6},
		{Kind: Brute, Wave: 4, BaseCount: 4, BaseSpacing: 1.4},
		{Kind: Dasher, Wave: 6, BaseCount: 5, BaseSpacing: 1.0},
		{Kind: Phase, Wave: 8, BaseCount: 4, BaseSpacing: 1.1},
		{Kind: Splitter, Wave: 10, BaseCount: 3, BaseSpacing: 1.5},
		{Kind: Mender, Wave: 12, BaseCount: 2, BaseSpacing: 1.8},
		{Kind: Siege, Wave: 15, BaseCount: 2, BaseSpacing: 2.0},
	}
}
