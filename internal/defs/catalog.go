// internal/defs/catalog.go
package defs

import "fmt"

// Catalog is the resolved set of archetype and wave tables a session runs
// against. It is built once and treated as read-only afterwards.
type Catalog struct {
	hostiles     [hostileKindCount]HostileDefinition
	emplacements [emplacementKindCount]EmplacementDefinition
	unlocks      []WaveUnlock

	StartMoney int
	StartLives int
}

// DefaultCatalog returns the built-in tables with no tuning applied.
func DefaultCatalog() *Catalog {
	c := &Catalog{
		unlocks:    defaultWaveUnlocks(),
		StartMoney: defaultStartMoney,
		StartLives: defaultStartLives,
	}
	for k, def := range defaultHostiles() {
		c.hostiles[k] = def
	}
	for k, def := range defaultEmplacements() {
		c.emplacements[k] = def
	}
	return c
}

// NewCatalog applies t on top of the defaults.
func NewCatalog(t Tuning) (*Catalog, error) {
	c := DefaultCatalog()
	if err := t.apply(c); err != nil {
		return nil, fmt.Errorf("apply tuning: %w", err)
	}
	return c, nil
}

// Hostile returns the definition for kind. The pointer must not be mutated.
func (c *Catalog) Hostile(kind HostileKind) *HostileDefinition {
	if kind < 0 || kind >= hostileKindCount {
		return nil
	}
	return &c.hostiles[kind]
}

// Emplacement returns the definition for kind. The pointer must not be mutated.
func (c *Catalog) Emplacement(kind EmplacementKind) *EmplacementDefinition {
	if kind < 0 || kind >= emplacementKindCount {
		return nil
	}
	return &c.emplacements[kind]
}

// WaveUnlocks returns the unlock table in unlock order.
func (c *Catalog) WaveUnlocks() []WaveUnlock {
	return c.unlocks
}

const (
	defaultStartMoney = 250
	defaultStartLives = 20
)
