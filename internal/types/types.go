// internal/types/types.go
package types

// EntityID identifies any simulated entity: hostile units, emplacements,
// projectiles and siege shots share one counter so IDs never collide.
type EntityID uint64
