package component

// Economy is the player's money and remaining lives.
type Economy struct {
	Money int
	Lives int
}

// CanAfford reports whether cost can be paid.
func (e *Economy) CanAfford(cost int) bool {
	return cost >= 0 && e.Money >= cost
}

// Spend deducts cost when affordable.
func (e *Economy) Spend(cost int) bool {
	if !e.CanAfford(cost) {
		return false
	}
	e.Money -= cost
	return true
}

// Earn adds a non-negative amount.
func (e *Economy) Earn(amount int) {
	if amount > 0 {
		e.Money += amount
	}
}

// LoseLives removes lives, never going below zero, and reports whether the
// player is out.
func (e *Economy) LoseLives(n int) bool {
	if n > 0 {
		e.Lives -= n
		if e.Lives < 0 {
			e.Lives = 0
		}
	}
	return e.Lives <= 0
}
