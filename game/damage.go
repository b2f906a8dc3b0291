package game

// ApplyDamage reduces health by amount, clamped at zero. Non-positive amounts
// and damage to a unit that is already dead are ignored.
// Returns true only on the call that kills the unit; the death transition
// runs exactly once.
func (u *Unit) ApplyDamage(amount float64) bool {
	if u == nil || amount <= 0 || u.Status != StatusAlive {
		return false
	}

	u.Health -= amount
	if u.Health > 0 {
		return false
	}

	u.Health = 0
	u.die()
	return true
}

// die marks the unit dead, drops any charge in progress, notifies death
// listeners and starts the removal grace timer.
func (u *Unit) die() {
	u.Status = StatusDead
	u.removeTimer = u.removeDelay
	if u.Weapon != nil {
		u.Weapon.Cancel()
	}
	for _, fn := range u.deathFns {
		fn(u)
	}
}

// SplashDamage returns the damage a shell deals at dist from its impact
// point. Damage falls off linearly to zero at the edge of the blast radius.
func SplashDamage(maxDamage, radius, dist float64) float64 {
	if radius <= 0 || dist >= radius {
		return 0
	}
	if dist < 0 {
		dist = 0
	}
	return maxDamage * (radius - dist) / radius
}
