package game

// ChargeWeapon tracks the charge of a sustained-charge shell launcher.
// ChargeRatio only grows while Charging and always stays within [0, 1].
type ChargeWeapon struct {
	ChargeRatio    float64 `json:"chargeRatio" msgpack:"charge"`
	Charging       bool    `json:"charging" msgpack:"charging"`
	MinLaunchForce float64 `json:"-" msgpack:"-"`
	MaxLaunchForce float64 `json:"-" msgpack:"-"`
	MaxChargeTime  float64 `json:"-" msgpack:"-"`

	// Cooldown is the time left before a new charge may begin
	Cooldown     float64 `json:"cooldown" msgpack:"cooldown"`
	ShotCooldown float64 `json:"-" msgpack:"-"`
}

// NewChargeWeapon builds the weapon state for a charged-attack class.
func NewChargeWeapon(stats UnitStats) *ChargeWeapon {
	return &ChargeWeapon{
		MinLaunchForce: stats.MinLaunchForce,
		MaxLaunchForce: stats.MaxLaunchForce,
		MaxChargeTime:  stats.MaxChargeTime,
		ShotCooldown:   stats.ShotCooldown,
	}
}

// Ready reports whether a new charge may begin.
func (w *ChargeWeapon) Ready() bool {
	return !w.Charging && w.Cooldown <= 0
}

// StartCharging begins a charge from zero. It is a no-op while already
// charging or cooling down and reports whether a charge started.
func (w *ChargeWeapon) StartCharging() bool {
	if !w.Ready() {
		return false
	}
	w.Charging = true
	w.ChargeRatio = 0
	return true
}

// Advance grows the charge and burns down the cooldown by dt seconds.
func (w *ChargeWeapon) Advance(dt float64) {
	if w.Cooldown > 0 {
		w.Cooldown -= dt
		if w.Cooldown < 0 {
			w.Cooldown = 0
		}
	}
	if !w.Charging {
		return
	}
	if w.MaxChargeTime <= 0 {
		w.ChargeRatio = 1
		return
	}
	w.ChargeRatio = Clamp01(w.ChargeRatio + dt/w.MaxChargeTime)
}

// Release ends the charge and returns the launch force for the ratio reached.
// The second result is false when the weapon was not charging.
func (w *ChargeWeapon) Release() (float64, bool) {
	if !w.Charging {
		return 0, false
	}
	force := LaunchSpeed(w, w.ChargeRatio)
	w.Charging = false
	w.ChargeRatio = 0
	w.Cooldown = w.ShotCooldown
	return force, true
}

// Cancel drops an in-progress charge without firing.
func (w *ChargeWeapon) Cancel() {
	w.Charging = false
	w.ChargeRatio = 0
}
