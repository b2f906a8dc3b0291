package game

import (
	"fmt"
	"math"
)

// WeaponMount is where a shell leaves the unit, relative to the unit's
// position and facing.
type WeaponMount struct {
	Height  float64 // above ground
	Forward float64 // ahead of the unit's center
	Pitch   float64 // launch elevation in radians
}

// LaunchSpeed returns the shell speed for a charge ratio. Speed is linear in
// charge between the weapon's minimum and maximum launch force.
func LaunchSpeed(w *ChargeWeapon, ratio float64) float64 {
	return Lerp(w.MinLaunchForce, w.MaxLaunchForce, ratio)
}

// RangeAtSpeed returns the horizontal distance from the unit's center to
// where a shell launched at speed from mount hits the ground.
func RangeAtSpeed(mount WeaponMount, speed float64) float64 {
	if speed <= 0 {
		return mount.Forward
	}
	return mount.Forward + speed*math.Cos(mount.Pitch)*FlightTime(mount, speed)
}

// FlightTime returns how long a shell launched at speed stays in the air.
func FlightTime(mount WeaponMount, speed float64) float64 {
	vy := speed * math.Sin(mount.Pitch)
	h := math.Max(mount.Height, 0)
	return (vy + math.Sqrt(vy*vy+2*Gravity*h)) / Gravity
}

// PredictDistance estimates how far from the unit a shell fired now at the
// given charge ratio would land. It fails when the unit has no mount data.
func PredictDistance(mount *WeaponMount, w *ChargeWeapon, ratio float64) (float64, error) {
	if mount == nil {
		return 0, fmt.Errorf("predict landing: %w", ErrNoWeaponMount)
	}
	if w == nil {
		return 0, fmt.Errorf("predict landing: %w", ErrNoWeapon)
	}
	return RangeAtSpeed(*mount, LaunchSpeed(w, ratio)), nil
}

// PredictLanding returns the ground point a shell fired now would hit.
func PredictLanding(u *Unit, ratio float64) (Vec2, error) {
	d, err := PredictDistance(u.Mount, u.Weapon, ratio)
	if err != nil {
		return Vec2{}, err
	}
	return u.Pos.Add(HeadingVec(u.Dir).Scale(d)), nil
}

// MaxShootingDistance returns the full-charge reach of a unit. Units without
// mount data fall back to their attack range.
func MaxShootingDistance(u *Unit, attackRange float64) (float64, error) {
	d, err := PredictDistance(u.Mount, u.Weapon, 1)
	if err != nil {
		return attackRange, err
	}
	return d, nil
}

// EffectiveRange is the distance at which a unit stops closing in and fires.
func EffectiveRange(maxShooting, attackRange float64) float64 {
	return math.Min(maxShooting, attackRange)
}
