package game

import "errors"

// Missing dependencies: a collaborator was absent when a unit was wired up.
var (
	ErrNoWeaponMount = errors.New("weapon mount missing")
	ErrNoWeapon      = errors.New("weapon missing")
	ErrNoNavigator   = errors.New("navigator missing")
)

// Computation failures
var (
	ErrNoPath = errors.New("no path")
)

// ErrWeaponCooling is returned when a charge is requested before the shot
// cooldown has elapsed
var ErrWeaponCooling = errors.New("weapon cooling down")

// Stale references: the unit behind an id is gone or dead.
var (
	ErrStaleTarget = errors.New("target no longer valid")
)

// IsMissingDependency reports whether err stems from wiring a unit without
// one of its collaborators.
func IsMissingDependency(err error) bool {
	return errors.Is(err, ErrNoWeaponMount) ||
		errors.Is(err, ErrNoWeapon) ||
		errors.Is(err, ErrNoNavigator)
}

// IsStale reports whether err means a referenced unit no longer exists.
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleTarget)
}
