package game

import "time"

// Simulation constants
const (
	// Gravity pulls shells down along the vertical axis (units/s²)
	Gravity = 9.81

	// Tick rates for the two simulation callbacks
	DecisionRate     = 30 // decision ticks per second (variable in practice)
	PhysicsRate      = 50 // physics ticks per second (fixed)
	DecisionInterval = time.Second / DecisionRate
	PhysicsInterval  = time.Second / PhysicsRate

	// SplashMargin lets a shot go slightly short because shells deal area damage
	SplashMargin = 2.0

	// WaypointRadius is how close a unit must get to a waypoint before moving on
	WaypointRadius = 0.5

	// MoveEpsilon is the displacement below which a target counts as stationary
	MoveEpsilon = 0.0001
)

// Team identifies which side a unit fights for
type Team int

const (
	TeamNone Team = iota
	TeamDefender
	TeamHostile
)

func (t Team) String() string {
	switch t {
	case TeamDefender:
		return "defender"
	case TeamHostile:
		return "hostile"
	}
	return "none"
}

// Opponent returns the team this team attacks
func (t Team) Opponent() Team {
	switch t {
	case TeamDefender:
		return TeamHostile
	case TeamHostile:
		return TeamDefender
	}
	return TeamNone
}

// Unit status
const (
	StatusAlive   = 1
	StatusDead    = 2 // dead, waiting out the removal grace delay
	StatusRemoved = 3
)

// UnitClass selects a capability profile from UnitData
type UnitClass int

const (
	ClassTank UnitClass = iota
	ClassShooter
	ClassBrawler
)

func (c UnitClass) String() string {
	if s, ok := UnitData[c]; ok {
		return s.Name
	}
	return "unknown"
}

// AttackKind tags how a class deals damage
type AttackKind int

const (
	AttackCharged AttackKind = iota // charge a shell, then release
	AttackMelee                     // direct hit within attack range
)

// UnitStats holds the capability descriptor for each unit class
type UnitStats struct {
	Name   string
	Team   Team
	Attack AttackKind

	MaxHealth   float64
	RemoveDelay float64 // seconds between death and removal

	MoveSpeed float64 // units per second
	TurnRate  float64 // radians per second

	// Movement gating. A unit only translates while the dot product of its
	// forward vector and the direction to its waypoint exceeds MoveAlignment.
	// ScaleByAlignment multiplies speed by clamp01(dot) as tanks do.
	MoveAlignment    float64
	ScaleByAlignment bool

	DetectionRange float64
	AttackRange    float64
	AimThreshold   float64 // min dot product before a shot is released

	// Weapon
	MaxDamage       float64
	ExplosionRadius float64
	MinLaunchForce  float64
	MaxLaunchForce  float64
	MaxChargeTime   float64
	ShotCooldown    float64
	Mount           *WeaponMount

	// Behaviour timing
	ReacquireMin  float64
	ReacquireMax  float64
	FleeThreshold float64 // stationary-target time that triggers a flee after firing
	FleeDistMin   float64
	FleeDistMax   float64
	PatrolRadius  float64
	CanFlee       bool
}

// DefaultMount is the turret placement shared by tanks and shooter aliens:
// 1.7 up, 1.35 forward, tilted 10 degrees above horizontal.
var DefaultMount = WeaponMount{Height: 1.7, Forward: 1.35, Pitch: Deg(10)}

// UnitData contains the stats for every unit class
var UnitData = map[UnitClass]UnitStats{
	ClassTank: {
		Name:             "Tank",
		Team:             TeamDefender,
		Attack:           AttackCharged,
		MaxHealth:        100,
		RemoveDelay:      1.0,
		MoveSpeed:        12,
		TurnRate:         Deg(180),
		MoveAlignment:    0,
		ScaleByAlignment: true,
		DetectionRange:   60,
		AttackRange:      60,
		AimThreshold:     0.99,
		MaxDamage:        100,
		ExplosionRadius:  5,
		MinLaunchForce:   15,
		MaxLaunchForce:   30,
		MaxChargeTime:    0.75,
		ShotCooldown:     2.0,
		Mount:            &DefaultMount,
		ReacquireMin:     0.3,
		ReacquireMax:     0.6,
		FleeThreshold:    2.0,
		FleeDistMin:      5,
		FleeDistMax:      20,
		PatrolRadius:     15,
		CanFlee:          true,
	},
	ClassShooter: {
		Name:            "Shooter",
		Team:            TeamHostile,
		Attack:          AttackCharged,
		MaxHealth:       100,
		RemoveDelay:     0.5,
		MoveSpeed:       5,
		TurnRate:        Deg(2 * 180),
		MoveAlignment:   0.5,
		DetectionRange:  30,
		AttackRange:     20,
		AimThreshold:    0.95,
		MaxDamage:       30,
		ExplosionRadius: 5,
		MinLaunchForce:  10,
		MaxLaunchForce:  25,
		MaxChargeTime:   0.75,
		ShotCooldown:    1.5,
		Mount:           &DefaultMount,
		ReacquireMin:    0.5,
		ReacquireMax:    1.0,
		FleeThreshold:   2.0,
		FleeDistMin:     5,
		FleeDistMax:     20,
		PatrolRadius:    15,
	},
	ClassBrawler: {
		Name:           "Brawler",
		Team:           TeamHostile,
		Attack:         AttackMelee,
		MaxHealth:      100,
		RemoveDelay:    0.5,
		MoveSpeed:      3.5,
		TurnRate:       Deg(2 * 180),
		MoveAlignment:  0.5,
		DetectionRange: 30,
		AttackRange:    5,
		AimThreshold:   0.5,
		MaxDamage:      25,
		ShotCooldown:   2.0,
		ReacquireMin:   0.5,
		ReacquireMax:   1.0,
		PatrolRadius:   15,
	},
}

// StatsFor returns a copy of the stats for class, and false for an unknown class.
func StatsFor(class UnitClass) (UnitStats, bool) {
	s, ok := UnitData[class]
	return s, ok
}
