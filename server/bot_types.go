package server

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/nav"
)

// ControllerState is the targeting state machine's current mode
type ControllerState int

const (
	StateIdle ControllerState = iota // no target, patrolling
	StateSeek                        // closing in on or engaging a target
	StateFlee                        // moving away after firing at a stationary target
	StateDead                        // owner died, controller deactivated
)

func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSeek:
		return "seek"
	case StateFlee:
		return "flee"
	case StateDead:
		return "dead"
	}
	return "unknown"
}

// TargetLock is a weak reference to the unit a controller is pursuing.
// The target is looked up by id every tick and never held directly.
type TargetLock struct {
	TargetID             int
	LastKnownPos         game.Vec2
	TimeSinceTargetMoved float64
}

// UnitView is the read-only slice of the world a controller needs.
type UnitView interface {
	// Nearby returns live units of team within radius of pos, ordered by id.
	Nearby(pos game.Vec2, radius float64, team game.Team) []*game.Unit
	// Resolve returns the live unit with id, or game.ErrStaleTarget.
	Resolve(id int) (*game.Unit, error)
}

// StrikeFunc delivers a melee hit from attacker to target.
type StrikeFunc func(attacker, target *game.Unit, amount float64)

// ControllerDeps are the collaborators wired into a controller at
// construction time.
type ControllerDeps struct {
	Navigator nav.Navigator
	Effects   game.EffectSink
	Logger    *log.Logger
	Rand      *rand.Rand
	Strike    StrikeFunc

	// Stats overrides the class profile when set (wave tuning).
	Stats *game.UnitStats
}

// Controller drives one unit: it picks targets, steers the unit toward or
// away from them and decides when to charge and release its weapon.
type Controller struct {
	unit    *game.Unit
	body    game.Body
	stats   game.UnitStats
	nav     nav.Navigator
	effects game.EffectSink
	logger  *log.Logger
	rng     *rand.Rand
	strike  StrikeFunc

	state  ControllerState
	lock   *TargetLock
	path   *nav.Path
	moving bool

	reacquireInterval float64
	reacquireTimer    float64

	maxShootingDistance float64
	effectiveRange      float64
	predictionWarned    bool

	attackCooldown float64 // melee only
	justFired      bool
}
