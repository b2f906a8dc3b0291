package server

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/nav"
)

// NewController wires a controller to its unit. Missing collaborators are
// logged and replaced with conservative defaults so the unit still acts.
func NewController(u *game.Unit, deps ControllerDeps) (*Controller, error) {
	if u == nil {
		return nil, errors.New("new controller: nil unit")
	}

	stats, ok := game.StatsFor(u.Class)
	if !ok {
		return nil, fmt.Errorf("new controller: unit %d has unknown class %d", u.ID, u.Class)
	}
	if deps.Stats != nil {
		stats = *deps.Stats
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("unit", u.ID, "class", stats.Name)

	c := &Controller{
		unit:    u,
		body:    u,
		stats:   stats,
		nav:     deps.Navigator,
		effects: deps.Effects,
		logger:  logger,
		rng:     deps.Rand,
		strike:  deps.Strike,
		state:   StateIdle,
	}

	if c.nav == nil {
		logger.Warn("no navigator wired, using open field", "error", game.ErrNoNavigator)
		c.nav = nav.OpenField{}
	}
	if c.effects == nil {
		c.effects = game.Discard
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(int64(u.ID)))
	}
	if c.strike == nil {
		c.strike = func(_, target *game.Unit, amount float64) { target.ApplyDamage(amount) }
	}

	c.reacquireInterval = randomReacquireInterval(c.rng, stats.ReacquireMin, stats.ReacquireMax)
	c.reacquireTimer = c.reacquireInterval

	c.maxShootingDistance = stats.AttackRange
	if stats.Attack == game.AttackCharged {
		d, err := game.MaxShootingDistance(u, stats.AttackRange)
		if err != nil {
			logger.Warn("using attack range as max shooting distance", "range", d, "error", err)
		}
		c.maxShootingDistance = d
	}
	c.effectiveRange = game.EffectiveRange(c.maxShootingDistance, stats.AttackRange)

	u.OnDeath(func(*game.Unit) { c.deactivate() })

	logger.Debug("controller ready",
		"reacquire", c.reacquireInterval,
		"range", c.effectiveRange)
	return c, nil
}

// Unit returns the controlled unit
func (c *Controller) Unit() *game.Unit { return c.unit }

// State returns the current state machine mode
func (c *Controller) State() ControllerState { return c.state }

// Lock returns a copy of the current target lock
func (c *Controller) Lock() (TargetLock, bool) {
	if c.lock == nil {
		return TargetLock{}, false
	}
	return *c.lock, true
}

// Moving reports whether the controller is requesting forward movement
func (c *Controller) Moving() bool { return c.moving }

// Active reports whether the controller still makes decisions
func (c *Controller) Active() bool { return c.state != StateDead }

// DecisionTick runs the state machine once. It is called every rendered
// frame with that frame's elapsed time.
func (c *Controller) DecisionTick(dt float64, view UnitView) {
	if c.state == StateDead {
		return
	}
	if !c.unit.IsAlive() {
		c.deactivate()
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("decision tick panicked, dropping target", "panic", r)
			c.loseTarget()
		}
	}()

	c.justFired = false
	if c.attackCooldown > 0 {
		c.attackCooldown -= dt
	}

	switch c.state {
	case StateIdle, StateSeek:
		c.reacquireTimer += dt
		if c.reacquireTimer >= c.reacquireInterval {
			c.reacquireTimer = 0
			c.reacquire(view)
		}
		if c.state == StateSeek {
			c.seek(dt, view)
		}
	case StateFlee:
		c.flee(dt, view)
	}
}

// deactivate stops all decision making once the owner is dead
func (c *Controller) deactivate() {
	if c.state == StateDead {
		return
	}
	c.state = StateDead
	c.lock = nil
	c.path = nil
	c.moving = false
	c.logger.Debug("controller deactivated")
}

// loseTarget drops the lock and falls back to patrolling
func (c *Controller) loseTarget() {
	if c.lock != nil {
		c.logger.Debug("lost target", "target", c.lock.TargetID)
	}
	c.lock = nil
	c.path = nil
	c.moving = false
	if c.unit.Weapon != nil {
		c.unit.Weapon.Cancel()
	}
	if c.state != StateDead {
		c.state = StateIdle
	}
}
