package server

import (
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/nav"
)

// candidate is a potential target with the path that reaches it
type candidate struct {
	unit  *game.Unit
	path  []game.Vec2
	score float64
}

// selectTarget picks the opposing unit within detection range that is
// closest by path length. Units without a path are scored by straight-line
// distance. Equal scores keep the lowest id because candidates arrive in id
// order and only a strictly better score replaces the best.
func (c *Controller) selectTarget(view UnitView) *candidate {
	pos := c.unit.Pos
	units := view.Nearby(pos, c.stats.DetectionRange, c.unit.Team.Opponent())

	var best *candidate
	for _, u := range units {
		if u == c.unit || !u.IsAlive() {
			continue
		}
		score := pos.Dist(u.Pos)
		path, err := c.nav.ComputePath(pos, u.Pos)
		if err == nil && len(path) > 0 {
			score = nav.PathLength(pos, path)
		} else {
			path = nil
		}
		if best == nil || score < best.score {
			best = &candidate{unit: u, path: path, score: score}
		}
	}
	return best
}

// reacquire re-evaluates the target on the controller's cadence
func (c *Controller) reacquire(view UnitView) {
	best := c.selectTarget(view)
	if best == nil {
		if c.lock != nil {
			c.loseTarget()
		}
		c.state = StateIdle
		c.startPatrol()
		return
	}

	if c.lock == nil || c.lock.TargetID != best.unit.ID {
		c.lock = &TargetLock{
			TargetID:     best.unit.ID,
			LastKnownPos: best.unit.Pos,
		}
		c.logger.Debug("new target", "target", best.unit.ID, "distance", best.score)
	}

	waypoints := best.path
	if waypoints == nil {
		waypoints = []game.Vec2{best.unit.Pos}
	}
	c.path = nav.NewPath(waypoints)
	c.moving = true
	c.state = StateSeek
}

// seek tracks the locked target and engages it once in range
func (c *Controller) seek(dt float64, view UnitView) {
	if c.lock == nil {
		c.state = StateIdle
		return
	}
	target, err := view.Resolve(c.lock.TargetID)
	if err != nil || c.outOfRange(target) {
		c.loseTarget()
		return
	}

	if target.Pos.Dist(c.lock.LastKnownPos) < game.MoveEpsilon {
		c.lock.TimeSinceTargetMoved += dt
	} else {
		c.lock.TimeSinceTargetMoved = 0
	}
	c.lock.LastKnownPos = target.Pos

	toTarget := target.Pos.Sub(c.unit.Pos)
	dist := toTarget.Len()
	dot := toTarget.Normalize().Dot(c.unit.Forward())

	if c.stats.Attack == game.AttackMelee {
		c.engageMelee(target, dist, dot)
		return
	}

	if dist <= c.effectiveRange && c.nav.HasLineOfSight(c.unit.Pos, target.Pos) {
		c.moving = false
		if c.driveCharge(dist, dot) && c.stats.CanFlee &&
			c.lock.TimeSinceTargetMoved > c.stats.FleeThreshold {
			c.startFlee(target)
		}
		return
	}

	if c.unit.Weapon != nil && c.unit.Weapon.Charging {
		c.unit.Weapon.Cancel()
	}
	if dist > c.effectiveRange {
		c.moving = true
	}
}

// flee runs until the flee path is exhausted, then resumes seeking
func (c *Controller) flee(dt float64, view UnitView) {
	if c.lock != nil {
		target, err := view.Resolve(c.lock.TargetID)
		if err != nil || c.outOfRange(target) {
			c.loseTarget()
			return
		}
	}
	if c.path.Done() {
		c.state = StateSeek
		c.reacquireTimer = c.reacquireInterval
	}
}

// outOfRange reports whether target has left detection range, which
// invalidates the lock
func (c *Controller) outOfRange(target *game.Unit) bool {
	return c.unit.Pos.Dist(target.Pos) > c.stats.DetectionRange
}
