package server

import (
	"math"

	"github.com/lab1702/tank-arena/game"
)

// PhysicsTick integrates the controller's last movement decision over dt:
// turn toward the aim point at a bounded rate, then move forward if the
// unit is moving and faces the aim point closely enough.
func (c *Controller) PhysicsTick(dt float64) {
	if c.state == StateDead || !c.unit.IsAlive() {
		return
	}

	aim, ok := c.aimPoint()
	if !ok {
		return
	}

	pos := c.body.Position()
	toAim := aim.Sub(pos)
	if toAim.Len() < game.WaypointRadius && c.moving {
		c.path.Advance()
		return
	}
	dir := toAim.Normalize()
	forward := game.HeadingVec(c.body.Facing())
	dot := forward.Dot(dir)

	if c.moving {
		step := stepDistance(c.stats, dot) * dt
		if step > MinMoveStep {
			c.body.MoveTo(pos.Add(forward.Scale(step)))
		}
	}

	turn := game.AngleDifference(c.body.Facing(), dir.Heading())
	maxTurn := c.stats.TurnRate * dt
	turn = game.Clamp(turn, -maxTurn, maxTurn)
	if math.Abs(turn) > MinRotateStep {
		c.body.Rotate(turn)
	}

	if c.moving && c.body.Position().Dist(aim) < game.WaypointRadius {
		c.path.Advance()
	}
}

// aimPoint is the next waypoint while moving, or the locked target's last
// known position while standing still.
func (c *Controller) aimPoint() (game.Vec2, bool) {
	if c.moving {
		if c.path.Done() {
			return game.Vec2{}, false
		}
		return c.path.Current()
	}
	if c.lock != nil {
		return c.lock.LastKnownPos, true
	}
	return game.Vec2{}, false
}

// stepDistance returns the forward speed for a unit whose facing has dot
// product dot with the direction it wants to go.
func stepDistance(stats game.UnitStats, dot float64) float64 {
	if dot <= stats.MoveAlignment {
		return 0
	}
	if stats.ScaleByAlignment {
		return stats.MoveSpeed * game.Clamp01(dot)
	}
	return stats.MoveSpeed
}
