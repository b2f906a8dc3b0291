package server

import (
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/nav"
)

// startPatrol picks a random point near the unit once the current patrol
// path is exhausted. A failed path leaves the unit standing still.
func (c *Controller) startPatrol() {
	if !c.path.Done() {
		return
	}
	radius := c.stats.PatrolRadius
	if radius <= 0 {
		c.moving = false
		return
	}

	point := randomPointInDisc(c.rng, c.unit.Pos, radius)
	waypoints, err := c.nav.ComputePath(c.unit.Pos, point)
	if err != nil || len(waypoints) == 0 {
		c.path = nil
		c.moving = false
		return
	}
	c.path = nav.NewPath(waypoints)
	c.moving = true
}

// startFlee turns away from target by 90 to 180 degrees and paths to a point
// a random distance in that direction. When no path exists the controller
// keeps seeking.
func (c *Controller) startFlee(target *game.Unit) {
	toTarget := target.Pos.Sub(c.unit.Pos).Normalize()
	if toTarget.IsZero() {
		toTarget = c.unit.Forward()
	}
	away := toTarget.Rotate(randomFleeAngle(c.rng))
	dist := randomRange(c.rng, c.stats.FleeDistMin, c.stats.FleeDistMax)
	point := c.unit.Pos.Add(away.Scale(dist))

	waypoints, err := c.nav.ComputePath(c.unit.Pos, point)
	if err != nil || len(waypoints) == 0 {
		c.logger.Debug("no flee path", "error", err)
		return
	}

	c.path = nav.NewPath(waypoints)
	c.moving = true
	c.state = StateFlee
	c.logger.Debug("fleeing", "target", target.ID, "to", point)
}
