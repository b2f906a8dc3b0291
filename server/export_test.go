package server

import "github.com/lab1702/tank-arena/game"

// Test helpers to expose private state for testing purposes
// This file should only be used for testing and not in production

// World allows tests to place and inspect units directly
func (s *Simulation) World() *World {
	return s.world
}

// Director exposes the current round's wave director
func (s *Simulation) Director() *WaveDirector {
	return s.director
}

// Controllers returns the live controllers in spawn order
func (s *Simulation) Controllers() []*Controller {
	return s.controllers
}

// ControllerFor returns the controller driving unit id
func (s *Simulation) ControllerFor(id int) *Controller {
	for _, c := range s.controllers {
		if c.Unit().ID == id {
			return c
		}
	}
	return nil
}

// Shells exposes the shell system
func (s *Simulation) Shells() *ShellSystem {
	return s.shells
}

// Match exposes the match score
func (s *Simulation) Match() *Match {
	return s.match
}

// SelectTarget exposes the private selectTarget method for testing
func (c *Controller) SelectTarget(view UnitView) *game.Unit {
	best := c.selectTarget(view)
	if best == nil {
		return nil
	}
	return best.unit
}

// EffectiveRange exposes the distance the controller engages from
func (c *Controller) EffectiveRange() float64 {
	return c.effectiveRange
}

// ForceReacquire makes the next DecisionTick re-evaluate the target
func (c *Controller) ForceReacquire() {
	c.reacquireTimer = c.reacquireInterval
}

// Path exposes the path being followed
func (c *Controller) Path() []game.Vec2 {
	return c.path.Remaining()
}
