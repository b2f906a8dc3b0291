package server

import (
	"github.com/lab1702/tank-arena/game"
)

// driveCharge runs the charge-and-release decision for a unit engaging a
// target dist away whose facing has dot product dot with the direction to
// the target. It returns true when a shot was released this tick.
func (c *Controller) driveCharge(dist, dot float64) bool {
	w := c.unit.Weapon
	if w == nil {
		return false
	}

	if !w.Charging {
		if !w.StartCharging() {
			return false
		}
		c.logger.Debug("charging", "distance", dist)
	}

	if dot <= c.stats.AimThreshold {
		return false
	}

	predicted, err := game.PredictDistance(c.unit.Mount, w, w.ChargeRatio)
	if err != nil {
		// Without a prediction, alignment alone decides the release.
		if !c.predictionWarned {
			c.logger.Warn("cannot predict landing, releasing on alignment", "error", err)
			c.predictionWarned = true
		}
	} else if predicted < dist-game.SplashMargin {
		return false
	}

	return c.fire()
}

// fire releases the charged shot and emits the fire intent
func (c *Controller) fire() bool {
	w := c.unit.Weapon
	ratio := w.ChargeRatio
	force, ok := w.Release()
	if !ok {
		return false
	}

	e := game.UnitEffect(game.EffectFire, c.unit)
	e.Force = force
	if c.lock != nil {
		e.Target = c.lock.TargetID
	}
	c.effects.Emit(e)

	c.justFired = true
	c.logger.Debug("fired", "ratio", ratio, "force", force)
	return true
}

// engageMelee closes to attack range and strikes on cooldown
func (c *Controller) engageMelee(target *game.Unit, dist, dot float64) {
	if dist > c.stats.AttackRange {
		c.moving = true
		return
	}

	c.moving = false
	if c.attackCooldown > 0 || dot <= c.stats.AimThreshold {
		return
	}

	c.attackCooldown = c.stats.ShotCooldown
	c.justFired = true
	c.strike(c.unit, target, c.stats.MaxDamage)
	c.logger.Debug("melee strike", "target", target.ID, "damage", c.stats.MaxDamage)
}

// JustFired reports whether the controller attacked during the last tick
func (c *Controller) JustFired() bool { return c.justFired }
