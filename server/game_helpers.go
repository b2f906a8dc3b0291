package server

import (
	"math"

	"github.com/lab1702/tank-arena/game"
)

// watch reports u's death to external observers
func (s *Simulation) watch(u *game.Unit) {
	u.OnDeath(func(u *game.Unit) {
		s.effects.Emit(game.UnitEffect(game.EffectDeath, u))
		s.logger.Info("unit destroyed", "unit", u.ID, "team", u.Team, "class", u.Class)
	})
}

// hit applies damage from source to target. The damage effect carries the
// health actually lost and goes out before the death effect.
func (s *Simulation) hit(source int, target *game.Unit, amount float64) {
	if !target.IsAlive() || amount <= 0 {
		return
	}
	e := game.UnitEffect(game.EffectDamage, target)
	e.Amount = math.Min(amount, target.Health)
	e.Source = source
	s.effects.Emit(e)

	if target.ApplyDamage(amount) {
		s.logger.Debug("kill", "source", source, "target", target.ID)
	}
}

// strike delivers a melee hit
func (s *Simulation) strike(attacker, target *game.Unit, amount float64) {
	s.hit(attacker.ID, target, amount)
}
