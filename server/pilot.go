package server

import (
	"errors"
	"fmt"
	"math"

	"github.com/lab1702/tank-arena/game"
)

// ErrNotPilot is returned when a command names a unit no player is driving
var ErrNotPilot = errors.New("unit is not player driven")

// ErrUnitDead is returned for commands sent to a dead unit
var ErrUnitDead = errors.New("unit is dead")

// Pilot is a defender driven by commands from a connected player instead of
// a controller. Commands only set intent; PhysicsTick applies it.
type Pilot struct {
	unit    *game.Unit
	stats   game.UnitStats
	effects game.EffectSink

	DesDir   float64 // desired heading in radians
	DesSpeed float64 // desired speed, clamped to the class move speed
}

// NewPilot wraps u for player control
func NewPilot(u *game.Unit, stats game.UnitStats, effects game.EffectSink) *Pilot {
	if effects == nil {
		effects = game.Discard
	}
	return &Pilot{unit: u, stats: stats, effects: effects, DesDir: u.Dir}
}

// Unit returns the driven unit
func (p *Pilot) Unit() *game.Unit { return p.unit }

// SetCourse sets the heading to turn toward and the speed to hold
func (p *Pilot) SetCourse(dir, speed float64) error {
	if !p.unit.IsAlive() {
		return ErrUnitDead
	}
	p.DesDir = game.NormalizeAngle(validateDirection(dir))
	p.DesSpeed = math.Max(0, math.Min(validateFinite(speed), p.stats.MoveSpeed))
	return nil
}

// Charge starts charging the weapon. Charging again while a charge is in
// progress keeps the current charge.
func (p *Pilot) Charge() error {
	if !p.unit.IsAlive() {
		return ErrUnitDead
	}
	w := p.unit.Weapon
	if w == nil {
		return game.ErrNoWeapon
	}
	if !w.StartCharging() && !w.Charging {
		return fmt.Errorf("%.2fs left: %w", w.Cooldown, game.ErrWeaponCooling)
	}
	return nil
}

// Release fires whatever charge has built up. Releasing with no charge in
// progress does nothing.
func (p *Pilot) Release() error {
	if !p.unit.IsAlive() {
		return ErrUnitDead
	}
	if p.unit.Weapon == nil {
		return game.ErrNoWeapon
	}
	force, ok := p.unit.Weapon.Release()
	if !ok {
		return nil
	}
	e := game.UnitEffect(game.EffectFire, p.unit)
	e.Force = force
	p.effects.Emit(e)
	return nil
}

// PhysicsTick turns toward DesDir at the class turn rate and drives forward
// at DesSpeed.
func (p *Pilot) PhysicsTick(dt float64) {
	if !p.unit.IsAlive() {
		return
	}

	turn := game.AngleDifference(p.unit.Dir, p.DesDir)
	maxTurn := p.stats.TurnRate * dt
	turn = game.Clamp(turn, -maxTurn, maxTurn)
	if math.Abs(turn) > MinRotateStep {
		p.unit.Rotate(turn)
	}

	step := p.DesSpeed * dt
	if step > MinMoveStep {
		p.unit.MoveTo(p.unit.Pos.Add(p.unit.Forward().Scale(step)))
	}
}
