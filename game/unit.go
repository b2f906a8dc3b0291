package game

import "fmt"

// Body is the movement primitive a controller drives. *Unit implements it
// kinematically; a physics engine can supply its own.
type Body interface {
	Position() Vec2
	Facing() float64
	MoveTo(p Vec2)
	Rotate(delta float64)
}

// Unit is a combat unit on the battlefield
type Unit struct {
	ID        int           `json:"id" msgpack:"id"`
	Team      Team          `json:"team" msgpack:"team"`
	Class     UnitClass     `json:"class" msgpack:"class"`
	Pos       Vec2          `json:"pos" msgpack:"pos"`
	Dir       float64       `json:"dir" msgpack:"dir"` // heading in radians
	Health    float64       `json:"health" msgpack:"health"`
	MaxHealth float64       `json:"maxHealth" msgpack:"maxHealth"`
	Status    int           `json:"status" msgpack:"status"`
	Weapon    *ChargeWeapon `json:"weapon,omitempty" msgpack:"weapon,omitempty"`
	Mount     *WeaponMount  `json:"-" msgpack:"-"`

	removeDelay float64
	removeTimer float64
	deathFns    []func(*Unit)
}

// NewUnit creates a live unit of the given class at full health. Charged
// classes get a weapon and a copy of their mount.
func NewUnit(id int, class UnitClass, pos Vec2, dir float64) (*Unit, error) {
	stats, ok := StatsFor(class)
	if !ok {
		return nil, fmt.Errorf("new unit %d: unknown class %d", id, class)
	}
	u := &Unit{
		ID:          id,
		Team:        stats.Team,
		Class:       class,
		Pos:         pos,
		Dir:         NormalizeAngle(dir),
		Health:      stats.MaxHealth,
		MaxHealth:   stats.MaxHealth,
		Status:      StatusAlive,
		removeDelay: stats.RemoveDelay,
	}
	if stats.Attack == AttackCharged {
		u.Weapon = NewChargeWeapon(stats)
		if stats.Mount != nil {
			m := *stats.Mount
			u.Mount = &m
		}
	}
	return u, nil
}

// IsAlive reports whether the unit can still act
func (u *Unit) IsAlive() bool {
	return u != nil && u.Status == StatusAlive
}

// CurrentHealth returns the unit's remaining health
func (u *Unit) CurrentHealth() float64 {
	return u.Health
}

// OnDeath registers fn to run once when the unit dies. Listeners run in
// registration order.
func (u *Unit) OnDeath(fn func(*Unit)) {
	u.deathFns = append(u.deathFns, fn)
}

// AdvanceRemoval counts down the post-death grace delay. It returns true on
// the tick the unit becomes ready to be removed from the world.
func (u *Unit) AdvanceRemoval(dt float64) bool {
	if u.Status != StatusDead {
		return false
	}
	u.removeTimer -= dt
	if u.removeTimer > 0 {
		return false
	}
	u.Status = StatusRemoved
	return true
}

// Forward returns the unit's unit-length facing vector
func (u *Unit) Forward() Vec2 {
	return HeadingVec(u.Dir)
}

func (u *Unit) Position() Vec2  { return u.Pos }
func (u *Unit) Facing() float64 { return u.Dir }

func (u *Unit) MoveTo(p Vec2) {
	if u.Status == StatusAlive {
		u.Pos = p
	}
}

func (u *Unit) Rotate(delta float64) {
	if u.Status == StatusAlive {
		u.Dir = NormalizeAngle(u.Dir + delta)
	}
}
