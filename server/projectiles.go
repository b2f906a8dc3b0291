package server

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
)

// Shell is a projectile in flight along a fixed ballistic arc
type Shell struct {
	ID      int       `json:"id" msgpack:"id"`
	Owner   int       `json:"owner" msgpack:"owner"`
	Team    game.Team `json:"team" msgpack:"team"`
	Pos     game.Vec2 `json:"pos" msgpack:"pos"`
	Height  float64   `json:"height" msgpack:"height"`
	Landing game.Vec2 `json:"landing" msgpack:"landing"`

	origin    game.Vec2
	velocity  game.Vec2 // horizontal
	climb     float64   // initial vertical speed
	launchH   float64
	elapsed   float64
	flight    float64
	maxDamage float64
	radius    float64
}

// HitFunc applies damage dealt by source to target
type HitFunc func(source int, target *game.Unit, amount float64)

// ImpactView is the part of the world a shell needs to find what it hit
type ImpactView interface {
	Reindex()
	Nearby(pos game.Vec2, radius float64, team game.Team) []*game.Unit
}

// ShellSystem turns fire intents into shells, flies them each physics tick
// and applies splash damage where they land.
type ShellSystem struct {
	view    ImpactView
	hit     HitFunc
	effects game.EffectSink
	logger  *log.Logger

	shells []*Shell
	nextID int
}

// NewShellSystem creates an empty shell system
func NewShellSystem(view ImpactView, hit HitFunc, effects game.EffectSink, logger *log.Logger) *ShellSystem {
	if effects == nil {
		effects = game.Discard
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ShellSystem{
		view:    view,
		hit:     hit,
		effects: effects,
		logger:  logger.With("component", "shells"),
		nextID:  1,
	}
}

// Emit implements game.EffectSink. Only fire effects launch shells.
func (s *ShellSystem) Emit(e game.Effect) {
	if e.Kind != game.EffectFire {
		return
	}
	s.Launch(e)
}

// Launch creates a shell for a fire effect. The arc comes from the firing
// class's mount, so a shell lands where the predictor said it would.
func (s *ShellSystem) Launch(e game.Effect) *Shell {
	stats, ok := game.StatsFor(e.Class)
	if !ok {
		s.logger.Warn("fire from unknown class", "unit", e.UnitID, "class", int(e.Class))
		return nil
	}
	var mount game.WeaponMount
	if stats.Mount != nil {
		mount = *stats.Mount
	}

	forward := game.HeadingVec(e.Dir)
	origin := e.Pos.Add(forward.Scale(mount.Forward))
	flight := game.FlightTime(mount, e.Force)
	velocity := forward.Scale(e.Force * math.Cos(mount.Pitch))

	sh := &Shell{
		ID:        s.nextID,
		Owner:     e.UnitID,
		Team:      e.Team,
		Pos:       origin,
		Height:    mount.Height,
		Landing:   origin.Add(velocity.Scale(flight)),
		origin:    origin,
		velocity:  velocity,
		climb:     e.Force * math.Sin(mount.Pitch),
		launchH:   mount.Height,
		flight:    flight,
		maxDamage: stats.MaxDamage,
		radius:    stats.ExplosionRadius,
	}
	s.nextID++
	s.shells = append(s.shells, sh)
	return sh
}

// Update moves every shell forward by dt and detonates the ones that reached
// the ground. Uses in-place filtering to avoid a slice allocation per tick.
func (s *ShellSystem) Update(dt float64) {
	if len(s.shells) == 0 {
		return
	}
	// Index units once so every impact sees the same positions
	s.view.Reindex()

	writeIdx := 0
	for _, sh := range s.shells {
		sh.elapsed += dt
		if sh.elapsed >= sh.flight {
			sh.Pos = sh.Landing
			sh.Height = 0
			s.detonate(sh)
			continue
		}
		t := sh.elapsed
		sh.Pos = sh.origin.Add(sh.velocity.Scale(t))
		sh.Height = sh.launchH + sh.climb*t - 0.5*game.Gravity*t*t

		s.shells[writeIdx] = sh
		writeIdx++
	}
	for i := writeIdx; i < len(s.shells); i++ {
		s.shells[i] = nil
	}
	s.shells = s.shells[:writeIdx]
}

// detonate deals splash damage to opposing units around the landing point
func (s *ShellSystem) detonate(sh *Shell) {
	s.effects.Emit(game.Effect{
		Kind:   game.EffectImpact,
		Team:   sh.Team,
		Pos:    sh.Landing,
		Source: sh.Owner,
		Amount: sh.maxDamage,
	})
	if sh.radius <= 0 || s.hit == nil {
		return
	}

	for _, u := range s.view.Nearby(sh.Landing, sh.radius, sh.Team.Opponent()) {
		dmg := game.SplashDamage(sh.maxDamage, sh.radius, sh.Landing.Dist(u.Pos))
		if dmg <= 0 {
			continue
		}
		s.hit(sh.Owner, u, dmg)
	}
}

// Shells returns copies of the shells in flight
func (s *ShellSystem) Shells() []Shell {
	out := make([]Shell, len(s.shells))
	for i, sh := range s.shells {
		out[i] = *sh
	}
	return out
}

// Count returns the number of shells in flight
func (s *ShellSystem) Count() int { return len(s.shells) }

// Clear drops every shell without detonating it
func (s *ShellSystem) Clear() {
	s.shells = nil
}
