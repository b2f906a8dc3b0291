package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/nav"
)

// ErrRoundOver is returned when waves are started after the round was decided
var ErrRoundOver = errors.New("round is over, reset to play the next one")

// Options wires a simulation. Nil collaborators get defaults.
type Options struct {
	Navigator nav.Navigator
	Effects   game.EffectSink
	Logger    *log.Logger
	Seed      int64
	Waves     WaveParams
	Match     MatchParams
	Defenders []DefenderSpec
}

// Simulation owns the battlefield. All mutation happens on the goroutine
// running Run (or the caller of DecisionTick/PhysicsTick in tests); other
// goroutines go through the locked command and snapshot methods.
type Simulation struct {
	mu sync.RWMutex

	world       *World
	controllers []*Controller // spawn order, which is id order
	pilots      map[int]*Pilot
	director    *WaveDirector
	shells      *ShellSystem
	match       *Match

	nav         nav.Navigator
	effects     game.EffectSink // external observers
	unitEffects game.EffectSink // shells, then external observers
	logger      *log.Logger
	rng         *rand.Rand

	waves       WaveParams
	defenders   []DefenderSpec
	roundActive bool
	frame       int64
}

// NewSimulation creates a simulation with the configured defenders in place
// and the wave director inactive.
func NewSimulation(opts Options) (*Simulation, error) {
	if err := opts.Waves.Validate(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	effects := opts.Effects
	if effects == nil {
		effects = game.Discard
	}
	navigator := opts.Navigator
	if navigator == nil {
		logger.Warn("no navigator configured, using open field", "error", game.ErrNoNavigator)
		navigator = nav.OpenField{}
	}

	s := &Simulation{
		world:     NewWorld(),
		pilots:    make(map[int]*Pilot),
		nav:       navigator,
		effects:   effects,
		logger:    logger,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		waves:     opts.Waves,
		defenders: opts.Defenders,
	}
	s.shells = NewShellSystem(s.world, s.hit, effects, logger)
	s.unitEffects = game.MultiSink{s.shells, effects}
	s.match = NewMatch(opts.Match, logger)

	if err := s.setupRound(); err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}
	return s, nil
}

// setupRound creates a fresh director and places the configured defenders
func (s *Simulation) setupRound() error {
	d, err := NewWaveDirector(s.waves, s.world, SpawnerFunc(s.spawnHostile), s.effects, s.logger, s.rng)
	if err != nil {
		return err
	}
	s.director = d
	for _, spec := range s.defenders {
		if _, err := s.spawnDefender(spec.Pos, game.Deg(spec.Heading), spec.Pilot); err != nil {
			return err
		}
	}
	s.roundActive = false
	return nil
}

// spawnDefender places a tank driven either by a controller or by a player
func (s *Simulation) spawnDefender(pos game.Vec2, dir float64, pilot bool) (*game.Unit, error) {
	u, err := s.world.Spawn(game.ClassTank, pos, dir)
	if err != nil {
		return nil, err
	}
	s.watch(u)

	stats, _ := game.StatsFor(game.ClassTank)
	if pilot {
		s.pilots[u.ID] = NewPilot(u, stats, s.unitEffects)
	} else if err := s.attach(u, nil); err != nil {
		return nil, err
	}

	s.effects.Emit(game.UnitEffect(game.EffectSpawn, u))
	s.logger.Debug("defender spawned", "unit", u.ID, "pos", u.Pos, "pilot", pilot)
	return u, nil
}

// spawnHostile is the director's spawner. Wave tuning overrides the class
// health and speed when set.
func (s *Simulation) spawnHostile(class game.UnitClass, pos game.Vec2, dir float64) (*game.Unit, error) {
	stats, ok := game.StatsFor(class)
	if !ok || stats.Team != game.TeamHostile {
		return nil, fmt.Errorf("spawn hostile: class %v is not hostile", class)
	}
	u, err := s.world.Spawn(class, pos, dir)
	if err != nil {
		return nil, err
	}
	if s.waves.HostileHealth > 0 {
		u.MaxHealth = s.waves.HostileHealth
		u.Health = u.MaxHealth
	}
	if s.waves.HostileSpeed > 0 {
		stats.MoveSpeed = s.waves.HostileSpeed
	}
	s.watch(u)
	if err := s.attach(u, &stats); err != nil {
		return nil, err
	}
	s.effects.Emit(game.UnitEffect(game.EffectSpawn, u))
	return u, nil
}

// attach wires a controller to u
func (s *Simulation) attach(u *game.Unit, stats *game.UnitStats) error {
	c, err := NewController(u, ControllerDeps{
		Navigator: s.nav,
		Effects:   s.unitEffects,
		Logger:    s.logger,
		Rand:      rand.New(rand.NewSource(s.rng.Int63())),
		Strike:    s.strike,
		Stats:     stats,
	})
	if err != nil {
		return err
	}
	s.controllers = append(s.controllers, c)
	return nil
}

// DecisionTick advances weapons, every controller, the wave director and
// the round result by dt seconds.
func (s *Simulation) DecisionTick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frame++
	s.world.Reindex()

	for _, u := range s.world.Units() {
		if u.IsAlive() && u.Weapon != nil {
			u.Weapon.Advance(dt)
		}
	}

	// Units spawned during this tick get their first decision next tick
	controllers := append([]*Controller(nil), s.controllers...)
	for _, c := range controllers {
		c.DecisionTick(dt, s.world)
	}

	s.director.Update(dt)
	s.checkRound()
}

// PhysicsTick applies movement, flies shells and removes units whose
// post-death delay has elapsed.
func (s *Simulation) PhysicsTick(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.controllers {
		c.PhysicsTick(dt)
	}
	for _, p := range s.pilots {
		p.PhysicsTick(dt)
	}
	s.shells.Update(dt)

	for _, u := range s.world.Reap(dt) {
		s.forget(u)
	}
}

// forget drops the controller or pilot of a removed unit
func (s *Simulation) forget(u *game.Unit) {
	writeIdx := 0
	for _, c := range s.controllers {
		if c.Unit() == u {
			continue
		}
		s.controllers[writeIdx] = c
		writeIdx++
	}
	for i := writeIdx; i < len(s.controllers); i++ {
		s.controllers[i] = nil
	}
	s.controllers = s.controllers[:writeIdx]
	delete(s.pilots, u.ID)
	s.logger.Debug("unit removed", "unit", u.ID)
}

func (s *Simulation) checkRound() {
	if !s.roundActive {
		return
	}
	winner, decided := s.match.Check(RoundStatus{
		DefendersAlive: s.world.Count(game.TeamDefender),
		HostilesAlive:  s.world.Count(game.TeamHostile),
		WavesSpawned:   s.director.CurrentWave(),
	})
	if !decided {
		return
	}
	s.roundActive = false
	s.director.Stop()
	s.logger.Info(s.match.Message(), "winner", winner, "match", s.match.ID)
}

// Run drives the decision tick at DecisionRate with the measured frame time
// and the physics tick at a fixed PhysicsRate until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	decision := time.NewTicker(game.DecisionInterval)
	defer decision.Stop()
	physics := time.NewTicker(game.PhysicsInterval)
	defer physics.Stop()

	physicsDT := game.PhysicsInterval.Seconds()
	last := time.Now()
	s.logger.Info("simulation running", "decisionHz", game.DecisionRate, "physicsHz", game.PhysicsRate)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("simulation stopped", "frame", s.Frame())
			return nil
		case now := <-decision.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.DecisionTick(dt)
		case <-physics.C:
			s.PhysicsTick(physicsDT)
		}
	}
}

// Frame returns the number of decision ticks run so far
func (s *Simulation) Frame() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// StartWaves starts the wave director for the current round
func (s *Simulation) StartWaves() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.match.RoundOver || s.match.GameOver {
		return ErrRoundOver
	}
	if err := s.director.Start(); err != nil {
		return err
	}
	s.roundActive = true
	return nil
}

// StopWaves halts spawning. Live hostiles keep fighting.
func (s *Simulation) StopWaves() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.director.Stop()
}

// ResetRound clears the battlefield and sets up the next round. After game
// over it starts a new match.
func (s *Simulation) ResetRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.director.Stop()
	s.world.Clear()
	s.controllers = nil
	s.pilots = make(map[int]*Pilot)
	s.shells.Clear()
	s.match.NextRound()

	if err := s.setupRound(); err != nil {
		return fmt.Errorf("reset round: %w", err)
	}
	s.logger.Info("round reset", "match", s.match.ID, "round", s.match.Round)
	return nil
}

// Damage applies amount to unit id from outside the simulation
func (s *Simulation) Damage(id int, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.world.Resolve(id)
	if err != nil {
		return err
	}
	s.hit(0, u, amount)
	return nil
}

// Spawn adds a unit mid-round and returns its id. Tanks may be player
// driven; hostiles always get a controller.
func (s *Simulation) Spawn(class game.UnitClass, pos game.Vec2, dir float64, pilot bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		u   *game.Unit
		err error
	)
	if class == game.ClassTank {
		u, err = s.spawnDefender(pos, dir, pilot)
	} else {
		u, err = s.spawnHostile(class, pos, dir)
	}
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func (s *Simulation) pilot(id int) (*Pilot, error) {
	p, ok := s.pilots[id]
	if !ok {
		return nil, fmt.Errorf("unit %d: %w", id, ErrNotPilot)
	}
	return p, nil
}

// Move sets the course of a player-driven defender
func (s *Simulation) Move(id int, dir, speed float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pilot(id)
	if err != nil {
		return err
	}
	return p.SetCourse(dir, speed)
}

// Charge starts charging a player-driven defender's weapon
func (s *Simulation) Charge(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pilot(id)
	if err != nil {
		return err
	}
	return p.Charge()
}

// Release fires a player-driven defender's charged shot
func (s *Simulation) Release(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.pilot(id)
	if err != nil {
		return err
	}
	return p.Release()
}
