package server

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
)

// ErrNoDefenders is returned when waves are started with nobody to attack
var ErrNoDefenders = errors.New("no living defenders")

// WaveState is the director's lifecycle state
type WaveState int

const (
	WaveInactive WaveState = iota
	WaveRunning
	WaveStopped
)

func (s WaveState) String() string {
	switch s {
	case WaveInactive:
		return "inactive"
	case WaveRunning:
		return "running"
	case WaveStopped:
		return "stopped"
	}
	return "unknown"
}

// WaveParams tunes hostile wave escalation
type WaveParams struct {
	Interval      float64   `yaml:"interval" json:"interval"`            // seconds between waves
	InitialCount  int       `yaml:"initial_count" json:"initialCount"`   // hostiles in the first wave
	Multiplier    float64   `yaml:"multiplier" json:"multiplier"`        // growth per wave
	MaxPerWave    int       `yaml:"max_per_wave" json:"maxPerWave"`      // cap on a single wave
	SpawnRadius   float64   `yaml:"spawn_radius" json:"spawnRadius"`     // distance from Origin
	Origin        game.Vec2 `yaml:"origin" json:"origin"`                // center of the spawn circle
	MeleeRatio    float64   `yaml:"melee_ratio" json:"meleeRatio"`       // share of brawlers per wave
	HostileHealth float64   `yaml:"hostile_health" json:"hostileHealth"` // 0 keeps the class default
	HostileSpeed  float64   `yaml:"hostile_speed" json:"hostileSpeed"`   // 0 keeps the class default
}

// DefaultWaveParams returns the stock escalation: two hostiles every 30s,
// growing by 30% per wave up to eight.
func DefaultWaveParams() WaveParams {
	return WaveParams{
		Interval:     30,
		InitialCount: 2,
		Multiplier:   1.3,
		MaxPerWave:   8,
		SpawnRadius:  50,
	}
}

// Validate reports parameters the director cannot run with
func (p WaveParams) Validate() error {
	switch {
	case p.Interval <= 0:
		return fmt.Errorf("wave interval %.2f must be positive", p.Interval)
	case p.InitialCount < 1:
		return fmt.Errorf("initial count %d must be at least 1", p.InitialCount)
	case p.Multiplier < 1:
		return fmt.Errorf("multiplier %.2f must be at least 1", p.Multiplier)
	case p.MaxPerWave < 1:
		return fmt.Errorf("max per wave %d must be at least 1", p.MaxPerWave)
	case p.MeleeRatio < 0 || p.MeleeRatio > 1:
		return fmt.Errorf("melee ratio %.2f must be within [0, 1]", p.MeleeRatio)
	}
	return nil
}

// NextSpawnCount returns the size of the wave after one of size current.
// The result never decreases and never exceeds maxPerWave.
func NextSpawnCount(current int, multiplier float64, maxPerWave int) int {
	next := int(math.Round(float64(current) * multiplier))
	if next < current {
		next = current
	}
	if next > maxPerWave {
		next = maxPerWave
	}
	return next
}

// DefenderSource reports which defenders are still alive
type DefenderSource interface {
	AliveDefenders() []*game.Unit
}

// Spawner creates a hostile unit with its controller
type Spawner interface {
	SpawnHostile(class game.UnitClass, pos game.Vec2, dir float64) (*game.Unit, error)
}

// SpawnerFunc adapts a plain function to Spawner
type SpawnerFunc func(class game.UnitClass, pos game.Vec2, dir float64) (*game.Unit, error)

func (f SpawnerFunc) SpawnHostile(class game.UnitClass, pos game.Vec2, dir float64) (*game.Unit, error) {
	return f(class, pos, dir)
}

// WaveDirector spawns escalating waves of hostiles on a fixed interval for
// as long as any defender is alive.
type WaveDirector struct {
	params    WaveParams
	defenders DefenderSource
	spawner   Spawner
	effects   game.EffectSink
	logger    *log.Logger
	rng       *rand.Rand

	state      WaveState
	index      int // waves spawned so far
	spawnCount int
	timer      float64
	live       map[int]struct{}
}

// NewWaveDirector creates an inactive director
func NewWaveDirector(params WaveParams, defenders DefenderSource, spawner Spawner,
	effects game.EffectSink, logger *log.Logger, rng *rand.Rand) (*WaveDirector, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("new wave director: %w", err)
	}
	if defenders == nil || spawner == nil {
		return nil, fmt.Errorf("new wave director: %w", errors.New("defender source and spawner are required"))
	}
	if effects == nil {
		effects = game.Discard
	}
	if logger == nil {
		logger = log.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &WaveDirector{
		params:     params,
		defenders:  defenders,
		spawner:    spawner,
		effects:    effects,
		logger:     logger.With("component", "waves"),
		rng:        rng,
		spawnCount: params.InitialCount,
		live:       make(map[int]struct{}),
	}, nil
}

// Start begins the wave loop. Starting a stopped director restarts the
// escalation from the first wave. Starting a running director is a no-op.
func (d *WaveDirector) Start() error {
	if d.state == WaveRunning {
		return nil
	}
	if len(d.defenders.AliveDefenders()) == 0 {
		return fmt.Errorf("start waves: %w", ErrNoDefenders)
	}
	if d.state == WaveStopped {
		d.index = 0
		d.spawnCount = d.params.InitialCount
	}
	d.state = WaveRunning
	d.timer = 0
	d.logger.Info("waves started", "interval", d.params.Interval, "count", d.spawnCount)
	return nil
}

// Stop halts spawning immediately. Hostiles already alive are untouched.
func (d *WaveDirector) Stop() {
	if d.state != WaveRunning {
		return
	}
	d.state = WaveStopped
	d.logger.Info("waves stopped", "wave", d.index, "live", len(d.live))
}

// Update advances the wave timer by dt and spawns a wave each time the
// interval elapses.
func (d *WaveDirector) Update(dt float64) {
	if d.state != WaveRunning {
		return
	}
	d.timer += dt
	for d.state == WaveRunning && d.timer >= d.params.Interval {
		d.timer -= d.params.Interval
		d.runWave()
	}
}

func (d *WaveDirector) runWave() {
	if len(d.defenders.AliveDefenders()) == 0 {
		d.state = WaveStopped
		d.logger.Info("no defenders left, waves stopped", "wave", d.index)
		return
	}

	spawned := 0
	for i := 0; i < d.spawnCount; i++ {
		class := game.ClassShooter
		if d.rng.Float64() < d.params.MeleeRatio {
			class = game.ClassBrawler
		}
		pos, theta := randomPointOnCircle(d.rng, d.params.Origin, d.params.SpawnRadius)
		// face the origin
		u, err := d.spawner.SpawnHostile(class, pos, theta+math.Pi)
		if err != nil {
			d.logger.Error("spawn failed", "wave", d.index+1, "error", err)
			continue
		}
		d.track(u)
		spawned++
	}

	d.index++
	d.effects.Emit(game.Effect{Kind: game.EffectWave, Wave: d.index, Amount: float64(spawned)})
	d.logger.Info("wave spawned", "wave", d.index, "spawned", spawned, "live", len(d.live))

	d.spawnCount = NextSpawnCount(d.spawnCount, d.params.Multiplier, d.params.MaxPerWave)
}

// track adds u to the live population and drops it again when it dies
func (d *WaveDirector) track(u *game.Unit) {
	d.live[u.ID] = struct{}{}
	u.OnDeath(d.onHostileDeath)
}

func (d *WaveDirector) onHostileDeath(u *game.Unit) {
	delete(d.live, u.ID)
}

// CurrentWave returns the number of waves spawned so far
func (d *WaveDirector) CurrentWave() int { return d.index }

// ExpectedSpawnCount returns the size of the next wave
func (d *WaveDirector) ExpectedSpawnCount() int { return d.spawnCount }

// LivePopulationCount returns how many spawned hostiles are still alive
func (d *WaveDirector) LivePopulationCount() int { return len(d.live) }

// IsActive reports whether waves are still being spawned
func (d *WaveDirector) IsActive() bool { return d.state == WaveRunning }

// State returns the lifecycle state
func (d *WaveDirector) State() WaveState { return d.state }

// TimeToNextWave returns the seconds left before the next wave check
func (d *WaveDirector) TimeToNextWave() float64 {
	if d.state != WaveRunning {
		return 0
	}
	return d.params.Interval - d.timer
}

// Params returns the director's tuning
func (d *WaveDirector) Params() WaveParams { return d.params }
