package server

import (
	"fmt"
	"os"

	"github.com/lab1702/tank-arena/game"
	"github.com/lab1702/tank-arena/nav"
	"gopkg.in/yaml.v3"
)

// Config is the server configuration file
type Config struct {
	Port         string `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	Seed         int64  `yaml:"seed"`
	NATSURL      string `yaml:"nats_url"`
	NATSSubject  string `yaml:"nats_subject"`
	Autostart    bool   `yaml:"autostart"`
	SnapshotRate int    `yaml:"snapshot_rate"` // spectator updates per second

	Waves       WaveParams        `yaml:"waves"`
	Match       MatchParams       `yaml:"match"`
	Defenders   []DefenderSpec    `yaml:"defenders"`
	Battlefield BattlefieldConfig `yaml:"battlefield"`
}

// DefenderSpec places one defender at the start of every round
type DefenderSpec struct {
	Pos     game.Vec2 `yaml:"pos"`
	Heading float64   `yaml:"heading"` // degrees
	Pilot   bool      `yaml:"pilot"`   // driven over the websocket instead of by AI
}

// BattlefieldConfig describes the navigation grid. With no obstacles the
// field is open and units path in straight lines.
type BattlefieldConfig struct {
	Min       game.Vec2  `yaml:"min"`
	Max       game.Vec2  `yaml:"max"`
	CellSize  float64    `yaml:"cell_size"`
	Obstacles []nav.Rect `yaml:"obstacles"`
}

// DefaultConfig returns the stock arena: two AI tanks, waves of shooters
// every 30 seconds, first to five rounds.
func DefaultConfig() Config {
	return Config{
		Port:         "8080",
		LogLevel:     "info",
		Seed:         1,
		NATSSubject:  "arena.effects",
		SnapshotRate: 10,
		Waves:        DefaultWaveParams(),
		Match:        DefaultMatchParams(),
		Defenders: []DefenderSpec{
			{Pos: game.V(-5, 0), Heading: 0},
			{Pos: game.V(5, 0), Heading: 180},
		},
		Battlefield: BattlefieldConfig{
			Min:      game.V(-80, -80),
			Max:      game.V(80, 80),
			CellSize: 2,
		},
	}
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the
// file keep their default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize clamps values the simulation cannot run with
func (c *Config) Sanitize() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.SnapshotRate <= 0 {
		c.SnapshotRate = 10
	}
	if c.NATSSubject == "" {
		c.NATSSubject = "arena.effects"
	}

	w := &c.Waves
	w.Interval = max(w.Interval, 5)
	w.SpawnRadius = max(w.SpawnRadius, 10)
	w.InitialCount = max(w.InitialCount, 1)
	w.MaxPerWave = max(w.MaxPerWave, w.InitialCount)
	w.Multiplier = max(w.Multiplier, 1)
	w.MeleeRatio = game.Clamp01(w.MeleeRatio)
	w.HostileHealth = max(w.HostileHealth, 0)
	w.HostileSpeed = max(w.HostileSpeed, 0)

	c.Match.RoundsToWin = max(c.Match.RoundsToWin, 1)
	c.Match.RoundWaves = max(c.Match.RoundWaves, 1)

	if c.Battlefield.CellSize <= 0 {
		c.Battlefield.CellSize = 2
	}
}

// Navigator builds the navigation service for the battlefield. An empty
// obstacle list yields an open field.
func (c Config) Navigator() (nav.Navigator, error) {
	bf := c.Battlefield
	if len(bf.Obstacles) == 0 {
		return nav.OpenField{}, nil
	}
	g, err := nav.NewGrid(bf.Min, bf.Max, bf.CellSize)
	if err != nil {
		return nil, fmt.Errorf("battlefield: %w", err)
	}
	for _, r := range bf.Obstacles {
		g.BlockRect(r)
	}
	return g, nil
}

// RingDefenders spaces n AI defenders evenly on a circle around the origin,
// each facing outward.
func RingDefenders(n int, radius float64) []DefenderSpec {
	specs := make([]DefenderSpec, 0, n)
	for i := 0; i < n; i++ {
		heading := 360 * float64(i) / float64(n)
		pos := game.HeadingVec(game.Deg(heading)).Scale(radius)
		specs = append(specs, DefenderSpec{Pos: pos, Heading: heading})
	}
	return specs
}
