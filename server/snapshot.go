package server

import (
	"encoding/json"
	"fmt"

	"github.com/lab1702/tank-arena/game"
	"github.com/vmihailenco/msgpack/v5"
)

// Wire formats a client may ask for with ?format=
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// UnitSnapshot is the public state of one unit
type UnitSnapshot struct {
	ID        int            `json:"id" msgpack:"id"`
	Team      game.Team      `json:"team" msgpack:"team"`
	Class     game.UnitClass `json:"class" msgpack:"class"`
	Name      string         `json:"name" msgpack:"name"`
	Pos       game.Vec2      `json:"pos" msgpack:"pos"`
	Dir       float64        `json:"dir" msgpack:"dir"`
	Health    float64        `json:"health" msgpack:"health"`
	MaxHealth float64        `json:"maxHealth" msgpack:"maxHealth"`
	Status    int            `json:"status" msgpack:"status"`
	Charge    float64        `json:"charge" msgpack:"charge"`
	Charging  bool           `json:"charging" msgpack:"charging"`
	State     string         `json:"state,omitempty" msgpack:"state,omitempty"`
	Target    int            `json:"target,omitempty" msgpack:"target,omitempty"`
	Pilot     bool           `json:"pilot,omitempty" msgpack:"pilot,omitempty"`
}

// WaveStats is the director's public state
type WaveStats struct {
	State         string  `json:"state" msgpack:"state"`
	Wave          int     `json:"wave" msgpack:"wave"`
	NextCount     int     `json:"nextCount" msgpack:"nextCount"`
	Live          int     `json:"live" msgpack:"live"`
	NextWaveIn    float64 `json:"nextWaveIn" msgpack:"nextWaveIn"`
	Interval      float64 `json:"interval" msgpack:"interval"`
	DefendersLeft int     `json:"defendersLeft" msgpack:"defendersLeft"`
}

// MatchStats is the score across rounds
type MatchStats struct {
	ID           string    `json:"id" msgpack:"id"`
	Round        int       `json:"round" msgpack:"round"`
	DefenderWins int       `json:"defenderWins" msgpack:"defenderWins"`
	HostileWins  int       `json:"hostileWins" msgpack:"hostileWins"`
	RoundOver    bool      `json:"roundOver" msgpack:"roundOver"`
	GameOver     bool      `json:"gameOver" msgpack:"gameOver"`
	Winner       game.Team `json:"winner,omitempty" msgpack:"winner,omitempty"`
	Message      string    `json:"message" msgpack:"message"`
}

// Snapshot is a consistent view of the whole battlefield at one frame
type Snapshot struct {
	Frame  int64          `json:"frame" msgpack:"frame"`
	Units  []UnitSnapshot `json:"units" msgpack:"units"`
	Shells []Shell        `json:"shells" msgpack:"shells"`
	Waves  WaveStats      `json:"waves" msgpack:"waves"`
	Match  MatchStats     `json:"match" msgpack:"match"`
}

// Snapshot copies the current state under the read lock
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Frame:  s.frame,
		Units:  s.unitSnapshots(),
		Shells: s.shells.Shells(),
		Waves:  s.waveStats(),
		Match:  s.matchStats(),
	}
}

// Units returns every unit on the battlefield ordered by id
func (s *Simulation) Units() []UnitSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unitSnapshots()
}

// WaveStats returns the wave director's state
func (s *Simulation) WaveStats() WaveStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.waveStats()
}

func (s *Simulation) unitSnapshots() []UnitSnapshot {
	byUnit := make(map[int]*Controller, len(s.controllers))
	for _, c := range s.controllers {
		byUnit[c.Unit().ID] = c
	}

	units := s.world.Units()
	out := make([]UnitSnapshot, 0, len(units))
	for _, u := range units {
		us := UnitSnapshot{
			ID:        u.ID,
			Team:      u.Team,
			Class:     u.Class,
			Name:      u.Class.String(),
			Pos:       u.Pos,
			Dir:       u.Dir,
			Health:    u.Health,
			MaxHealth: u.MaxHealth,
			Status:    u.Status,
		}
		if u.Weapon != nil {
			us.Charge = u.Weapon.ChargeRatio
			us.Charging = u.Weapon.Charging
		}
		if c, ok := byUnit[u.ID]; ok {
			us.State = c.State().String()
			if lock, ok := c.Lock(); ok {
				us.Target = lock.TargetID
			}
		}
		_, us.Pilot = s.pilots[u.ID]
		out = append(out, us)
	}
	return out
}

func (s *Simulation) waveStats() WaveStats {
	d := s.director
	return WaveStats{
		State:         d.State().String(),
		Wave:          d.CurrentWave(),
		NextCount:     d.ExpectedSpawnCount(),
		Live:          d.LivePopulationCount(),
		NextWaveIn:    d.TimeToNextWave(),
		Interval:      d.Params().Interval,
		DefendersLeft: s.world.Count(game.TeamDefender),
	}
}

func (s *Simulation) matchStats() MatchStats {
	m := s.match
	return MatchStats{
		ID:           m.ID,
		Round:        m.Round,
		DefenderWins: m.DefenderWins,
		HostileWins:  m.HostileWins,
		RoundOver:    m.RoundOver,
		GameOver:     m.GameOver,
		Winner:       m.Winner,
		Message:      m.Message(),
	}
}

// Encode marshals v in the named wire format
func Encode(format string, v any) ([]byte, error) {
	switch format {
	case FormatMsgpack:
		return msgpack.Marshal(v)
	case FormatJSON, "":
		return json.Marshal(v)
	}
	return nil, fmt.Errorf("encode: unknown format %q", format)
}

// Decode unmarshals data in the named wire format into v
func Decode(format string, data []byte, v any) error {
	switch format {
	case FormatMsgpack:
		return msgpack.Unmarshal(data, v)
	case FormatJSON, "":
		return json.Unmarshal(data, v)
	}
	return fmt.Errorf("decode: unknown format %q", format)
}
