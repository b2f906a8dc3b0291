package server

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lab1702/tank-arena/game"
)

// MatchParams controls how rounds are won
type MatchParams struct {
	RoundsToWin int `yaml:"rounds_to_win" json:"roundsToWin"` // round wins needed to take the match
	RoundWaves  int `yaml:"round_waves" json:"roundWaves"`    // waves defenders must clear to win a round
}

// DefaultMatchParams returns five rounds to win and five waves per round
func DefaultMatchParams() MatchParams {
	return MatchParams{RoundsToWin: 5, RoundWaves: 5}
}

// RoundStatus is what Match.Check observed at the end of a tick
type RoundStatus struct {
	DefendersAlive int
	HostilesAlive  int
	WavesSpawned   int
}

// Match keeps score across rounds. A round goes to the hostiles when every
// defender is dead and to the defenders once they have cleared RoundWaves
// waves with no hostile left standing.
type Match struct {
	ID           string    `json:"id"`
	Round        int       `json:"round"`
	DefenderWins int       `json:"defenderWins"`
	HostileWins  int       `json:"hostileWins"`
	RoundWinner  game.Team `json:"roundWinner"`
	Winner       game.Team `json:"winner"`
	RoundOver    bool      `json:"roundOver"`
	GameOver     bool      `json:"gameOver"`

	params MatchParams
	logger *log.Logger
}

// NewMatch starts a match at round 1
func NewMatch(params MatchParams, logger *log.Logger) *Match {
	if params.RoundsToWin < 1 {
		params.RoundsToWin = 1
	}
	if params.RoundWaves < 1 {
		params.RoundWaves = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	m := &Match{params: params}
	m.logger = logger.With("component", "match")
	m.restart()
	return m
}

func (m *Match) restart() {
	m.ID = uuid.NewString()
	m.Round = 1
	m.DefenderWins = 0
	m.HostileWins = 0
	m.RoundWinner = game.TeamNone
	m.Winner = game.TeamNone
	m.RoundOver = false
	m.GameOver = false
}

// Check decides whether the current round just ended. It returns the
// winning team and true only on the tick the round is decided.
func (m *Match) Check(st RoundStatus) (game.Team, bool) {
	if m.RoundOver || m.GameOver {
		return game.TeamNone, false
	}

	var winner game.Team
	switch {
	case st.DefendersAlive == 0:
		winner = game.TeamHostile
	case st.WavesSpawned >= m.params.RoundWaves && st.HostilesAlive == 0:
		winner = game.TeamDefender
	default:
		return game.TeamNone, false
	}

	m.RoundOver = true
	m.RoundWinner = winner
	if winner == game.TeamDefender {
		m.DefenderWins++
	} else {
		m.HostileWins++
	}
	m.logger.Info("round over", "match", m.ID, "round", m.Round, "winner", winner,
		"defenders", m.DefenderWins, "hostiles", m.HostileWins)

	if m.DefenderWins >= m.params.RoundsToWin || m.HostileWins >= m.params.RoundsToWin {
		m.GameOver = true
		m.Winner = winner
		m.logger.Info("game over", "match", m.ID, "winner", winner)
	}
	return winner, true
}

// NextRound clears the round result. After game over it starts a fresh
// match with a new id.
func (m *Match) NextRound() {
	if m.GameOver {
		m.restart()
		m.logger.Info("new match", "match", m.ID)
		return
	}
	if m.RoundOver {
		m.Round++
	}
	m.RoundOver = false
	m.RoundWinner = game.TeamNone
}

// Params returns the match settings
func (m *Match) Params() MatchParams { return m.params }

// Message returns a one-line announcement of the current result
func (m *Match) Message() string {
	switch {
	case m.GameOver:
		return fmt.Sprintf("%s win the match %d-%d", teamPlural(m.Winner), m.DefenderWins, m.HostileWins)
	case m.RoundOver:
		return fmt.Sprintf("%s win round %d", teamPlural(m.RoundWinner), m.Round)
	}
	return fmt.Sprintf("round %d", m.Round)
}

func teamPlural(t game.Team) string {
	switch t {
	case game.TeamDefender:
		return "Defenders"
	case game.TeamHostile:
		return "Hostiles"
	}
	return "Nobody"
}
