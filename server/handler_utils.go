package server

import (
	"math"
	"strings"

	"github.com/lab1702/tank-arena/game"
)

// Handler data structures

// UnitData names the unit a command applies to
type UnitData struct {
	ID int `json:"id"`
}

// DamageData requests damage against a unit
type DamageData struct {
	ID     int     `json:"id"`
	Amount float64 `json:"amount"`
}

// MoveData represents movement commands for a player-driven defender
type MoveData struct {
	ID    int     `json:"id"`
	Dir   float64 `json:"dir"`   // Direction in radians
	Speed float64 `json:"speed"` // Desired speed
}

// SpawnData requests a new unit
type SpawnData struct {
	Class string  `json:"class"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Dir   float64 `json:"dir"`
	Pilot bool    `json:"pilot"`
}

// Utility functions

// validateDirection ensures direction is within valid range [0, 2*pi]
func validateDirection(dir float64) float64 {
	if math.IsNaN(dir) || math.IsInf(dir, 0) {
		return 0
	}
	dir = math.Mod(dir, 2*math.Pi)
	if dir < 0 {
		dir += 2 * math.Pi
	}
	return dir
}

// validateFinite replaces NaN and infinities with zero
func validateFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// classAlias maps class names and abbreviations to unit classes
var classAlias = map[string]game.UnitClass{
	"TANK": game.ClassTank, "TK": game.ClassTank,
	"SHOOTER": game.ClassShooter, "SH": game.ClassShooter,
	"BRAWLER": game.ClassBrawler, "BR": game.ClassBrawler,
}

// parseClass resolves a class name case-insensitively
func parseClass(name string) (game.UnitClass, bool) {
	c, ok := classAlias[strings.ToUpper(strings.TrimSpace(name))]
	return c, ok
}
