package server

import (
	"fmt"
	"sort"

	"github.com/lab1702/tank-arena/game"
)

// World is the registry of every unit in the current round. It is owned by
// the simulation goroutine; controllers only read from it.
type World struct {
	units  map[int]*game.Unit
	nextID int
	grid   *SpatialGrid
}

// NewWorld creates an empty world
func NewWorld() *World {
	return &World{
		units:  make(map[int]*game.Unit),
		nextID: 1,
		grid:   NewSpatialGrid(GridCellSize),
	}
}

// Spawn creates a unit of class at pos and registers it. New units become
// visible to Nearby after the next Reindex.
func (w *World) Spawn(class game.UnitClass, pos game.Vec2, dir float64) (*game.Unit, error) {
	u, err := game.NewUnit(w.nextID, class, pos, dir)
	if err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	w.nextID++
	w.units[u.ID] = u
	return u, nil
}

// Unit returns the unit with id whatever its status
func (w *World) Unit(id int) (*game.Unit, bool) {
	u, ok := w.units[id]
	return u, ok
}

// Resolve returns the live unit with id. Missing and dead units yield
// game.ErrStaleTarget.
func (w *World) Resolve(id int) (*game.Unit, error) {
	u, ok := w.units[id]
	if !ok || !u.IsAlive() {
		return nil, fmt.Errorf("unit %d: %w", id, game.ErrStaleTarget)
	}
	return u, nil
}

// Units returns every registered unit ordered by id
func (w *World) Units() []*game.Unit {
	out := make([]*game.Unit, 0, len(w.units))
	for _, u := range w.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Alive returns the live units of team ordered by id
func (w *World) Alive(team game.Team) []*game.Unit {
	var out []*game.Unit
	for _, u := range w.Units() {
		if u.Team == team && u.IsAlive() {
			out = append(out, u)
		}
	}
	return out
}

// AliveDefenders implements DefenderSource
func (w *World) AliveDefenders() []*game.Unit {
	return w.Alive(game.TeamDefender)
}

// Count returns the number of live units on team
func (w *World) Count(team game.Team) int {
	n := 0
	for _, u := range w.units {
		if u.Team == team && u.IsAlive() {
			n++
		}
	}
	return n
}

// Reindex rebuilds the spatial index from the current unit positions. The
// index is the snapshot every controller reads during a decision tick.
func (w *World) Reindex() {
	w.grid.IndexUnits(w.Units())
}

// Nearby returns live units of team within radius of pos, ordered by id.
func (w *World) Nearby(pos game.Vec2, radius float64, team game.Team) []*game.Unit {
	ids := w.grid.GetNearby(pos.X, pos.Y, radius)
	sort.Ints(ids)

	var out []*game.Unit
	for _, id := range ids {
		u, ok := w.units[id]
		if !ok || u.Team != team || !u.IsAlive() {
			continue
		}
		if pos.Dist(u.Pos) <= radius {
			out = append(out, u)
		}
	}
	return out
}

// Reap advances the removal timers of dead units and drops the ones whose
// grace delay has elapsed. It returns the removed units.
func (w *World) Reap(dt float64) []*game.Unit {
	var removed []*game.Unit
	for _, u := range w.Units() {
		if u.AdvanceRemoval(dt) {
			delete(w.units, u.ID)
			removed = append(removed, u)
		}
	}
	return removed
}

// Clear removes every unit. Ids keep increasing across rounds.
func (w *World) Clear() {
	w.units = make(map[int]*game.Unit)
	w.grid.Clear()
}
