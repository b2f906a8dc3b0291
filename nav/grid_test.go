package nav

import (
	"errors"
	"math"
	"testing"

	"github.com/lab1702/tank-arena/game"
)

func newTestGrid(t *testing.T, walls ...Rect) *Grid {
	t.Helper()
	g, err := NewGrid(game.V(-20, -20), game.V(20, 20), 1)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	for _, w := range walls {
		g.BlockRect(w)
	}
	return g
}

func TestNewGridRejectsBadBounds(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   game.Vec2
		cellSize float64
	}{
		{"zero cell", game.V(0, 0), game.V(10, 10), 0},
		{"inverted", game.V(10, 10), game.V(0, 0), 1},
		{"flat", game.V(0, 0), game.V(10, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGrid(tt.lo, tt.hi, tt.cellSize); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestComputePathOpenGrid(t *testing.T) {
	g := newTestGrid(t)
	to := game.V(10, 5)

	path, err := g.ComputePath(game.V(-10, -5), to)
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	if len(path) != 1 || path[0] != to {
		t.Errorf("Expected a single straight waypoint %v, got %v", to, path)
	}
}

func TestComputePathAroundWall(t *testing.T) {
	wall := Rect{Min: game.V(-0.5, -15), Max: game.V(0.5, 15)}
	g := newTestGrid(t, wall)
	from, to := game.V(-10, 0), game.V(10, 0)

	if g.HasLineOfSight(from, to) {
		t.Fatal("Wall should block line of sight")
	}

	path, err := g.ComputePath(from, to)
	if err != nil {
		t.Fatalf("ComputePath: %v", err)
	}
	if len(path) < 2 {
		t.Fatalf("Expected a detour with several waypoints, got %v", path)
	}
	if path[len(path)-1] != to {
		t.Errorf("Path should end at %v, got %v", to, path[len(path)-1])
	}

	prev := from
	for i, w := range path {
		if g.Blocked(w) {
			t.Errorf("Waypoint %d %v is inside an obstacle", i, w)
		}
		if !g.HasLineOfSight(prev, w) {
			t.Errorf("Segment %v -> %v crosses an obstacle", prev, w)
		}
		prev = w
	}

	if l := PathLength(from, path); l <= from.Dist(to) {
		t.Errorf("Detour length %.1f should exceed straight distance %.1f", l, from.Dist(to))
	}
}

func TestComputePathUnreachable(t *testing.T) {
	tests := []struct {
		name string
		wall Rect
		to   game.Vec2
	}{
		{"goal inside obstacle", Rect{Min: game.V(4, 4), Max: game.V(6, 6)}, game.V(5, 5)},
		{"split battlefield", Rect{Min: game.V(-0.5, -30), Max: game.V(0.5, 30)}, game.V(10, 0)},
		{"off the grid", Rect{}, game.V(50, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, tt.wall)
			_, err := g.ComputePath(game.V(-10, 0), tt.to)
			if !errors.Is(err, game.ErrNoPath) {
				t.Errorf("Expected ErrNoPath, got %v", err)
			}
		})
	}
}

func TestPathCursor(t *testing.T) {
	p := NewPath([]game.Vec2{game.V(1, 0), game.V(2, 0)})

	if w, ok := p.Current(); !ok || w != game.V(1, 0) {
		t.Errorf("Expected first waypoint, got %v (%v)", w, ok)
	}
	p.Advance()
	if p.Done() {
		t.Error("Path should not be done with one waypoint left")
	}
	p.Advance()
	p.Advance()
	if !p.Done() {
		t.Error("Path should be done after passing every waypoint")
	}
	if w, _ := p.Current(); w != game.V(2, 0) {
		t.Errorf("Exhausted path should hold on the last waypoint, got %v", w)
	}

	var empty *Path
	if !empty.Done() {
		t.Error("Nil path counts as done")
	}
}

func TestPathLength(t *testing.T) {
	got := PathLength(game.V(0, 0), []game.Vec2{game.V(3, 4), game.V(3, 10)})
	if math.Abs(got-11) > 1e-9 {
		t.Errorf("Expected 11, got %.3f", got)
	}
}

func TestOpenField(t *testing.T) {
	var n Navigator = OpenField{}
	path, err := n.ComputePath(game.V(0, 0), game.V(3, 3))
	if err != nil || len(path) != 1 {
		t.Errorf("Expected direct path, got %v (%v)", path, err)
	}
	if !n.HasLineOfSight(game.V(0, 0), game.V(100, 100)) {
		t.Error("Open field never blocks line of sight")
	}
}
