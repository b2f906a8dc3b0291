// Package nav answers path and line-of-sight queries for units moving
// across the battlefield.
package nav

import "github.com/lab1702/tank-arena/game"

//go:generate go tool mockgen -destination=../mocks/mock_navigator.go -package=mocks . Navigator

// Navigator computes paths between points and tests whether the straight
// line between two points is obstructed.
type Navigator interface {
	// ComputePath returns the waypoints leading from from to to, excluding
	// from itself. It returns an error wrapping game.ErrNoPath when to
	// cannot be reached.
	ComputePath(from, to game.Vec2) ([]game.Vec2, error)
	HasLineOfSight(from, to game.Vec2) bool
}

// Path is an ordered list of waypoints plus a cursor to the next one.
type Path struct {
	Waypoints []game.Vec2
	Cursor    int
}

// NewPath wraps waypoints with the cursor on the first one.
func NewPath(waypoints []game.Vec2) *Path {
	return &Path{Waypoints: waypoints}
}

// Current returns the waypoint being steered toward. The last waypoint is
// returned once the path is exhausted.
func (p *Path) Current() (game.Vec2, bool) {
	if p == nil || len(p.Waypoints) == 0 {
		return game.Vec2{}, false
	}
	if p.Cursor >= len(p.Waypoints) {
		return p.Waypoints[len(p.Waypoints)-1], true
	}
	return p.Waypoints[p.Cursor], true
}

// Advance moves the cursor to the next waypoint
func (p *Path) Advance() {
	if p != nil && p.Cursor < len(p.Waypoints) {
		p.Cursor++
	}
}

// Done reports whether every waypoint has been reached
func (p *Path) Done() bool {
	return p == nil || p.Cursor >= len(p.Waypoints)
}

// Remaining returns the waypoints not yet reached
func (p *Path) Remaining() []game.Vec2 {
	if p.Done() {
		return nil
	}
	return p.Waypoints[p.Cursor:]
}

// PathLength sums the segment lengths from from through every waypoint.
func PathLength(from game.Vec2, waypoints []game.Vec2) float64 {
	total := 0.0
	prev := from
	for _, w := range waypoints {
		total += prev.Dist(w)
		prev = w
	}
	return total
}

// OpenField is a navigator for a battlefield with no obstacles: every point
// is reachable in a straight line.
type OpenField struct{}

func (OpenField) ComputePath(from, to game.Vec2) ([]game.Vec2, error) {
	return []game.Vec2{to}, nil
}

func (OpenField) HasLineOfSight(from, to game.Vec2) bool { return true }
