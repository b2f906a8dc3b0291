package server

import (
	"math"
	"math/rand"

	"github.com/lab1702/tank-arena/game"
)

// randomRange returns a uniform value in [lo, hi)
func randomRange(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

// randomReacquireInterval spreads target re-evaluation across ticks so
// controllers spawned together do not all search on the same frame.
func randomReacquireInterval(rng *rand.Rand, lo, hi float64) float64 {
	if lo <= 0 && hi <= 0 {
		lo, hi = DefaultReacquireMin, DefaultReacquireMax
	}
	return randomRange(rng, lo, hi)
}

// randomFleeAngle returns a turn of 90 to 180 degrees with a random sign
func randomFleeAngle(rng *rand.Rand) float64 {
	angle := game.Deg(randomRange(rng, FleeAngleMinDeg, FleeAngleMaxDeg))
	if rng.Float64() < 0.5 {
		angle = -angle
	}
	return angle
}

// randomPointInDisc returns a uniformly distributed point within radius of center
func randomPointInDisc(rng *rand.Rand, center game.Vec2, radius float64) game.Vec2 {
	r := radius * math.Sqrt(rng.Float64())
	theta := rng.Float64() * 2 * math.Pi
	return center.Add(game.HeadingVec(theta).Scale(r))
}

// randomPointOnCircle returns a point radius away from center at a random angle
func randomPointOnCircle(rng *rand.Rand, center game.Vec2, radius float64) (game.Vec2, float64) {
	theta := rng.Float64() * 2 * math.Pi
	return center.Add(game.HeadingVec(theta).Scale(radius)), theta
}
