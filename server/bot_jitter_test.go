package server

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lab1702/tank-arena/game"
	"pgregory.net/rapid"
)

func TestRandomReacquireInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lo := rapid.Float64Range(0.1, 2).Draw(t, "lo")
		span := rapid.Float64Range(0, 2).Draw(t, "span")
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))

		got := randomReacquireInterval(rng, lo, lo+span)
		if got < lo || got > lo+span {
			t.Fatalf("interval %f outside [%f, %f]", got, lo, lo+span)
		}
	})
}

func TestRandomReacquireIntervalDefaults(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		got := randomReacquireInterval(rng, 0, 0)
		if got < DefaultReacquireMin || got >= DefaultReacquireMax {
			t.Fatalf("interval %f outside default band [%.1f, %.1f)", got, DefaultReacquireMin, DefaultReacquireMax)
		}
	}
}

func TestRandomFleeAngle(t *testing.T) {
	// Test that the turn is always 90 to 180 degrees and goes both ways
	rng := rand.New(rand.NewSource(42))
	minRad, maxRad := game.Deg(FleeAngleMinDeg), game.Deg(FleeAngleMaxDeg)

	var left, right int
	for i := 0; i < 1000; i++ {
		angle := randomFleeAngle(rng)
		if math.Abs(angle) < minRad || math.Abs(angle) > maxRad {
			t.Errorf("flee angle %.1f degrees outside [%.0f, %.0f]",
				angle*180/math.Pi, FleeAngleMinDeg, FleeAngleMaxDeg)
		}
		if angle < 0 {
			right++
		} else {
			left++
		}
	}

	if left == 0 || right == 0 {
		t.Errorf("flee angles only turn one way: left=%d right=%d", left, right)
	}
}

func TestRandomPoints(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		center := game.V(rapid.Float64Range(-100, 100).Draw(t, "x"), rapid.Float64Range(-100, 100).Draw(t, "y"))
		radius := rapid.Float64Range(0.5, 80).Draw(t, "radius")
		rng := rand.New(rand.NewSource(rapid.Int64().Draw(t, "seed")))

		if d := randomPointInDisc(rng, center, radius).Dist(center); d > radius+1e-9 {
			t.Fatalf("disc point %.4f from center, radius %.4f", d, radius)
		}

		p, theta := randomPointOnCircle(rng, center, radius)
		if d := p.Dist(center); math.Abs(d-radius) > 1e-9 {
			t.Fatalf("circle point %.6f from center, want %.6f", d, radius)
		}
		if want := center.Add(game.HeadingVec(theta).Scale(radius)); want.Dist(p) > 1e-9 {
			t.Fatalf("angle %.4f does not match point %v", theta, p)
		}
	})
}
