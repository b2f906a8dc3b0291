package game

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestPredictDistanceEndpoints(t *testing.T) {
	w := &ChargeWeapon{MinLaunchForce: 10, MaxLaunchForce: 25, MaxChargeTime: 0.75}
	mount := DefaultMount

	tests := []struct {
		name  string
		ratio float64
		speed float64
	}{
		{"empty charge", 0, 10},
		{"full charge", 1, 25},
		{"half charge", 0.5, 17.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PredictDistance(&mount, w, tt.ratio)
			if err != nil {
				t.Fatalf("PredictDistance: %v", err)
			}
			want := RangeAtSpeed(mount, tt.speed)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("Expected %.4f, got %.4f", want, got)
			}
		})
	}
}

func TestRangeAtSpeedFlatLaunch(t *testing.T) {
	// A horizontal shot from height h falls for sqrt(2h/g) seconds
	mount := WeaponMount{Height: 2, Forward: 1, Pitch: 0}
	speed := 20.0

	expected := 1 + speed*math.Sqrt(2*2/Gravity)
	got := RangeAtSpeed(mount, speed)

	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected %.4f, got %.4f", expected, got)
	}
}

func TestPredictDistanceMissingMount(t *testing.T) {
	w := &ChargeWeapon{MinLaunchForce: 10, MaxLaunchForce: 25}

	_, err := PredictDistance(nil, w, 0.5)
	if !errors.Is(err, ErrNoWeaponMount) {
		t.Errorf("Expected ErrNoWeaponMount, got %v", err)
	}
	if !IsMissingDependency(err) {
		t.Error("Missing mount should classify as a missing dependency")
	}
}

func TestMaxShootingDistance(t *testing.T) {
	u := newTestUnit(t, ClassShooter)
	stats := UnitData[ClassShooter]

	d, err := MaxShootingDistance(u, stats.AttackRange)
	if err != nil {
		t.Fatalf("MaxShootingDistance: %v", err)
	}
	if d <= stats.AttackRange {
		t.Errorf("Full charge reach %.1f should exceed attack range %.1f", d, stats.AttackRange)
	}
	if got := EffectiveRange(d, stats.AttackRange); got != stats.AttackRange {
		t.Errorf("Expected effective range %.1f, got %.1f", stats.AttackRange, got)
	}

	u.Mount = nil
	d, err = MaxShootingDistance(u, stats.AttackRange)
	if err == nil {
		t.Error("Expected error without a mount")
	}
	if d != stats.AttackRange {
		t.Errorf("Expected fallback to attack range %.1f, got %.1f", stats.AttackRange, d)
	}
}

func TestPredictLandingFollowsHeading(t *testing.T) {
	u := newTestUnit(t, ClassTank)
	u.Pos = V(5, 5)
	u.Dir = math.Pi / 2

	p, err := PredictLanding(u, 1)
	if err != nil {
		t.Fatalf("PredictLanding: %v", err)
	}
	if math.Abs(p.X-5) > 1e-9 || p.Y <= 5 {
		t.Errorf("Expected landing straight along +Y, got %v", p)
	}
}

func TestPredictDistanceMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		minF := rapid.Float64Range(1, 30).Draw(t, "min")
		maxF := minF + rapid.Float64Range(0, 30).Draw(t, "spread")
		mount := WeaponMount{
			Height:  rapid.Float64Range(0, 3).Draw(t, "height"),
			Forward: rapid.Float64Range(0, 2).Draw(t, "forward"),
			Pitch:   Deg(rapid.Float64Range(0, 45).Draw(t, "pitch")),
		}
		w := &ChargeWeapon{MinLaunchForce: minF, MaxLaunchForce: maxF}

		r1 := rapid.Float64Range(0, 1).Draw(t, "r1")
		r2 := rapid.Float64Range(r1, 1).Draw(t, "r2")

		d1, err := PredictDistance(&mount, w, r1)
		if err != nil {
			t.Fatal(err)
		}
		d2, err := PredictDistance(&mount, w, r2)
		if err != nil {
			t.Fatal(err)
		}
		if d2 < d1-1e-9 {
			t.Fatalf("distance decreased with charge: r1=%.3f d1=%.4f r2=%.3f d2=%.4f", r1, d1, r2, d2)
		}
	})
}
