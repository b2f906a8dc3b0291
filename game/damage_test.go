package game

import (
	"testing"

	"pgregory.net/rapid"
)

func newTestUnit(t testing.TB, class UnitClass) *Unit {
	u, err := NewUnit(1, class, Vec2{}, 0)
	if err != nil {
		t.Fatalf("NewUnit: %v", err)
	}
	return u
}

func TestApplyDamageSequence(t *testing.T) {
	u := newTestUnit(t, ClassShooter)
	deaths := 0
	u.OnDeath(func(*Unit) { deaths++ })

	expected := []struct {
		health float64
		killed bool
	}{
		{70, false},
		{40, false},
		{10, false},
		{0, true},
	}

	for i, want := range expected {
		killed := u.ApplyDamage(30)
		if killed != want.killed {
			t.Errorf("Call %d: expected killed=%v, got %v", i+1, want.killed, killed)
		}
		if u.CurrentHealth() != want.health {
			t.Errorf("Call %d: expected health %.0f, got %.0f", i+1, want.health, u.CurrentHealth())
		}
		if i < 3 && deaths != 0 {
			t.Errorf("Call %d: death fired early", i+1)
		}
	}

	if deaths != 1 {
		t.Errorf("Expected exactly 1 death notification, got %d", deaths)
	}
	if u.IsAlive() {
		t.Error("Unit should be dead after health reached 0")
	}
}

func TestApplyDamageIgnored(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		dead   bool
	}{
		{"zero", 0, false},
		{"negative", -25, false},
		{"dead unit", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newTestUnit(t, ClassTank)
			if tt.dead {
				u.ApplyDamage(u.MaxHealth)
			}
			before := u.CurrentHealth()

			if u.ApplyDamage(tt.amount) {
				t.Error("ApplyDamage reported a kill for an ignored call")
			}
			if u.CurrentHealth() != before {
				t.Errorf("Expected health %.1f, got %.1f", before, u.CurrentHealth())
			}
		})
	}
}

func TestDeathCancelsCharge(t *testing.T) {
	u := newTestUnit(t, ClassTank)
	u.Weapon.StartCharging()
	u.Weapon.Advance(0.3)

	u.ApplyDamage(500)

	if u.Weapon.Charging || u.Weapon.ChargeRatio != 0 {
		t.Errorf("Expected charge cleared on death, got charging=%v ratio=%.2f",
			u.Weapon.Charging, u.Weapon.ChargeRatio)
	}
}

func TestDeadUnitIgnoresMovement(t *testing.T) {
	u := newTestUnit(t, ClassTank)
	u.ApplyDamage(u.MaxHealth)

	u.MoveTo(V(10, 10))
	u.Rotate(1)

	if !u.Pos.IsZero() || u.Dir != 0 {
		t.Errorf("Dead unit moved: pos=%v dir=%.2f", u.Pos, u.Dir)
	}
}

func TestAdvanceRemoval(t *testing.T) {
	tests := []struct {
		class UnitClass
		delay float64
	}{
		{ClassTank, 1.0},
		{ClassShooter, 0.5},
		{ClassBrawler, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.class.String(), func(t *testing.T) {
			u := newTestUnit(t, tt.class)
			if u.AdvanceRemoval(10) {
				t.Fatal("Live unit must never become removable")
			}

			u.ApplyDamage(u.MaxHealth)
			if u.AdvanceRemoval(tt.delay - 0.1) {
				t.Error("Removed before grace delay elapsed")
			}
			if !u.AdvanceRemoval(0.1) {
				t.Error("Expected removal once grace delay elapsed")
			}
			if u.Status != StatusRemoved {
				t.Errorf("Expected status %d, got %d", StatusRemoved, u.Status)
			}
			if u.AdvanceRemoval(1) {
				t.Error("Removal reported twice")
			}
		})
	}
}

func TestSplashDamage(t *testing.T) {
	tests := []struct {
		name     string
		dist     float64
		expected float64
	}{
		{"direct hit", 0, 100},
		{"half radius", 2.5, 50},
		{"edge", 5, 0},
		{"outside", 8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplashDamage(100, 5, tt.dist)
			if got != tt.expected {
				t.Errorf("Expected %.1f, got %.1f", tt.expected, got)
			}
		})
	}
}

func TestApplyDamageProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		class := UnitClass(rapid.IntRange(0, 2).Draw(t, "class"))
		u, err := NewUnit(1, class, Vec2{}, 0)
		if err != nil {
			t.Fatalf("NewUnit: %v", err)
		}
		deaths := 0
		u.OnDeath(func(*Unit) { deaths++ })

		hits := rapid.SliceOf(rapid.Float64Range(-50, 80)).Draw(t, "hits")
		wasDead := false
		for _, amount := range hits {
			u.ApplyDamage(amount)
			if u.Health < 0 || u.Health > u.MaxHealth {
				t.Fatalf("health %.2f outside [0, %.0f]", u.Health, u.MaxHealth)
			}
			if wasDead && u.IsAlive() {
				t.Fatal("dead unit came back to life")
			}
			wasDead = !u.IsAlive()
		}
		if deaths > 1 {
			t.Fatalf("death fired %d times", deaths)
		}
		if wasDead != (deaths == 1) {
			t.Fatalf("dead=%v but %d death notifications", wasDead, deaths)
		}
	})
}
