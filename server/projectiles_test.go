package server

import (
	"math"
	"testing"

	"github.com/lab1702/tank-arena/game"
)

type recordedHit struct {
	source int
	target int
	amount float64
}

func newTestShells(t *testing.T) (*ShellSystem, *World, *[]recordedHit, *[]game.Effect) {
	t.Helper()
	w := NewWorld()
	var hits []recordedHit
	var effects []game.Effect
	s := NewShellSystem(w,
		func(source int, target *game.Unit, amount float64) {
			hits = append(hits, recordedHit{source, target.ID, amount})
			target.ApplyDamage(amount)
		},
		game.EffectFunc(func(e game.Effect) { effects = append(effects, e) }),
		quietLogger)
	return s, w, &hits, &effects
}

func fireEffect(u *game.Unit, force float64) game.Effect {
	e := game.UnitEffect(game.EffectFire, u)
	e.Force = force
	return e
}

func TestShellLandsWherePredicted(t *testing.T) {
	tests := []struct {
		name  string
		class game.UnitClass
		dir   float64
		force float64
	}{
		{"tank minimum charge", game.ClassTank, 0, 15},
		{"tank full charge", game.ClassTank, math.Pi / 3, 30},
		{"shooter half charge", game.ClassShooter, -math.Pi / 2, 17.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, w, _, _ := newTestShells(t)
			u := spawnUnit(t, w, tt.class, game.V(3, 4), tt.dir)

			sh := s.Launch(fireEffect(u, tt.force))
			if sh == nil {
				t.Fatal("Launch returned nil")
			}

			want, err := game.PredictLanding(u, (tt.force-u.Weapon.MinLaunchForce)/(u.Weapon.MaxLaunchForce-u.Weapon.MinLaunchForce))
			if err != nil {
				t.Fatalf("PredictLanding: %v", err)
			}
			if sh.Landing.Dist(want) > 1e-9 {
				t.Errorf("Landing = %v, predicted %v", sh.Landing, want)
			}
		})
	}
}

func TestShellFlight(t *testing.T) {
	s, w, _, effects := newTestShells(t)
	tank := spawnUnit(t, w, game.ClassTank, game.V(0, 0), 0)

	s.Emit(fireEffect(tank, 20))
	if s.Count() != 1 {
		t.Fatalf("Count = %d, want 1 shell after a fire effect", s.Count())
	}
	flight := game.FlightTime(game.DefaultMount, 20)

	// Halfway through the flight the shell is above the launch height
	s.Update(flight / 2)
	sh := s.Shells()[0]
	if sh.Height <= game.DefaultMount.Height {
		t.Errorf("Height = %.2f mid-flight, want above %.2f", sh.Height, game.DefaultMount.Height)
	}
	if sh.Pos.X <= game.DefaultMount.Forward || sh.Pos.X >= sh.Landing.X {
		t.Errorf("Pos = %v, want between the muzzle and %v", sh.Pos, sh.Landing)
	}

	s.Update(flight)
	if s.Count() != 0 {
		t.Errorf("Count = %d after landing, want 0", s.Count())
	}
	if len(*effects) != 1 || (*effects)[0].Kind != game.EffectImpact {
		t.Fatalf("effects = %+v, want one impact", *effects)
	}
	if got := (*effects)[0].Pos; got.Dist(sh.Landing) > 1e-9 {
		t.Errorf("impact at %v, want %v", got, sh.Landing)
	}
}

func TestShellIgnoresOtherEffects(t *testing.T) {
	s, w, _, _ := newTestShells(t)
	tank := spawnUnit(t, w, game.ClassTank, game.V(0, 0), 0)

	for _, kind := range []game.EffectKind{game.EffectDamage, game.EffectDeath, game.EffectSpawn, game.EffectWave} {
		s.Emit(game.UnitEffect(kind, tank))
	}
	if s.Count() != 0 {
		t.Errorf("Count = %d, want only fire effects to launch shells", s.Count())
	}
}

func TestShellSplashDamage(t *testing.T) {
	s, w, hits, _ := newTestShells(t)
	tank := spawnUnit(t, w, game.ClassTank, game.V(0, 0), 0)

	sh := s.Launch(fireEffect(tank, 20))
	landing := sh.Landing

	direct := spawnUnit(t, w, game.ClassShooter, landing, 0)
	edge := spawnUnit(t, w, game.ClassShooter, landing.Add(game.V(0, 2.5)), 0)
	outside := spawnUnit(t, w, game.ClassBrawler, landing.Add(game.V(0, -6)), 0)
	friendly := spawnUnit(t, w, game.ClassTank, landing.Add(game.V(1, 0)), 0)

	s.Update(10)

	byTarget := make(map[int]recordedHit)
	for _, h := range *hits {
		byTarget[h.target] = h
	}
	if len(byTarget) != 2 {
		t.Fatalf("hits = %+v, want exactly the two shooters", *hits)
	}

	tests := []struct {
		name string
		unit *game.Unit
		want float64
	}{
		{"direct hit", direct, 100},
		{"half radius", edge, 50},
		{"outside radius", outside, 0},
		{"friendly fire", friendly, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := byTarget[tt.unit.ID].amount
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("damage = %.2f, want %.2f", got, tt.want)
			}
			if tt.want > 0 && byTarget[tt.unit.ID].source != tank.ID {
				t.Errorf("source = %d, want %d", byTarget[tt.unit.ID].source, tank.ID)
			}
		})
	}

	if direct.IsAlive() {
		t.Error("direct hit for full damage should kill the shooter")
	}
	if friendly.Health != friendly.MaxHealth {
		t.Errorf("friendly tank took damage: health %.0f", friendly.Health)
	}
}

func TestShellUnknownClass(t *testing.T) {
	s, _, _, _ := newTestShells(t)
	if sh := s.Launch(game.Effect{Kind: game.EffectFire, Class: game.UnitClass(42), Force: 10}); sh != nil {
		t.Errorf("Launch for unknown class = %+v, want nil", sh)
	}
}

func TestShellClear(t *testing.T) {
	s, w, hits, _ := newTestShells(t)
	tank := spawnUnit(t, w, game.ClassTank, game.V(0, 0), 0)
	sh := s.Launch(fireEffect(tank, 15))
	spawnUnit(t, w, game.ClassShooter, sh.Landing, 0)

	s.Clear()
	s.Update(10)
	if len(*hits) != 0 {
		t.Errorf("cleared shell still detonated: %+v", *hits)
	}
}
