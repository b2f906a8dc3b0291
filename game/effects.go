package game

// EffectKind names what happened
type EffectKind string

const (
	EffectFire   EffectKind = "fire"
	EffectDamage EffectKind = "damage"
	EffectDeath  EffectKind = "death"
	EffectSpawn  EffectKind = "spawn"
	EffectWave   EffectKind = "wave"
	EffectImpact EffectKind = "impact"
)

// Effect is a fire-and-forget notification for audio, visual and projectile
// systems that live outside the simulation core.
type Effect struct {
	Kind   EffectKind `json:"kind" msgpack:"kind"`
	UnitID int        `json:"unit" msgpack:"unit"`
	Team   Team       `json:"team" msgpack:"team"`
	Class  UnitClass  `json:"class" msgpack:"class"`
	Pos    Vec2       `json:"pos" msgpack:"pos"`
	Dir    float64    `json:"dir,omitempty" msgpack:"dir,omitempty"`
	Force  float64    `json:"force,omitempty" msgpack:"force,omitempty"`  // launch force for fire effects
	Amount float64    `json:"amount,omitempty" msgpack:"amount,omitempty"` // damage dealt
	Source int        `json:"source,omitempty" msgpack:"source,omitempty"` // attacking unit id
	Target int        `json:"target,omitempty" msgpack:"target,omitempty"` // unit aimed at
	Wave   int        `json:"wave,omitempty" msgpack:"wave,omitempty"`
}

//go:generate go tool mockgen -destination=../mocks/mock_effect_sink.go -package=mocks . EffectSink

// EffectSink receives effects. Emit must not block the simulation.
type EffectSink interface {
	Emit(e Effect)
}

// EffectFunc adapts a plain function to EffectSink
type EffectFunc func(e Effect)

func (f EffectFunc) Emit(e Effect) { f(e) }

// Discard drops every effect
var Discard EffectSink = EffectFunc(func(Effect) {})

// MultiSink fans each effect out to every sink in order
type MultiSink []EffectSink

func (m MultiSink) Emit(e Effect) {
	for _, s := range m {
		if s != nil {
			s.Emit(e)
		}
	}
}

// UnitEffect fills the identifying fields of an effect from u
func UnitEffect(kind EffectKind, u *Unit) Effect {
	return Effect{
		Kind:   kind,
		UnitID: u.ID,
		Team:   u.Team,
		Class:  u.Class,
		Pos:    u.Pos,
		Dir:    u.Dir,
	}
}
