package server

import (
	"errors"
	"sync"
	"testing"

	"github.com/lab1702/tank-arena/game"
	"github.com/vmihailenco/msgpack/v5"
)

type published struct {
	subject string
	data    []byte
}

// fakePublisher stands in for a NATS connection
type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(subj string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{subj, data})
	return nil
}

func TestNATSSinkPublishesByKind(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewNATSSink(pub, "arena.effects", quietLogger)

	sent := []game.Effect{
		{Kind: game.EffectFire, UnitID: 3, Team: game.TeamHostile, Class: game.ClassShooter, Pos: game.V(1, 2), Force: 17.5, Target: 1},
		{Kind: game.EffectDamage, UnitID: 1, Team: game.TeamDefender, Amount: 30, Source: 3},
		{Kind: game.EffectWave, Wave: 2, Amount: 3},
	}
	for _, e := range sent {
		sink.Emit(e)
	}

	if len(pub.msgs) != len(sent) {
		t.Fatalf("published %d messages, want %d", len(pub.msgs), len(sent))
	}
	for i, msg := range pub.msgs {
		want := "arena.effects." + string(sent[i].Kind)
		if msg.subject != want {
			t.Errorf("message %d subject = %q, want %q", i, msg.subject, want)
		}
		var got game.Effect
		if err := msgpack.Unmarshal(msg.data, &got); err != nil {
			t.Fatalf("decode message %d: %v", i, err)
		}
		if got != sent[i] {
			t.Errorf("message %d = %+v, want %+v", i, got, sent[i])
		}
	}
	if sink.Failed() != 0 {
		t.Errorf("Failed = %d, want 0", sink.Failed())
	}
}

func TestNATSSinkCountsFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection closed")}
	sink := NewNATSSink(pub, "arena", quietLogger)

	for i := 0; i < 3; i++ {
		sink.Emit(game.Effect{Kind: game.EffectDeath, UnitID: i})
	}
	if sink.Failed() != 3 {
		t.Errorf("Failed = %d, want 3", sink.Failed())
	}
}

func TestNATSSinkSubject(t *testing.T) {
	sink := NewNATSSink(&fakePublisher{}, "tanks", nil)
	if got := sink.Subject(game.EffectImpact); got != "tanks.impact" {
		t.Errorf("Subject = %q, want tanks.impact", got)
	}
}
