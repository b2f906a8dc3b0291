package server

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/lab1702/tank-arena/game"
	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

// Publisher is the part of *nats.Conn the effects sink uses
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSSink publishes every effect as msgpack on <prefix>.<kind> so audio
// and visual services can subscribe to just the kinds they render.
type NATSSink struct {
	pub    Publisher
	prefix string
	logger *log.Logger
	failed atomic.Int64
}

// NewNATSSink creates a sink publishing through pub
func NewNATSSink(pub Publisher, prefix string, logger *log.Logger) *NATSSink {
	if logger == nil {
		logger = log.Default()
	}
	return &NATSSink{
		pub:    pub,
		prefix: prefix,
		logger: logger.With("component", "nats"),
	}
}

// Subject returns the subject an effect kind is published on
func (n *NATSSink) Subject(kind game.EffectKind) string {
	return n.prefix + "." + string(kind)
}

// Emit implements game.EffectSink. Publish only buffers, so it never blocks
// the simulation; failures are counted and the first one is logged.
func (n *NATSSink) Emit(e game.Effect) {
	data, err := msgpack.Marshal(&e)
	if err != nil {
		n.logger.Error("encode effect", "kind", e.Kind, "error", err)
		return
	}
	if err := n.pub.Publish(n.Subject(e.Kind), data); err != nil {
		if n.failed.Add(1) == 1 {
			n.logger.Warn("publish effect failed", "subject", n.Subject(e.Kind), "error", err)
		}
	}
}

// Failed returns how many effects could not be published
func (n *NATSSink) Failed() int64 { return n.failed.Load() }

// ConnectNATS dials the broker and keeps reconnecting for the life of the
// process.
func ConnectNATS(url string, logger *log.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = log.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("tank-arena"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}
