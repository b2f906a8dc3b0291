package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lab1702/tank-arena/game"
	"github.com/vmihailenco/msgpack/v5"
)

type wireMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// newTestServer serves a fresh simulation over httptest. Effects stream to
// connected clients through the hub.
func newTestServer(t *testing.T) (*Simulation, *httptest.Server) {
	t.Helper()
	hub := NewHub(quietLogger)
	opts := testOptions(&effectLog{})
	opts.Effects = hub
	sim := newTestSimulation(t, opts)
	srv := NewServer(sim, hub, quietLogger, 50)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	go srv.RunSnapshots(ctx)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return sim, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads JSON messages until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) wireMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %q: %v", msgType, err)
		}
		if msg.Type == msgType {
			return msg
		}
	}
}

func TestWebSocketWelcome(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts, "")

	msg := readUntil(t, conn, MsgTypeWelcome)
	var welcome struct {
		Client  int    `json:"client"`
		Session string `json:"session"`
	}
	if err := json.Unmarshal(msg.Data, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.Client == 0 || welcome.Session == "" {
		t.Errorf("welcome = %+v, want a client id and session", welcome)
	}
}

func TestWebSocketDamageStreamsEffects(t *testing.T) {
	sim, ts := newTestServer(t)
	conn := dial(t, ts, "")
	readUntil(t, conn, MsgTypeWelcome)

	id := unitsOf(sim, game.TeamDefender)[0].ID
	data, _ := json.Marshal(DamageData{ID: id, Amount: 25})
	if err := conn.WriteJSON(ClientMessage{Type: MsgTypeDamage, Data: data}); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg := readUntil(t, conn, MsgTypeEffect)
	var e game.Effect
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		t.Fatalf("decode effect: %v", err)
	}
	if e.Kind != game.EffectDamage || e.UnitID != id || e.Amount != 25 {
		t.Errorf("effect = %+v, want 25 damage to unit %d", e, id)
	}

	for _, u := range sim.Units() {
		if u.ID == id && u.Health != 75 {
			t.Errorf("health = %.0f, want 75", u.Health)
		}
	}
}

func TestWebSocketErrorReply(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts, "")
	readUntil(t, conn, MsgTypeWelcome)

	if err := conn.WriteJSON(ClientMessage{Type: "warp"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readUntil(t, conn, MsgTypeError)
	if !strings.Contains(string(msg.Data), "warp") {
		t.Errorf("error reply %s does not name the message type", msg.Data)
	}
}

func TestWebSocketSnapshots(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts, "")

	msg := readUntil(t, conn, MsgTypeUpdate)
	var snap Snapshot
	if err := json.Unmarshal(msg.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if len(snap.Units) != 2 {
		t.Errorf("snapshot has %d units, want the 2 defenders", len(snap.Units))
	}
	if snap.Match.Round != 1 {
		t.Errorf("match round = %d, want 1", snap.Match.Round)
	}
}

func TestWebSocketMsgpack(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts, "?format=msgpack")

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("frame type = %d, want binary", kind)
	}

	var msg struct {
		Type string                 `msgpack:"type"`
		Data map[string]interface{} `msgpack:"data"`
	}
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != MsgTypeWelcome {
		t.Errorf("first message = %q, want welcome", msg.Type)
	}
	if s, _ := msg.Data["session"].(string); s == "" {
		t.Errorf("welcome data = %v, want a session", msg.Data)
	}
}

func TestWebSocketRejectsUnknownFormat(t *testing.T) {
	_, ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?format=xml"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected the handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("response = %v, want 400", resp)
	}
}

func TestHTTPEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	var waves WaveStats
	getJSON(t, ts.URL+"/api/waves", &waves)
	if waves.State != WaveInactive.String() || waves.Interval != 5 || waves.DefendersLeft != 2 {
		t.Errorf("waves = %+v", waves)
	}

	var units []UnitSnapshot
	getJSON(t, ts.URL+"/api/units", &units)
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
	for _, u := range units {
		if u.Team != game.TeamDefender || u.Class != game.ClassTank {
			t.Errorf("unit %+v, want a defending tank", u)
		}
	}
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("GET %s: content type %q", url, ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: decode: %v", url, err)
	}
}
