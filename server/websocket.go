package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lab1702/tank-arena/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second // must be less than pongWait
	sendBufferSize = 256
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		log.Warn("invalid origin URL", "origin", origin)
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	log.Warn("rejected websocket connection", "origin", origin)
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true, // Enable per-message deflate compression
}

// Message types
const (
	MsgTypeStart   = "start"
	MsgTypeStop    = "stop"
	MsgTypeReset   = "reset"
	MsgTypeDamage  = "damage"
	MsgTypeMove    = "move"
	MsgTypeCharge  = "charge"
	MsgTypeRelease = "release"
	MsgTypeSpawn   = "spawn"
	MsgTypeWelcome = "welcome"
	MsgTypeUpdate  = "update"
	MsgTypeEffect  = "effect"
	MsgTypeError   = "error"
)

// ClientMessage represents a message from client to server. Clients always
// send JSON; the format query parameter only selects what they receive.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type" msgpack:"type"`
	Data interface{} `json:"data" msgpack:"data"`
}

// Client represents a connected spectator or player
type Client struct {
	ID      int
	Session string
	format  string
	conn    *websocket.Conn
	send    chan ServerMessage
	hub     *Hub
	server  *Server
	logger  *log.Logger
}

// Hub tracks connected clients and fans messages out to them. It is also the
// effects sink that streams simulation events to every client.
type Hub struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	done       chan struct{}
	nextID     int
	logger     *log.Logger
}

// NewHub creates a hub with no clients
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, sendBufferSize),
		done:       make(chan struct{}),
		nextID:     1,
		logger:     logger.With("component", "hub"),
	}
}

// Run handles client events until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("hub stopped")
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.logger.Info("client connected", "client", client.ID, "session", client.Session, "format", client.format)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("client disconnected", "client", client.ID)

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client send channel is full, skip this message
					h.logger.Warn("client send buffer full, skipping broadcast", "client", client.ID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) newClientID() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	return id
}

// Broadcast queues msg for every client. It drops the message rather than
// block when the queue is full.
func (h *Hub) Broadcast(msg ServerMessage) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		return false
	}
}

// Emit implements game.EffectSink
func (h *Hub) Emit(e game.Effect) {
	if !h.Broadcast(ServerMessage{Type: MsgTypeEffect, Data: e}) {
		h.logger.Debug("broadcast queue full, dropping effect", "kind", e.Kind)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Server exposes a simulation over HTTP and WebSocket
type Server struct {
	sim          *Simulation
	hub          *Hub
	logger       *log.Logger
	snapshotRate int
}

// NewServer creates the HTTP front end for sim. Snapshots go out
// snapshotRate times per second.
func NewServer(sim *Simulation, hub *Hub, logger *log.Logger, snapshotRate int) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if snapshotRate <= 0 {
		snapshotRate = 10
	}
	return &Server{
		sim:          sim,
		hub:          hub,
		logger:       logger,
		snapshotRate: snapshotRate,
	}
}

// Routes returns the server's HTTP handlers
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleWebSocket)
	mux.HandleFunc("/api/waves", s.HandleWaves)
	mux.HandleFunc("/api/units", s.HandleUnits)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

// RunSnapshots broadcasts the battlefield to every client until ctx is
// cancelled.
func (s *Server) RunSnapshots(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.snapshotRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sendSnapshot()
		}
	}
}

func (s *Server) sendSnapshot() {
	if s.hub.ClientCount() == 0 {
		return
	}
	s.hub.Broadcast(ServerMessage{Type: MsgTypeUpdate, Data: s.sim.Snapshot()})
}

// HandleWaves returns the wave director's state
func (s *Server) HandleWaves(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sim.WaveStats())
}

// HandleUnits returns every unit on the battlefield
func (s *Server) HandleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.sim.Units())
}

func writeJSON(w http.ResponseWriter, v any) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "":
		format = FormatJSON
	case FormatJSON, FormatMsgpack:
	default:
		http.Error(w, "unknown format "+format, http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		ID:      s.hub.newClientID(),
		Session: uuid.NewString(),
		format:  format,
		conn:    conn,
		send:    make(chan ServerMessage, sendBufferSize),
		hub:     s.hub,
		server:  s,
	}
	client.logger = s.logger.With("client", client.ID)

	client.reply(MsgTypeWelcome, map[string]interface{}{
		"client":  client.ID,
		"session": client.Session,
	})
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", "error", err)
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client in its chosen format
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.write(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(message ServerMessage) error {
	if c.format == FormatMsgpack {
		data, err := Encode(FormatMsgpack, message)
		if err != nil {
			c.logger.Error("encode message", "type", message.Type, "error", err)
			return nil
		}
		return c.conn.WriteMessage(websocket.BinaryMessage, data)
	}
	return c.conn.WriteJSON(message)
}

// reply queues a message for this client only
func (c *Client) reply(msgType string, data interface{}) {
	select {
	case c.send <- ServerMessage{Type: msgType, Data: data}:
	default:
		c.logger.Warn("send buffer full, dropping reply", "type", msgType)
	}
}
