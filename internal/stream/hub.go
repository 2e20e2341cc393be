// Package stream pushes live price ticks to websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size of an incoming message.
	maxMessageSize = 4096

	// sendBufferSize is the channel buffer for outgoing messages per client.
	sendBufferSize = 256
)

// Tick is one price update for an instrument. Change is the percent move
// from the catalog price.
type Tick struct {
	ID     string    `json:"id"`
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Change float64   `json:"change"`
	Time   time.Time `json:"time"`
}

// Observer is notified as clients come and go.
type Observer interface {
	StreamClientConnected()
	StreamClientDisconnected()
}

// subscribeMsg is what a client sends to narrow or widen its feed. An
// empty subscription set means every instrument.
type subscribeMsg struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	IDs    []string `json:"ids"`
}

// broadcastMsg carries an encoded tick with the instrument it belongs to.
type broadcastMsg struct {
	id   string
	data []byte
}

// client represents a single websocket connection.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	subs map[string]bool
	mu   sync.RWMutex
}

// Hub fans ticks out to connected clients and remembers the latest tick
// per instrument for new connections.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan broadcastMsg
	register   chan *client
	unregister chan *client
	done       chan struct{}
	latest     map[string][]byte
	upgrader   websocket.Upgrader
	observer   Observer
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewHub creates a Hub. allowedOrigins restricts browser upgrades; an
// empty list or "*" accepts any origin. observer may be nil.
func NewHub(allowedOrigins []string, observer Observer, logger *slog.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan broadcastMsg, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		latest:     make(map[string][]byte),
		observer:   observer,
		logger:     logger.With(slog.String("component", "stream")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// Run handles registration and broadcasting until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
				h.disconnected()
			}
			h.mu.Unlock()
			return nil

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			for id, data := range h.latest {
				if c.isSubscribed(id) {
					select {
					case c.send <- data:
					default:
					}
				}
			}
			total := len(h.clients)
			h.mu.Unlock()
			if h.observer != nil {
				h.observer.StreamClientConnected()
			}
			h.logger.Info("client connected", slog.Int("total_clients", total))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.disconnected()
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("client disconnected", slog.Int("total_clients", total))

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.latest[msg.id] = msg.data
			for c := range h.clients {
				if c.isSubscribed(msg.id) {
					select {
					case c.send <- msg.data:
					default:
						h.logger.Warn("dropping tick for slow client", slog.String("id", msg.id))
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues a tick for broadcast. It drops the tick once the hub has
// stopped.
func (h *Hub) Publish(t Tick) {
	data, err := json.Marshal(t)
	if err != nil {
		h.logger.Error("encode tick", slog.String("error", err.Error()))
		return
	}
	select {
	case h.broadcast <- broadcastMsg{id: t.ID, data: data}:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWS upgrades the request to a websocket and registers the client.
// GET /ws/prices
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		subs: make(map[string]bool),
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) disconnected() {
	if h.observer != nil {
		h.observer.StreamClientDisconnected()
	}
}

// readPump reads subscription changes from the client until it goes away.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}

		var sub subscribeMsg
		if err := json.Unmarshal(message, &sub); err == nil {
			c.handleSubscription(sub)
		}
	}
}

func (c *client) handleSubscription(msg subscribeMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Action {
	case "subscribe":
		for _, id := range msg.IDs {
			c.subs[id] = true
		}
	case "unsubscribe":
		for _, id := range msg.IDs {
			delete(c.subs, id)
		}
	}
}

// isSubscribed reports whether the client wants ticks for id.
func (c *client) isSubscribed(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.subs) == 0 || c.subs[id]
}

// writePump sends queued ticks as text frames and keeps the connection
// alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// originChecker accepts requests without an Origin header and those whose
// origin is listed.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}
