package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/state"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChangeEvent is the message pushed to change-feed clients.
type ChangeEvent struct {
	state.Change
	At time.Time `json:"at"`
}

// ChangeHub fans store changes out to connected WebSocket clients so an open
// dashboard can refetch the affected view.
type ChangeHub struct {
	clients    map[*changeClient]bool
	broadcast  chan ChangeEvent
	register   chan *changeClient
	unregister chan *changeClient
	done       chan struct{}
	mu         sync.RWMutex
	logger     *common.Logger
}

type changeClient struct {
	hub  *ChangeHub
	conn *websocket.Conn
	send chan []byte
}

// NewChangeHub creates a hub. Call Run in its own goroutine.
func NewChangeHub(logger *common.Logger) *ChangeHub {
	return &ChangeHub{
		clients:    make(map[*changeClient]bool),
		broadcast:  make(chan ChangeEvent, 256),
		register:   make(chan *changeClient),
		unregister: make(chan *changeClient),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's event loop.
func (h *ChangeHub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug().Int("clients", count).Msg("Change feed client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug().Int("clients", count).Msg("Change feed client disconnected")

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn().Err(err).Msg("Failed to marshal change event")
				continue
			}

			h.mu.RLock()
			var slow []*changeClient
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					slow = append(slow, client)
				}
			}
			h.mu.RUnlock()

			if len(slow) > 0 {
				h.mu.Lock()
				for _, c := range slow {
					if _, ok := h.clients[c]; ok {
						delete(h.clients, c)
						close(c.send)
					}
				}
				h.mu.Unlock()
				h.logger.Warn().Int("dropped", len(slow)).Msg("Dropped slow change feed clients")
			}
		}
	}
}

// Stop ends the event loop and closes every client. Safe to call twice.
func (h *ChangeHub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Broadcast queues a store change for every client. It never blocks the writer
// that triggered it: a full queue drops the event.
func (h *ChangeHub) Broadcast(change state.Change) {
	select {
	case h.broadcast <- ChangeEvent{Change: change, At: time.Now().UTC()}:
	default:
		h.logger.Warn().Str("collection", string(change.Collection)).Msg("Change feed queue full, dropping event")
	}
}

// ServeWS upgrades the request and registers the client.
func (h *ChangeHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &changeClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of connected clients.
func (h *ChangeHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *changeClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer closing.
func (c *changeClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
