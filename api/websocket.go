package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"serial-console/console"
	"serial-console/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the envelope sent to websocket clients
type Message struct {
	Type string      `json:"type"` // "console" or "status"
	Data interface{} `json:"data"`
}

// Hub fans console output out to connected websocket clients.
// It implements io.Writer so session output can be tee'd between
// stdout and the websocket feed.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// ServeWS upgrades the connection and registers the client
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	// Reader pump: client messages are discarded, but a read error
	// is how we learn the client went away.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Write broadcasts a slice of console output to all clients
func (h *Hub) Write(p []byte) (int, error) {
	h.broadcast(Message{Type: "console", Data: string(p)})
	return len(p), nil
}

// Status broadcasts a session status snapshot
func (h *Hub) Status(info console.StatusInfo) {
	h.broadcast(Message{Type: "status", Data: info})
}

func (h *Hub) broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		// A slow client must never stall the read loop
		conn.SetWriteDeadline(time.Now().Add(1 * time.Second))
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Close disconnects all clients
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
