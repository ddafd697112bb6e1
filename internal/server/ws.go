package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StatusHandler broadcasts live pipeline status via WebSocket.
type StatusHandler struct {
	status  StatusProvider
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewStatusHandler creates a new StatusHandler backed by the given
// provider. Close stops the broadcast loop.
func NewStatusHandler(status StatusProvider) *StatusHandler {
	h := &StatusHandler{
		status:  status,
		clients: make(map[*websocket.Conn]bool),
		stopCh:  make(chan struct{}),
	}
	go h.broadcast(h.stopCh)
	return h
}

// Close stops the broadcast loop and disconnects all clients. Safe to
// call more than once.
func (h *StatusHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.stopCh)

		h.mu.Lock()
		defer h.mu.Unlock()
		for conn := range h.clients {
			conn.Close()
		}
		h.clients = make(map[*websocket.Conn]bool)
	})
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the current status to all connected clients until the
// handler is closed.
func (h *StatusHandler) broadcast(stopCh chan struct{}) {
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 Hz
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
		}

		h.mu.RLock()
		if len(h.clients) == 0 {
			h.mu.RUnlock()
			continue
		}
		h.mu.RUnlock()

		msg, err := json.Marshal(map[string]any{
			"status":    h.status.Status(),
			"timestamp": time.Now().UnixMilli(),
		})
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
