// Package server provides the HTTP server for the touchwall exhibit system.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lumenlab/touchwall/internal/hotspot"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventHub broadcasts hotspot events to WebSocket clients. Control
// panels subscribe to show live press progress and activations.
type EventHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventHub creates an empty hub.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

// ClientCount reports the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastActivation notifies clients that a hotspot activated.
func (h *EventHub) BroadcastActivation(id int) {
	h.broadcast(map[string]any{
		"type":      "activation",
		"hotspot":   id,
		"timestamp": time.Now().UnixMilli(),
	})
}

// BroadcastStates sends a per-frame snapshot of all hotspot states.
func (h *EventHub) BroadcastStates(states []hotspot.State) {
	h.broadcast(map[string]any{
		"type":      "states",
		"hotspots":  states,
		"timestamp": time.Now().UnixMilli(),
	})
}

func (h *EventHub) broadcast(payload map[string]any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}

	for conn := range h.clients {
		conn.WriteMessage(websocket.TextMessage, msg)
	}
}
