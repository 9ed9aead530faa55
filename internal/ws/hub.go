// Package ws fans session events out to connected viewer clients over
// WebSocket. The hub is strictly one-way: viewers receive scene-transition
// and settings-saved events; nothing a client sends mutates state.
package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/plantview/roadview-backend/internal/roadview"
)

// Client is one connected viewer.
type Client struct {
	Send chan []byte
	Conn *websocket.Conn
}

// Hub tracks connected viewers and broadcasts events to all of them.
type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan roadview.Event
	mu         sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan roadview.Event, 16),
	}
}

// Notify implements roadview.Notifier. Safe to call from any goroutine;
// an overflowing queue drops the event rather than blocking a mutation.
func (h *Hub) Notify(ev roadview.Event) {
	select {
	case h.broadcast <- ev:
	default:
		log.Printf("[WS] Event queue full, dropping %s event", ev.Type)
	}
}

// Run processes registrations and broadcasts until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case ev := <-h.broadcast:
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[WS] Failed to encode event: %v", err)
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- data:
				default:
					// Slow consumer: drop it rather than stall the rest.
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
