package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/VysyarajuHansuja/Airline-Reservation-System/internal/database"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeAvailability MessageType = "availability_updated"
)

// LegUpdate is the current seat count of one flight leg.
type LegUpdate struct {
	LegID          int64 `json:"legId"`
	AvailableSeats int   `json:"availableSeats"`
}

// Message represents a WebSocket message
type Message struct {
	Type        MessageType `json:"type"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	Legs        []LegUpdate `json:"legs,omitempty"`
	Timestamp   int64       `json:"timestamp"`
}

type routeKey struct {
	origin      string
	destination string
}

// Client represents a WebSocket client connection
type Client struct {
	id    uuid.UUID
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	route routeKey
}

// Hub manages WebSocket connections per route
type Hub struct {
	clients    map[routeKey]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[routeKey]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.route] == nil {
				h.clients[client.route] = make(map[*Client]bool)
			}
			h.clients[client.route][client] = true
			log.Printf("WebSocket: client %s watching %s-%s (total: %d)",
				client.id, client.route.origin, client.route.destination, len(h.clients[client.route]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.route]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.route)
					}
				}
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			key := routeKey{origin: message.Origin, destination: message.Destination}

			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("WebSocket: failed to marshal message: %v", err)
				continue
			}

			h.mu.RLock()
			clients := h.clients[key]
			h.mu.RUnlock()

			for client := range clients {
				select {
				case client.send <- data:
				default:
					h.mu.Lock()
					delete(h.clients[key], client)
					close(client.send)
					h.mu.Unlock()
				}
			}
		}
	}
}

// NotifyAvailability groups post-commit leg changes by route and
// broadcasts each group to that route's watchers.
func (h *Hub) NotifyAvailability(updates []database.LegAvailability) {
	byRoute := make(map[routeKey][]LegUpdate)
	for _, u := range updates {
		key := routeKey{origin: u.Origin, destination: u.Destination}
		byRoute[key] = append(byRoute[key], LegUpdate{LegID: u.LegID, AvailableSeats: u.AvailableSeats})
	}
	for key, legs := range byRoute {
		h.BroadcastAvailability(key.origin, key.destination, legs)
	}
}

// BroadcastAvailability notifies clients watching a route that leg
// seat counts changed.
func (h *Hub) BroadcastAvailability(origin, destination string, legs []LegUpdate) {
	msg := &Message{
		Type:        MessageTypeAvailability,
		Origin:      origin,
		Destination: destination,
		Legs:        legs,
		Timestamp:   time.Now().UnixMilli(),
	}
	h.broadcast <- msg
}

// WatcherCount returns the number of clients watching a route.
func (h *Hub) WatcherCount(origin, destination string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[routeKey{origin: origin, destination: destination}])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a WebSocket subscription for the
// given route.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, origin, destination string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket: upgrade failed: %v", err)
		return
	}

	client := &Client{
		id:    uuid.New(),
		hub:   h,
		conn:  conn,
		send:  make(chan []byte, 16),
		route: routeKey{origin: origin, destination: destination},
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; it exists to detect disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
