package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/restaurant-api/events"
	"github.com/yeremiapane/restaurant-api/utils"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// client -> one admin socket; only writePump writes to conn
type client struct {
	conn    *websocket.Conn
	adminID uint
	send    chan []byte
}

// Hub holds the admin live-feed connections. It implements events.Publisher
// and never blocks the publisher on a slow socket.
type Hub struct {
	clients map[*websocket.Conn]*client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// RegisterClient -> adds a connection for the given admin and starts its writer
func (h *Hub) RegisterClient(conn *websocket.Conn, adminID uint) {
	c := &client{conn: conn, adminID: adminID, send: make(chan []byte, sendBuffer)}

	h.mutex.Lock()
	h.clients[conn] = c
	h.mutex.Unlock()

	go h.writePump(c)
}

// UnregisterClient -> drops and closes a connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish -> queue the event for every connected admin; full queues drop it
func (h *Hub) Publish(_ context.Context, evt events.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling event %s: %v", evt.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			utils.ErrorLogger.Warnf("Live feed of admin %d is behind, dropped %s", c.adminID, evt.Event)
		}
	}
}

func (h *Hub) writePump(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error writing to admin %d: %v", c.adminID, err)
			h.UnregisterClient(c.conn)
			return
		}
	}
}

// Serve -> keeps reading until the client goes away, then unregisters it
func (h *Hub) Serve(conn *websocket.Conn, adminID uint) {
	h.RegisterClient(conn, adminID)
	defer h.UnregisterClient(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
