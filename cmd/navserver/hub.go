package main

import (
	"log"
	"net"
	"sync"
	"time"
)

// Message types pushed to websocket clients
const (
	MessageTypePosition = "position"
	MessageTypeState    = "state"
)

// Message is the envelope for every websocket push
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

const (
	// writeWait bounds a single websocket write
	writeWait = 5 * time.Second

	// clientQueueSize is how many messages a slow client may fall behind
	clientQueueSize = 32
)

// clientConn is the part of a websocket connection the hub writes to
type clientConn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
	RemoteAddr() net.Addr
}

// client owns one connection; only its writer goroutine touches the socket
type client struct {
	conn clientConn
	send chan Message
}

// Hub fans messages out to connected websocket clients. Registration and
// broadcast are serialized through Run; each client writes on its own goroutine,
// so a stalled socket only drops its own messages.
type Hub struct {
	clients    map[clientConn]*client
	broadcast  chan Message
	register   chan clientConn
	unregister chan clientConn
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[clientConn]*client),
		broadcast:  make(chan Message, 100),
		register:   make(chan clientConn),
		unregister: make(chan clientConn),
	}
}

// Run processes registrations and broadcasts until the process exits
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			c := &client{conn: conn, send: make(chan Message, clientQueueSize)}
			h.mutex.Lock()
			h.clients[conn] = c
			h.mutex.Unlock()
			go h.writePump(c)
			log.Printf("🔌 Client connected (%s)\n", conn.RemoteAddr())

		case conn := <-h.unregister:
			h.remove(conn)

		case message := <-h.broadcast:
			h.send(message)
		}
	}
}

// Broadcast queues a message for every client; it drops the message if the queue is full
func (h *Hub) Broadcast(msgType string, data interface{}) {
	msg := Message{Type: msgType, Data: data, Timestamp: time.Now().UnixMilli()}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("⚠️  Broadcast queue full, dropping %s message\n", msgType)
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// send hands the message to every client queue without blocking
func (h *Hub) send(message Message) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for conn, c := range h.clients {
		select {
		case c.send <- message:
		default:
			log.Printf("⚠️  Client %s is behind, dropping %s message\n", conn.RemoteAddr(), message.Type)
		}
	}
}

func (h *Hub) writePump(c *client) {
	for message := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(message); err != nil {
			log.Printf("⚠️  Send failed (%s): %v\n", c.conn.RemoteAddr(), err)
			h.remove(c.conn)
			return
		}
	}
}

func (h *Hub) remove(conn clientConn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
		_ = conn.Close()
		log.Printf("🔌 Client disconnected (%s)\n", conn.RemoteAddr())
	}
}
