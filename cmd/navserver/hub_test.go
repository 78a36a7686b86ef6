package main

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"
)

// fakeConn records writes; a non-nil gate holds every write until it is closed
type fakeConn struct {
	mu        sync.Mutex
	gate      chan struct{}
	fail      bool
	written   chan Message
	deadlines int
	closed    bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{written: make(chan Message, 64)}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.gate != nil {
		<-c.gate
	}
	if c.fail {
		return errors.New("broken pipe")
	}
	c.written <- v.(Message)
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadlines++
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9000}
}

// waitForClients polls until Run has applied pending registrations
func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", want, hub.ClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubStalledClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	stalled := newFakeConn()
	stalled.gate = make(chan struct{})
	defer close(stalled.gate)
	fast := newFakeConn()

	hub.register <- stalled
	hub.register <- fast

	const messages = 3
	for i := 0; i < messages; i++ {
		hub.Broadcast(MessageTypePosition, PositionUpdate{X: float64(i), Step: i})
	}

	for i := 0; i < messages; i++ {
		select {
		case msg := <-fast.written:
			if msg.Type != MessageTypePosition {
				t.Errorf("Expected position message, got %s", msg.Type)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Fast client only received %d of %d messages", i, messages)
		}
	}

	fast.mu.Lock()
	deadlines := fast.deadlines
	fast.mu.Unlock()
	if deadlines != messages {
		t.Errorf("Expected a write deadline per message, got %d", deadlines)
	}
}

func TestHubDropsFailingClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	broken := newFakeConn()
	broken.fail = true
	hub.register <- broken

	waitForClients(t, hub, 1)
	hub.Broadcast(MessageTypeState, map[string]string{"state": "idle"})
	waitForClients(t, hub, 0)

	broken.mu.Lock()
	defer broken.mu.Unlock()
	if !broken.closed {
		t.Error("Expected the failing connection to be closed")
	}
}

func TestHubUnregisterClosesConnection(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := newFakeConn()
	hub.register <- conn
	hub.unregister <- conn

	// Registration and removal are serialized through Run
	hub.register <- newFakeConn()
	waitForClients(t, hub, 1)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if !conn.closed {
		t.Error("Expected the connection to be closed")
	}
}
