package push

import (
	"log"
	"sync"
	"time"
)

// defaultWriteTimeout bounds how long one delivery may block before the
// subscriber is considered dead and pruned.
const defaultWriteTimeout = 5 * time.Second

// Conn is the subset of a WebSocket connection the hub needs. It is
// satisfied by *websocket.Conn from gorilla/websocket.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// subscriber pairs a connection with a write lock so overlapping
// broadcasts never write to the same connection concurrently; gorilla
// allows only one writer per connection.
type subscriber struct {
	conn Conn
	mu   sync.Mutex
}

// Hub fans predictions out to connected WebSocket subscribers. Each
// delivery runs independently under a write deadline, so one slow or
// blocked connection never stalls delivery to the others; a connection
// whose write fails or times out is dropped after the broadcast pass.
type Hub struct {
	mu           sync.Mutex
	subscribers  map[Conn]*subscriber
	writeTimeout time.Duration
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subscribers:  make(map[Conn]*subscriber),
		writeTimeout: defaultWriteTimeout,
	}
}

// Register adds a subscriber and returns the new subscriber count.
func (h *Hub) Register(c Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.subscribers[c] = &subscriber{conn: c}
	n := len(h.subscribers)
	log.Printf("WebSocket client connected. Total: %d", n)
	return n
}

// Unregister removes a subscriber. Safe to call for an already-removed
// connection.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subscribers[c]; ok {
		delete(h.subscribers, c)
		log.Printf("WebSocket client disconnected. Total: %d", len(h.subscribers))
	}
}

// Count returns the current subscriber count.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends a message to every subscriber. The subscriber set is
// snapshotted first so registrations never wait on in-flight writes, and
// each write runs in its own goroutine with a deadline. Failed and
// timed-out connections are pruned afterwards; their Close errors are
// ignored since the peer is already gone.
func (h *Hub) Broadcast(message interface{}) {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, s := range h.subscribers {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	failed := make(chan Conn, len(subs))
	for _, s := range subs {
		wg.Add(1)
		go func(s *subscriber) {
			defer wg.Done()
			s.mu.Lock()
			defer s.mu.Unlock()
			if err := s.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
				failed <- s.conn
				return
			}
			if err := s.conn.WriteJSON(message); err != nil {
				failed <- s.conn
			}
		}(s)
	}
	wg.Wait()
	close(failed)

	pruned := 0
	for c := range failed {
		h.Unregister(c)
		c.Close()
		pruned++
	}
	if pruned > 0 {
		log.Printf("Pruned %d dead WebSocket client(s). Total: %d", pruned, h.Count())
	}
}
