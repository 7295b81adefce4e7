// Package realtime holds the in-process plumbing behind live search: a
// Debouncer that turns keystrokes into searches, and a Hub that tells every
// connected live search session when the datasets were reloaded so it can
// refresh its results.
//
// Delivery through the Hub is best effort. A listener whose buffer is full
// misses the event; the next reload or keystroke brings it up to date.
package realtime

import (
	"sync"
	"time"
)

// Event types sent through the Hub.
const (
	EventReload = "reload"
)

// Event is one notification fanned out to live search sessions.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	// Sizes maps dataset kinds to their entry counts after a reload.
	Sizes map[string]int `json:"sizes,omitempty"`
}

// NewReloadEvent builds the event sent after the datasets were swapped.
func NewReloadEvent(sizes map[string]int) Event {
	if sizes == nil {
		sizes = make(map[string]int)
	}
	return Event{Type: EventReload, At: time.Now().UTC(), Sizes: sizes}
}

// Hub is an in-memory fan-out dispatcher. Each registered listener receives
// events on its own buffered channel. The hub is safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub constructs a hub with the given per-listener buffer size. If
// bufSize <= 0, a default of 8 is used.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 8
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a new listener and returns its id and channel. Callers must
// later Unregister(id) to release resources.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes the listener with the given id and closes its channel.
// Unknown ids are ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener whose buffer has room.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
			// Drop for slow listener.
		}
	}
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
