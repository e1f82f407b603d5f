package hub

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-camview/internal/log"
)

// Subscriber receives the messages of one session, or of every session when
// its filter is empty. Service-wide messages reach every subscriber.
type Subscriber struct {
	session string
	send    chan Message
}

// C returns the channel messages are delivered on. It is closed when the
// subscriber is removed or the hub stops.
func (s *Subscriber) C() <-chan Message { return s.send }

// Session returns the subscriber's session filter.
func (s *Subscriber) Session() string { return s.session }

func (s *Subscriber) wants(m Message) bool {
	return s.session == "" || m.Session == "" || m.Session == s.session
}

// Hub maintains the set of active subscribers and broadcasts messages to them
type Hub struct {
	// Name for logging
	name string

	subscribers map[*Subscriber]bool

	// Inbound messages to broadcast
	broadcast chan Message

	register   chan *Subscriber
	unregister chan *Subscriber
	done       chan struct{}
	stopOnce   sync.Once

	// Guards subscribers for readers outside Run
	mu sync.RWMutex

	running atomic.Bool
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:        name,
		subscribers: make(map[*Subscriber]bool),
		broadcast:   make(chan Message, 256),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		done:        make(chan struct{}),
	}
}

// Run starts the hub's main loop and returns after Stop.
// This should be called in a goroutine
func (h *Hub) Run() {
	h.running.Store(true)
	defer h.running.Store(false)

	logger := log.With("hub", h.name)
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.subscribers[sub] = true
			count := len(h.subscribers)
			h.mu.Unlock()
			logger.Debug("subscriber added", "session", sub.session, "total", count)

		case sub := <-h.unregister:
			h.mu.Lock()
			h.remove(sub)
			count := len(h.subscribers)
			h.mu.Unlock()
			logger.Debug("subscriber removed", "session", sub.session, "remaining", count)

		case message := <-h.broadcast:
			h.mu.Lock()
			for sub := range h.subscribers {
				if !sub.wants(message) {
					continue
				}
				select {
				case sub.send <- message:
				default:
					// Buffer full: the subscriber is too slow
					h.remove(sub)
					logger.Warn("dropped slow subscriber", "session", sub.session)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for sub := range h.subscribers {
				h.remove(sub)
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove must be called with mu held.
func (h *Hub) remove(sub *Subscriber) {
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
}

// Stop ends Run and closes every subscriber channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Subscribe registers a subscriber for session ("" for all sessions).
// Run must be active.
func (h *Hub) Subscribe(session string) *Subscriber {
	sub := &Subscriber{session: session, send: make(chan Message, 256)}
	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.send)
	}
	return sub
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Broadcast sends a message to all matching subscribers
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		log.Warn("broadcast channel full, dropping message", "hub", h.name, "session", msg.Session)
	}
}

// BroadcastJSON encodes and broadcasts a JSON message for session
func (h *Hub) BroadcastJSON(session string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(NewJSONMessage(session, data))
	return nil
}

// ClientCount returns the number of subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// IsRunning returns whether the hub is running
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}
