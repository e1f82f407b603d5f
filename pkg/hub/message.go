// Package hub provides a thread-safe websocket broadcast hub
// using the idiomatic Go channel-based fan-out pattern. Messages carry the
// preview session they belong to so subscribers can follow one session.
package hub

// Message is a JSON-encoded payload to be broadcast to subscribers
type Message struct {
	Session string // empty for service-wide messages
	Data    []byte
}

// NewJSONMessage creates a message from pre-encoded JSON
func NewJSONMessage(session string, data []byte) Message {
	return Message{Session: session, Data: data}
}
