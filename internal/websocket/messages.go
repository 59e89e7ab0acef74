package websocket

import (
	"encoding/json"
	"time"
)

// Event is the envelope for every message pushed to a client. Payload
// carries the event-specific body (match progress, session tick, ...).
type Event struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// NewEvent wraps a payload in an envelope with the current timestamp
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now().Format(time.RFC3339),
		Payload:   payload,
	}
}

// Marshal serializes the event for the wire
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
