package events

import "time"

// EventType indicates what kind of change occurred
type EventType string

const (
	EventBoardChanged EventType = "board_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// ProtocolVersion is bumped whenever Message changes shape
const ProtocolVersion = 1

// Event announces that one owner's board was written
type Event struct {
	Type       EventType `json:"type"`
	OwnerID    string    `json:"owner_id,omitempty"` // empty = every owner
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequence_id,omitempty"` // assigned by the daemon
}

// SubscribeMessage narrows which owner's events a client receives
type SubscribeMessage struct {
	OwnerID string `json:"owner_id"` // "" = all owners
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// Matches reports whether a subscriber for ownerID should receive e
func (e Event) Matches(ownerID string) bool {
	return ownerID == "" || e.OwnerID == "" || e.OwnerID == ownerID
}
