package domain

import "time"

type EventKind string

const (
	EventJoined EventKind = "joined"
	EventLeft   EventKind = "left"
	EventMuted  EventKind = "muted"
	EventHand   EventKind = "hand"
)

// PresenceEvent is published to observers outside the relay.
type PresenceEvent struct {
	Kind      EventKind `json:"kind"`
	RoomID    RoomID    `json:"roomId"`
	UserID    UserID    `json:"userId"`
	Username  string    `json:"username,omitempty"`
	IsSpeaker bool      `json:"isSpeaker,omitempty"`
	IsMuted   bool      `json:"isMuted,omitempty"`
	Raised    bool      `json:"raised,omitempty"`
	At        time.Time `json:"at"`
}
