package core

import "github.com/dkeye/VoiceRelay/internal/domain"

// EventSink receives presence changes for observers outside the relay.
// Publish must not block on the network.
type EventSink interface {
	Publish(ev domain.PresenceEvent)
	Close()
}
