package orch

import (
	"time"

	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// JoinVerifier is consulted once per join before any state changes.
// A non-nil error refuses the join.
type JoinVerifier func(p domain.Participant, room domain.RoomID) error

// Orchestrator is the message router: it decodes what a connection sends,
// mutates the registry and fans the resulting events out.
type Orchestrator struct {
	Registry  *app.Registry
	Policy    app.Policy
	Duplicate app.DuplicateJoin
	Limiter   *app.JoinRateLimiter
	Events    core.EventSink
	Verify    JoinVerifier

	now func() time.Time
}

func New(reg *app.Registry) *Orchestrator {
	return &Orchestrator{Registry: reg, Policy: app.SimplePolicy{Action: app.DropFrame}}
}

// Connect starts routing for a new transport session. No registry state
// exists for it until its first join.
func (o *Orchestrator) Connect(conn core.SignalConnection) *Session {
	log.Debug().Str("module", "orch").Str("conn", conn.ID()).Msg("session opened")
	return &Session{orch: o, conn: conn}
}

func (o *Orchestrator) publish(ev domain.PresenceEvent) {
	if o.Events == nil {
		return
	}
	if o.now != nil {
		ev.At = o.now()
	} else {
		ev.At = time.Now()
	}
	o.Events.Publish(ev)
}
