package orch

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// Session is the router's view of one connection: the user it joined as
// and the guarantee that its cleanup runs once.
type Session struct {
	orch *Orchestrator
	conn core.SignalConnection

	mu     sync.Mutex
	userID domain.UserID

	closeOnce sync.Once
}

func (s *Session) UserID() domain.UserID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) bind(id domain.UserID) {
	s.mu.Lock()
	s.userID = id
	s.mu.Unlock()
}

// Handle routes one inbound message. Messages of a connection must be
// handled one at a time in receipt order.
func (s *Session) Handle(data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", s.conn.ID()).Msg("bad json")
		return
	}

	switch msg.Type {
	case TypeJoin:
		s.handleJoin(&msg)
	case TypeLeave:
		s.handleLeave(&msg)
	case TypeMute:
		s.handleMute(&msg)
	case TypeHand:
		s.handleHand(&msg)
	case TypeOffer, TypeAnswer, TypeICECandidate:
		s.handleSignal(&msg, data)
	default:
		log.Warn().Str("module", "orch").Str("conn", s.conn.ID()).Str("type", msg.Type).Msg("unknown signal")
	}
}

// Close runs disconnect cleanup: the same removal and user-left broadcast
// as an explicit leave. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		id := s.UserID()
		log.Info().Str("module", "orch").Str("conn", s.conn.ID()).Str("user", id.String()).Msg("session closed")
		if id.IsZero() {
			return
		}
		s.orch.disconnect(id, s.conn)
	})
}

func (s *Session) reply(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("reply marshal")
		return
	}
	if err := s.conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", s.conn.ID()).Msg("reply failed")
	}
}
