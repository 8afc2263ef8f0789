package orch

import (
	"errors"

	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

func (s *Session) handleJoin(msg *inbound) {
	if msg.RoomID.IsZero() || msg.UserID.IsZero() {
		log.Warn().Str("module", "orch").Str("conn", s.conn.ID()).Msg("join without roomId or userId")
		return
	}
	o := s.orch
	p := domain.Participant{UserID: msg.UserID, Username: msg.Username, IsSpeaker: bool(msg.IsSpeaker)}

	if !o.Limiter.Allow(p.UserID) {
		log.Warn().Str("module", "orch").Str("user", p.UserID.String()).Msg("join rate limited")
		s.reply(errorMsg{Type: TypeError, Error: "rate_limited"})
		return
	}
	if o.Verify != nil {
		if err := o.Verify(p, msg.RoomID); err != nil {
			log.Warn().Err(err).Str("module", "orch").Str("user", p.UserID.String()).Msg("join refused")
			s.reply(errorMsg{Type: TypeError, Error: "forbidden"})
			return
		}
	}

	// The connection switches identity: drop the old one first.
	if prev := s.UserID(); !prev.IsZero() && prev != p.UserID {
		o.disconnect(prev, s.conn)
	}

	res, err := o.Registry.Join(s.conn, msg.RoomID, p, o.Duplicate == app.ReplaceOld)
	if errors.Is(err, app.ErrAlreadyJoined) {
		log.Warn().Str("module", "orch").Str("user", p.UserID.String()).Msg("duplicate join rejected")
		s.reply(errorMsg{Type: TypeError, Error: "already_joined"})
		return
	}
	s.bind(p.UserID)

	if prev := res.Previous; prev != nil {
		if prev.Room != "" && prev.Room != msg.RoomID {
			o.fanout(prev.RoomMates, userLeftMsg{Type: TypeUserLeft, UserID: p.UserID})
			o.publish(domain.PresenceEvent{Kind: domain.EventLeft, RoomID: prev.Room, UserID: p.UserID})
		}
		if prev.Conn != nil {
			log.Info().Str("module", "orch").Str("user", p.UserID.String()).Str("old_conn", prev.Conn.ID()).Msg("replacing connection")
			prev.Conn.Close()
		}
	}

	o.fanout(res.Others, userJoinedMsg{Type: TypeUserJoined, Participant: p})

	participants := make([]domain.Participant, 0, len(res.Others))
	for _, m := range res.Others {
		participants = append(participants, m.Participant)
	}
	s.reply(participantsMsg{Type: TypeParticipants, Participants: participants})

	o.publish(domain.PresenceEvent{
		Kind:      domain.EventJoined,
		RoomID:    msg.RoomID,
		UserID:    p.UserID,
		Username:  p.Username,
		IsSpeaker: p.IsSpeaker,
	})
}

func (s *Session) handleLeave(msg *inbound) {
	if msg.RoomID.IsZero() || msg.UserID.IsZero() {
		log.Warn().Str("module", "orch").Str("conn", s.conn.ID()).Msg("leave without roomId or userId")
		return
	}
	if s.UserID() == msg.UserID {
		s.bind("")
	}
	res := s.orch.Registry.Leave(msg.UserID, msg.RoomID)
	s.orch.afterLeave(msg.UserID, res)
}

func (s *Session) handleMute(msg *inbound) {
	if msg.RoomID.IsZero() || msg.UserID.IsZero() {
		log.Warn().Str("module", "orch").Str("conn", s.conn.ID()).Msg("mute without roomId or userId")
		return
	}
	o := s.orch
	o.fanout(o.Registry.MembersOf(msg.RoomID), userMutedMsg{Type: TypeUserMuted, UserID: msg.UserID, IsMuted: bool(msg.IsMuted)})
	o.publish(domain.PresenceEvent{Kind: domain.EventMuted, RoomID: msg.RoomID, UserID: msg.UserID, IsMuted: bool(msg.IsMuted)})
}

func (s *Session) handleHand(msg *inbound) {
	if msg.RoomID.IsZero() || msg.UserID.IsZero() {
		log.Warn().Str("module", "orch").Str("conn", s.conn.ID()).Msg("hand without roomId or userId")
		return
	}
	o := s.orch
	o.fanout(o.Registry.MembersOf(msg.RoomID), userHandMsg{Type: TypeUserHand, UserID: msg.UserID, Raised: bool(msg.Raised)})
	o.publish(domain.PresenceEvent{Kind: domain.EventHand, RoomID: msg.RoomID, UserID: msg.UserID, Raised: bool(msg.Raised)})
}

func (o *Orchestrator) disconnect(id domain.UserID, conn core.SignalConnection) {
	o.afterLeave(id, o.Registry.Disconnect(id, conn))
}

func (o *Orchestrator) afterLeave(id domain.UserID, res app.LeaveResult) {
	if !res.Removed {
		log.Debug().Str("module", "orch").Str("user", id.String()).Msg("leave: nothing to remove")
		return
	}
	o.fanout(res.Remaining, userLeftMsg{Type: TypeUserLeft, UserID: id})
	o.publish(domain.PresenceEvent{Kind: domain.EventLeft, RoomID: res.Room, UserID: id})
}
