package orch

import (
	"encoding/json"

	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// handleSignal relays an offer, answer or ICE candidate to its target as the
// exact bytes received. The payload is only inspected for logging.
func (s *Session) handleSignal(msg *inbound, data []byte) {
	if msg.TargetUserID.IsZero() {
		log.Warn().Str("module", "orch").Str("conn", s.conn.ID()).Str("type", msg.Type).Msg("signal without targetUserId")
		return
	}
	o := s.orch
	target, ok := o.Registry.Lookup(msg.TargetUserID)
	if !ok {
		log.Debug().Str("module", "orch").Str("type", msg.Type).Str("target", msg.TargetUserID.String()).Msg("signal target not connected")
		return
	}

	ev := log.Debug().Str("module", "orch").Str("type", msg.Type).Str("from", s.UserID().String()).Str("target", msg.TargetUserID.String())
	if ev.Enabled() {
		describeSignal(ev, msg)
	}
	ev.Msg("relay signal")

	member := app.Member{Participant: domain.Participant{UserID: msg.TargetUserID}, Conn: target}
	_ = o.deliver(member, data)
}

func describeSignal(ev *zerolog.Event, msg *inbound) {
	switch msg.Type {
	case TypeOffer, TypeAnswer:
		raw := msg.Offer
		if msg.Type == TypeAnswer {
			raw = msg.Answer
		}
		var sd webrtc.SessionDescription
		if err := json.Unmarshal(raw, &sd); err != nil {
			ev.AnErr("payload_err", err)
			return
		}
		ev.Str("sdp_type", sd.Type.String()).Int("sdp_len", len(sd.SDP))
		if want := webrtc.NewSDPType(msg.Type); sd.Type != want {
			ev.Bool("sdp_type_mismatch", true)
		}
	case TypeICECandidate:
		var ci webrtc.ICECandidateInit
		if err := json.Unmarshal(msg.Candidate, &ci); err != nil {
			ev.AnErr("payload_err", err)
			return
		}
		if ci.SDPMid != nil {
			ev.Str("sdp_mid", *ci.SDPMid)
		}
		ev.Int("candidate_len", len(ci.Candidate))
	}
}
