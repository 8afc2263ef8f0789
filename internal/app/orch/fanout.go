package orch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/rs/zerolog/log"
)

// FanoutResult reports delivery of one event to a member snapshot.
type FanoutResult struct {
	Sent    int
	Dropped []domain.UserID
	Err     error
}

// fanout sends v to every member. A failing recipient is logged and skipped;
// the rest still get the event.
func (o *Orchestrator) fanout(members []app.Member, v any) FanoutResult {
	var res FanoutResult
	if len(members) == 0 {
		return res
	}
	frame, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("fanout marshal")
		res.Err = err
		return res
	}

	var errs []error
	for _, m := range members {
		if err := o.deliver(m, frame); err != nil {
			res.Dropped = append(res.Dropped, m.UserID)
			errs = append(errs, fmt.Errorf("send to %s: %w", m.UserID, err))
			continue
		}
		res.Sent++
	}
	res.Err = errors.Join(errs...)
	log.Debug().Str("module", "orch").Int("sent_to", res.Sent).Int("dropped", len(res.Dropped)).Msg("fanout result")
	return res
}

func (o *Orchestrator) deliver(m app.Member, frame core.Frame) error {
	err := m.Conn.TrySend(frame)
	if err == nil {
		return nil
	}
	log.Warn().Err(err).Str("module", "orch").Str("user", m.UserID.String()).Str("conn", m.Conn.ID()).Msg("send failed")
	if errors.Is(err, core.ErrBackpressure) && o.Policy != nil {
		if o.Policy.OnBackPressure(m) == app.KickMember {
			log.Warn().Str("module", "orch").Str("user", m.UserID.String()).Msg("kicking slow member")
			m.Conn.Close()
		}
	}
	return err
}
