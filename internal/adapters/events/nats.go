// Package events publishes relay presence changes to NATS so that services
// outside the relay can follow who is live in which room.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/VoiceRelay/internal/domain"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const defaultSubjectPrefix = "voice.presence"

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSSink is a core.EventSink. Core NATS publishes are buffered by the
// client library, so Publish does not wait for the server.
type NATSSink struct {
	pub    publisher
	nc     *nats.Conn
	prefix string
}

// Dial connects to url. The connection reconnects on its own; presence
// events raised while disconnected are buffered by the client or lost.
func Dial(url, prefix string) (*NATSSink, error) {
	nc, err := nats.Connect(url,
		nats.Name("voice-relay"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Str("module", "events").Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("module", "events").Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	s := newSink(nc, prefix)
	s.nc = nc
	return s, nil
}

func newSink(pub publisher, prefix string) *NATSSink {
	if prefix == "" {
		prefix = defaultSubjectPrefix
	}
	return &NATSSink{pub: pub, prefix: prefix}
}

// Subject is <prefix>.<kind>, e.g. voice.presence.joined.
func (s *NATSSink) Subject(kind domain.EventKind) string {
	return s.prefix + "." + string(kind)
}

func (s *NATSSink) Publish(ev domain.PresenceEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "events").Msg("marshal presence event")
		return
	}
	if err := s.pub.Publish(s.Subject(ev.Kind), data); err != nil {
		log.Error().Err(err).Str("module", "events").Str("kind", string(ev.Kind)).Msg("publish presence event")
	}
}

// Close flushes pending events and closes the connection.
func (s *NATSSink) Close() {
	if s.nc == nil {
		return
	}
	if err := s.nc.Drain(); err != nil {
		log.Warn().Err(err).Str("module", "events").Msg("nats drain")
		s.nc.Close()
	}
}
