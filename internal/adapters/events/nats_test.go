package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/dkeye/VoiceRelay/internal/domain"
)

var _ core.EventSink = (*NATSSink)(nil)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{subject, data})
	return nil
}

func TestNATSSinkPublish(t *testing.T) {
	pub := &fakePublisher{}
	sink := newSink(pub, "")

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sink.Publish(domain.PresenceEvent{
		Kind:      domain.EventJoined,
		RoomID:    domain.NumericRoomID(9),
		UserID:    domain.NewUserID("u1"),
		Username:  "ann",
		IsSpeaker: true,
		At:        at,
	})

	if len(pub.msgs) != 1 {
		t.Fatalf("published %d messages", len(pub.msgs))
	}
	if pub.msgs[0].subject != "voice.presence.joined" {
		t.Errorf("subject = %q", pub.msgs[0].subject)
	}
	var got map[string]any
	if err := json.Unmarshal(pub.msgs[0].data, &got); err != nil {
		t.Fatal(err)
	}
	if got["roomId"] != float64(9) || got["userId"] != "u1" || got["isSpeaker"] != true || got["at"] != "2026-01-02T03:04:05Z" {
		t.Errorf("payload = %v", got)
	}
}

func TestNATSSinkSubjectPrefix(t *testing.T) {
	sink := newSink(&fakePublisher{}, "club.rooms")
	if got := sink.Subject(domain.EventLeft); got != "club.rooms.left" {
		t.Errorf("Subject = %q", got)
	}
}

func TestNATSSinkPublishErrorIsSwallowed(t *testing.T) {
	sink := newSink(&fakePublisher{err: errors.New("boom")}, "")
	sink.Publish(domain.PresenceEvent{Kind: domain.EventHand})
	sink.Close()
}
