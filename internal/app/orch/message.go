package orch

import (
	"encoding/json"

	"github.com/dkeye/VoiceRelay/internal/domain"
)

const (
	TypeJoin         = "join"
	TypeLeave        = "leave"
	TypeMute         = "mute"
	TypeHand         = "hand"
	TypeOffer        = "offer"
	TypeAnswer       = "answer"
	TypeICECandidate = "ice-candidate"

	TypeUserJoined   = "user-joined"
	TypeParticipants = "participants"
	TypeUserLeft     = "user-left"
	TypeUserMuted    = "user-muted"
	TypeUserHand     = "user-hand"
	TypeError        = "error"
)

// inbound is the union of every field a client may send. Absent fields
// decode to their zero value. Signaling payloads stay raw; they are relayed
// as received.
type inbound struct {
	Type         string          `json:"type"`
	RoomID       domain.RoomID   `json:"roomId"`
	UserID       domain.UserID   `json:"userId"`
	Username     string          `json:"username"`
	IsSpeaker    domain.Flag     `json:"isSpeaker"`
	IsMuted      domain.Flag     `json:"isMuted"`
	Raised       domain.Flag     `json:"raised"`
	TargetUserID domain.UserID   `json:"targetUserId"`
	Offer        json.RawMessage `json:"offer,omitempty"`
	Answer       json.RawMessage `json:"answer,omitempty"`
	Candidate    json.RawMessage `json:"candidate,omitempty"`
}

type userJoinedMsg struct {
	Type string `json:"type"`
	domain.Participant
}

type participantsMsg struct {
	Type         string               `json:"type"`
	Participants []domain.Participant `json:"participants"`
}

type userLeftMsg struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"userId"`
}

type userMutedMsg struct {
	Type    string        `json:"type"`
	UserID  domain.UserID `json:"userId"`
	IsMuted bool          `json:"isMuted"`
}

type userHandMsg struct {
	Type   string        `json:"type"`
	UserID domain.UserID `json:"userId"`
	Raised bool          `json:"raised"`
}

type errorMsg struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
