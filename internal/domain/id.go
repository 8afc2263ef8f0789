package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

var ErrInvalidID = errors.New("id must be a JSON string or number")

// Identifiers are kept as their canonical JSON literal so that a client
// which sent 42 gets 42 back and one which sent "42" gets "42".

func parseID(b []byte) (string, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", err
		}
		if s == "" {
			return "", nil
		}
		return strconv.Quote(s), nil
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return "", ErrInvalidID
		}
		return n.String(), nil
	}
}

func formatID(raw string) []byte {
	if raw == "" {
		return []byte("null")
	}
	return []byte(raw)
}

func displayID(raw string) string {
	if s, err := strconv.Unquote(raw); err == nil {
		return s
	}
	return raw
}

type UserID string

func NewUserID(s string) UserID { return UserID(strconv.Quote(s)) }

func NumericUserID(n int64) UserID { return UserID(strconv.FormatInt(n, 10)) }

func (id UserID) IsZero() bool   { return id == "" }
func (id UserID) String() string { return displayID(string(id)) }

func (id UserID) MarshalJSON() ([]byte, error) { return formatID(string(id)), nil }

func (id *UserID) UnmarshalJSON(b []byte) error {
	s, err := parseID(b)
	if err != nil {
		return err
	}
	*id = UserID(s)
	return nil
}

type RoomID string

func NewRoomID(s string) RoomID { return RoomID(strconv.Quote(s)) }

func NumericRoomID(n int64) RoomID { return RoomID(strconv.FormatInt(n, 10)) }

func (id RoomID) IsZero() bool   { return id == "" }
func (id RoomID) String() string { return displayID(string(id)) }

func (id RoomID) MarshalJSON() ([]byte, error) { return formatID(string(id)), nil }

func (id *RoomID) UnmarshalJSON(b []byte) error {
	s, err := parseID(b)
	if err != nil {
		return err
	}
	*id = RoomID(s)
	return nil
}
