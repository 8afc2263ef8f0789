package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Flag is a client-sent boolean. Clients backed by the rooms database send
// 0/1 or "0"/"1" as well as true/false. Values that are none of those read
// as false; decoding never fails.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	*f = Flag(parseFlag(bytes.TrimSpace(b)))
	return nil
}

func parseFlag(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch b[0] {
	case 't':
		return bytes.Equal(b, []byte("true"))
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return false
		}
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
		n, err := strconv.ParseFloat(s, 64)
		return err == nil && n != 0
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		return err == nil && n != 0
	}
}
