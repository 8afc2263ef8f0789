package app

import "fmt"

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a recipient whose send queue is full.
type Policy interface {
	OnBackPressure(member Member) BackpressureAction
}

type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(Member) BackpressureAction { return p.Action }

// ParseBackpressure maps the config value onto an action.
func ParseBackpressure(s string) (BackpressureAction, error) {
	switch s {
	case "", "drop":
		return DropFrame, nil
	case "kick":
		return KickMember, nil
	}
	return DropFrame, fmt.Errorf("unknown backpressure policy %q", s)
}

type DuplicateJoin int

const (
	// ReplaceOld rebinds the user to the new connection and closes the old one.
	ReplaceOld DuplicateJoin = iota
	// RejectNew keeps the existing binding and refuses the new join.
	RejectNew
)

func ParseDuplicateJoin(s string) (DuplicateJoin, error) {
	switch s {
	case "", "replace":
		return ReplaceOld, nil
	case "reject":
		return RejectNew, nil
	}
	return ReplaceOld, fmt.Errorf("unknown duplicate_join policy %q", s)
}
