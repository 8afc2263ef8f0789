package core

import "errors"

// Frame is one complete outbound message.
type Frame []byte

var (
	ErrBackpressure     = errors.New("backpressure")
	ErrConnectionClosed = errors.New("connection closed")
)

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// ID is unique per transport session, for logs only.
	ID() string
	// TrySend queues f without blocking. It fails with ErrBackpressure when
	// the queue is full and ErrConnectionClosed after Close.
	TrySend(f Frame) error
	Close()
}
