package signal

import (
	"sync"

	"github.com/dkeye/VoiceRelay/internal/core"
	"github.com/gorilla/websocket"
)

// wsSignalConn is the connection handle the registry stores. Sends are
// queued and written by the write pump.
type wsSignalConn struct {
	id   string
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func newWsSignalConn(id string, ws *websocket.Conn, buffer int) *wsSignalConn {
	return &wsSignalConn{
		id:   id,
		conn: ws,
		send: make(chan core.Frame, buffer),
		done: make(chan struct{}),
	}
}

func (c *wsSignalConn) ID() string { return c.id }

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnectionClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

// Close releases the transport. The first call wins; it unblocks the read
// pump, which then runs the session cleanup.
func (c *wsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	_ = c.conn.Close()
}
