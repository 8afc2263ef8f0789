package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/VoiceRelay/internal/app/orch"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	var ping <-chan time.Time
	if ctl.PingPeriod > 0 {
		ticker := time.NewTicker(ctl.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", c.id).Msg("writePump ctx done")
			c.Close()
			return
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.writeTimeout())); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", c.id).Msg("writePump set deadline")
				c.Close()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", c.id).Msg("writePump write error")
				c.Close()
				return
			}
		case <-ping:
			deadline := time.Now().Add(ctl.writeTimeout())
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("conn", c.id).Msg("writePump ping error")
				c.Close()
				return
			}
		}
	}
}

// readPump processes messages strictly in receipt order. Whatever ends it
// (remote close, transport error, local Close, shutdown) leads to exactly
// one session cleanup.
func (ctl *SignalWSController) readPump(c *wsSignalConn, sess *orch.Session) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", c.id).Msg("readPump closing")
		sess.Close()
		c.Close()
	}()

	if ctl.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.ReadLimit)
	}
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			logReadError(c.id, err)
			return
		}
		sess.Handle(data)
	}
}

func logReadError(id string, err error) {
	var ce *websocket.CloseError
	switch {
	case errors.As(err, &ce) && (ce.Code == websocket.CloseNormalClosure || ce.Code == websocket.CloseGoingAway):
		log.Info().Str("module", "signal").Str("conn", id).Int("code", ce.Code).Msg("peer closed")
	case errors.Is(err, websocket.ErrReadLimit):
		log.Warn().Err(err).Str("module", "signal").Str("conn", id).Msg("message too large")
	default:
		log.Warn().Err(err).Str("module", "signal").Str("conn", id).Msg("readPump read error")
	}
}
