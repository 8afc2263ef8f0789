package signal

import (
	"context"
	"net/http"
	"time"

	"github.com/dkeye/VoiceRelay/internal/app/orch"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultSendBuffer   = 64
	defaultWriteTimeout = 5 * time.Second
)

// SignalWSController owns the accept path and the per-connection pumps.
type SignalWSController struct {
	Orch *orch.Orchestrator

	ReadLimit    int64
	SendBuffer   int
	WriteTimeout time.Duration
	PingPeriod   time.Duration
}

func NewSignalWSController(o *orch.Orchestrator) *SignalWSController {
	return &SignalWSController{
		Orch:         o,
		SendBuffer:   defaultSendBuffer,
		WriteTimeout: defaultWriteTimeout,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades the request and starts the pumps. ctx bounds the
// connection lifetime; cancelling it closes the connection.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	buffer := ctl.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	conn := newWsSignalConn(uuid.NewString(), ws, buffer)
	log.Info().Str("module", "signal").Str("conn", conn.id).Str("remote", c.ClientIP()).Msg("new WS connection")

	sess := ctl.Orch.Connect(conn)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(conn, sess)
}

func (ctl *SignalWSController) writeTimeout() time.Duration {
	if ctl.WriteTimeout <= 0 {
		return defaultWriteTimeout
	}
	return ctl.WriteTimeout
}
