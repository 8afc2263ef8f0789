package http

import (
	"context"
	"net/http"

	"github.com/dkeye/VoiceRelay/internal/adapters/signal"
	"github.com/dkeye/VoiceRelay/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const livenessBody = "Voice Chat WebSocket Server"

// SetupRouter serves the relay on cfg.Path: WebSocket upgrades become relay
// connections, any other GET is answered with a plaintext liveness line.
// ctx bounds every relay connection.
func SetupRouter(ctx context.Context, cfg *config.Config, ctrl *signal.SignalWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET(cfg.Path, func(c *gin.Context) {
		if websocket.IsWebSocketUpgrade(c.Request) {
			ctrl.HandleSignal(ctx, c)
			return
		}
		c.String(http.StatusOK, livenessBody)
	})

	log.Info().Str("module", "adapters.http").Str("path", cfg.Path).Msg("router setup")
	return r
}
