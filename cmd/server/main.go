package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/dkeye/VoiceRelay/internal/adapters/events"
	router "github.com/dkeye/VoiceRelay/internal/adapters/http"
	relaysignal "github.com/dkeye/VoiceRelay/internal/adapters/signal"
	"github.com/dkeye/VoiceRelay/internal/app"
	"github.com/dkeye/VoiceRelay/internal/app/orch"
	"github.com/dkeye/VoiceRelay/internal/config"
	"github.com/dkeye/VoiceRelay/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fs := pflag.NewFlagSet("voice-relay", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logFile := logging.Init(cfg.Log)
	defer logFile.Close()

	if cfg.Source != "" {
		log.Info().Str("file", cfg.Source).Msg("loaded config")
	} else {
		log.Warn().Msg("config file not found, using defaults")
	}

	duplicate, err := app.ParseDuplicateJoin(cfg.DuplicateJoin)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	backpressure, err := app.ParseBackpressure(cfg.Backpressure)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	o := orch.New(app.NewRegistry())
	o.Duplicate = duplicate
	o.Policy = app.SimplePolicy{Action: backpressure}
	o.Limiter = app.NewJoinRateLimiter(cfg.JoinRate.Limit, cfg.JoinRate.Interval)
	go o.Limiter.Run(ctx)

	if cfg.NATS.URL != "" {
		sink, err := events.Dial(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			log.Error().Err(err).Msg("presence events disabled")
		} else {
			o.Events = sink
			defer sink.Close()
			log.Info().Str("url", cfg.NATS.URL).Msg("publishing presence events")
		}
	}

	ctrl := relaysignal.NewSignalWSController(o)
	ctrl.ReadLimit = cfg.ReadLimit
	ctrl.SendBuffer = cfg.SendBuffer
	ctrl.WriteTimeout = cfg.WriteTimeout
	ctrl.PingPeriod = cfg.PingPeriod

	r := router.SetupRouter(ctx, cfg, ctrl)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("path", cfg.Path).Msg("Voice relay started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
