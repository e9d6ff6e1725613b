package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wolfeidau/saasframework/internal/logger"
	"github.com/wolfeidau/saasframework/internal/telemetry"
	"github.com/wolfeidau/saasframework/internal/webapp"
)

type ServeCmd struct {
	ClientFlags `embed:""`

	Listen      string   `help:"HTTP server listen address" default:"localhost:8080" env:"SAAS_LISTEN"`
	CORSOrigins []string `name:"cors-origins" help:"allowed CORS origins" env:"SAAS_CORS_ORIGINS"`
	Tracing     bool     `help:"enable tracing" default:"false" env:"SAAS_TRACING"`
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)
	logger.SetGlobal(log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting demo server")

	if s.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "saasframework-demo", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	authClient, rbacClient, err := s.newClients()
	if err != nil {
		return err
	}

	handler := webapp.NewHandler(webapp.Options{
		Auth:        authClient,
		Permissions: rbacClient,
		Logger:      log,
		CORSOrigins: s.CORSOrigins,
	})

	srv := configureHTTPServer(s.Listen, handler)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.Listen).Msg("Starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
