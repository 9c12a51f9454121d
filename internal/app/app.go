// v0
// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"log/slog"

	"nrgchamp/animeitor/internal/breaker"
	"nrgchamp/animeitor/internal/broadcast"
	"nrgchamp/animeitor/internal/config"
	"nrgchamp/animeitor/internal/domain"
	"nrgchamp/animeitor/internal/httpapi"
	"nrgchamp/animeitor/internal/loader"
	"nrgchamp/animeitor/internal/logging"
	"nrgchamp/animeitor/internal/metrics"
	"nrgchamp/animeitor/internal/store"
	"nrgchamp/animeitor/internal/updateloop"
	"nrgchamp/animeitor/internal/wsapi"
)

// Application wires configuration, logging, the snapshot pipeline, and
// the HTTP/WebSocket surface together: config -> logger -> store ->
// server, with graceful shutdown on SIGINT/SIGTERM.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func()
	server     *http.Server
	loop       *updateloop.Loop
	metrics    *metrics.Registry
}

// New prepares a fully wired Application from cfg. sedeConfig is the
// static ConfigContest served at /config; callers decide where it comes
// from.
func New(cfg config.Config, sedeConfig domain.ConfigContest) (*Application, error) {
	logger, cleanup, err := logging.New(cfg.LogFilePath, "INFO")
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	st := store.New()
	runsOut := broadcast.NewRunsBroadcast(1_000_000)
	timerOut := broadcast.NewTimerBroadcast()
	reg := metrics.NewRegistry()

	cb := breaker.New("snapshot-fetch", breaker.DefaultConfig(), logger)
	ld := loader.New(nil, cb, logger)
	source := ld.AsTupleSource(cfg.SnapshotSource)

	loop := updateloop.New(source, st, runsOut, timerOut, cfg.TickInterval, reg, logger)

	httpServer := httpapi.New(st, sedeConfig, cfg.Secret, reg, logger)
	mux := httpServer.NewRouter()

	wsServer := wsapi.New(runsOut, timerOut, reg, logger)
	wsServer.Register(mux)

	srv := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: withRequestLogging(logger, mux),
	}

	return &Application{
		cfg:        cfg,
		logger:     logger,
		logCleanup: cleanup,
		server:     srv,
		loop:       loop,
		metrics:    reg,
	}, nil
}

// Logger exposes the configured slog logger for startup-time logging.
func (a *Application) Logger() *slog.Logger { return a.logger }

// Run starts the update loop and the HTTP server, blocking until ctx is
// cancelled (by SIGINT/SIGTERM) or the server terminates unexpectedly,
// then shuts both down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopErrCh := make(chan error, 1)
	go func() { loopErrCh <- a.loop.Run(ctx) }()

	srvErrCh := make(chan error, 1)
	go func() {
		a.logger.Info("http_server_listen", slog.String("address", a.cfg.ListenAddress))
		err := a.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErrCh <- err
			return
		}
		srvErrCh <- nil
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown_signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("server_shutdown_failed", slog.Any("err", err))
			return fmt.Errorf("shutdown: %w", err)
		}
		<-srvErrCh
		<-loopErrCh
		a.logger.Info("shutdown_complete")
		return nil
	case err := <-srvErrCh:
		if err != nil {
			a.logger.Error("http_server_error", slog.Any("err", err))
			return err
		}
		return nil
	}
}

// Close flushes and releases resources owned by the application.
func (a *Application) Close() error {
	a.logCleanup()
	return nil
}

func withRequestLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("http_request", slog.String("method", r.Method), slog.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}
