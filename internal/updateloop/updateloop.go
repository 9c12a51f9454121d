// v0
// internal/updateloop/updateloop.go
package updateloop

import (
	"context"
	"log/slog"
	"time"

	"nrgchamp/animeitor/internal/broadcast"
	"nrgchamp/animeitor/internal/loader"
	"nrgchamp/animeitor/internal/metrics"
	"nrgchamp/animeitor/internal/store"
)

// DefaultTickInterval is the default refresh cadence.
const DefaultTickInterval = time.Second

// Loop is the single cooperative refresh task: every tick it loads a
// fresh snapshot, refreshes the store, and pushes fresh runs and a
// changed timer value into the broadcast fabric. It publishes only
// after the store lock is released.
type Loop struct {
	source       loader.TupleSource
	store        *store.Store
	runsOut      *broadcast.RunsBroadcast
	timerOut     *broadcast.TimerBroadcast
	tickInterval time.Duration
	metrics      *metrics.Registry
	logger       *slog.Logger
}

// New builds a Loop. A zero tickInterval falls back to
// DefaultTickInterval; reg and logger may be nil.
func New(source loader.TupleSource, st *store.Store, runsOut *broadcast.RunsBroadcast, timerOut *broadcast.TimerBroadcast, tickInterval time.Duration, reg *metrics.Registry, logger *slog.Logger) *Loop {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		source:       source,
		store:        st,
		runsOut:      runsOut,
		timerOut:     timerOut,
		tickInterval: tickInterval,
		metrics:      reg,
		logger:       logger,
	}
}

// Run blocks, ticking until ctx is cancelled. Errors from the loader or
// the store refresh are logged and never stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("updateloop_stopped", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()
		case <-ticker.C:
			l.tick(ctx)
		}
	}
}

func (l *Loop) tick(ctx context.Context) {
	if l.metrics != nil {
		l.metrics.TicksTotal.Inc()
	}

	snap, err := l.source.LoadSnapshot(ctx)
	if err != nil {
		if l.metrics != nil {
			l.metrics.TickErrorsTotal.Inc()
		}
		l.logger.Warn("updateloop_load_failed", slog.Any("err", err))
		return
	}

	fresh, err := l.store.RefreshDB(snap.CurrentTime, snap.Contest, snap.Runs)
	if err != nil {
		if l.metrics != nil {
			l.metrics.TickErrorsTotal.Inc()
		}
		l.logger.Warn("updateloop_refresh_failed", slog.Any("err", err))
		return
	}

	for _, r := range fresh {
		l.runsOut.Publish(r)
	}
	if l.metrics != nil && len(fresh) > 0 {
		l.metrics.FreshRunsTotal.Add(float64(len(fresh)))
	}
	l.timerOut.Publish(l.store.TimerData())
}
