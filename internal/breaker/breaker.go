// v0
// internal/breaker/breaker.go
package breaker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// State is one of the three circuit breaker states.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// ErrOpen is returned when the breaker fast-fails a call instead of
// invoking the wrapped operation.
var ErrOpen = errors.New("breaker: circuit is open; fast-fail")

// Config carries the breaker's tunables.
type Config struct {
	MaxFailures      int
	ResetTimeout     time.Duration
	SuccessesToClose int
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{MaxFailures: 5, ResetTimeout: 30 * time.Second, SuccessesToClose: 1}
}

// Breaker wraps the snapshot loader's outbound fetch: a failure counter
// gates a fast-fail Open state until ResetTimeout elapses, then HalfOpen
// lets calls through until SuccessesToClose successes close it again or
// one failure reopens it.
type Breaker struct {
	name   string
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	fails     int
	successes int
	openedAt  time.Time
}

// New builds a Breaker. A nil logger falls back to a discarding logger.
func New(name string, cfg Config, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(nopWriter{}, nil))
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultConfig().MaxFailures
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = DefaultConfig().ResetTimeout
	}
	if cfg.SuccessesToClose <= 0 {
		cfg.SuccessesToClose = DefaultConfig().SuccessesToClose
	}
	b := &Breaker{name: name, cfg: cfg, logger: logger, state: Closed}
	b.logger.Info("breaker_created", slog.String("name", name), slog.String("state", b.state.String()))
	return b
}

// Execute runs op under the breaker's protection. In Open state it
// fast-fails with ErrOpen until ResetTimeout has elapsed, at which point it
// moves to HalfOpen and lets calls through as probes.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if !b.allow() {
		b.logger.Warn("breaker_fast_fail", slog.String("name", b.name))
		return ErrOpen
	}

	err := op(ctx)
	if err != nil {
		b.onFailure(err)
		return err
	}
	b.onSuccess()
	return nil
}

// allow reports whether a call may proceed, transitioning Open -> HalfOpen
// once the reset timeout has elapsed.
func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed, HalfOpen:
		return true
	case Open:
		if time.Since(b.openedAt) >= b.cfg.ResetTimeout {
			b.state = HalfOpen
			b.successes = 0
			b.logger.Info("breaker_probe_start", slog.String("name", b.name))
			return true
		}
		return false
	default:
		return true
	}
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessesToClose {
			b.state = Closed
			b.fails = 0
			b.logger.Info("breaker_closed", slog.String("name", b.name))
		}
	case Closed:
		b.fails = 0
	}
}

func (b *Breaker) onFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.state = Open
		b.openedAt = time.Now()
		b.logger.Warn("breaker_reopened", slog.String("name", b.name), slog.Any("err", err))
	case Closed:
		b.fails++
		if b.fails >= b.cfg.MaxFailures {
			b.state = Open
			b.openedAt = time.Now()
			b.logger.Warn("breaker_opened", slog.String("name", b.name), slog.Int("failures", b.fails), slog.Any("err", err))
		}
	}
}

// StateString reports the breaker's current state, for diagnostics.
func (b *Breaker) StateString() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
