// v0
// internal/wsapi/wsapi.go
package wsapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"nrgchamp/animeitor/internal/broadcast"
	"nrgchamp/animeitor/internal/metrics"
)

// reconnectBackoff is the fixed reconnect delay clients should honor. It
// is surfaced via the X-Reconnect-Backoff-Ms header on upgrade so a
// browser client doesn't hard-code the value twice.
const reconnectBackoff = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server serves the two streaming endpoints: /allruns_ws
// (memoised-then-live run tuples) and /timer (change-only timer ticks).
type Server struct {
	runs    *broadcast.RunsBroadcast
	timer   *broadcast.TimerBroadcast
	metrics *metrics.Registry
	logger  *slog.Logger
}

// New builds a Server. reg and logger may be nil.
func New(runs *broadcast.RunsBroadcast, timer *broadcast.TimerBroadcast, reg *metrics.Registry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{runs: runs, timer: timer, metrics: reg, logger: logger}
}

// Register mounts /allruns_ws and /timer on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/allruns_ws", s.handleAllRunsWS)
	mux.HandleFunc("/timer", s.handleTimerWS)
}

// handleAllRunsWS streams memoised history followed by live runs, with
// no gap and no duplicate at the switch-over.
func (s *Server) handleAllRunsWS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Reconnect-Backoff-Ms", reconnectMillis())
	conn, err := upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		s.logger.Warn("ws_upgrade_failed", slog.String("endpoint", "allruns_ws"), slog.Any("err", err))
		return
	}
	defer conn.Close()

	sub := s.runs.Subscribe()
	defer sub.Close()
	if s.metrics != nil {
		s.metrics.RunsSubscribers.Inc()
		defer s.metrics.RunsSubscribers.Dec()
	}

	for _, run := range sub.Replay {
		if err := conn.WriteJSON(run); err != nil {
			return
		}
	}
	for run := range sub.Live {
		if err := conn.WriteJSON(run); err != nil {
			return
		}
	}
}

// handleTimerWS streams TimerData only when it changes.
func (s *Server) handleTimerWS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Reconnect-Backoff-Ms", reconnectMillis())
	conn, err := upgrader.Upgrade(w, r, w.Header())
	if err != nil {
		s.logger.Warn("ws_upgrade_failed", slog.String("endpoint", "timer"), slog.Any("err", err))
		return
	}
	defer conn.Close()

	sub := s.timer.Subscribe()
	defer sub.Close()
	if s.metrics != nil {
		s.metrics.TimerSubscribers.Inc()
		defer s.metrics.TimerSubscribers.Dec()
	}

	for t := range sub.Live {
		if err := conn.WriteJSON(t); err != nil {
			return
		}
	}
}

func reconnectMillis() string {
	b, _ := json.Marshal(reconnectBackoff.Milliseconds())
	return string(b)
}
