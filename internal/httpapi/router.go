// v0
// internal/httpapi/router.go
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"nrgchamp/animeitor/internal/domain"
	"nrgchamp/animeitor/internal/metrics"
	"nrgchamp/animeitor/internal/store"
)

// Server bundles the JSON HTTP endpoints: point-in-time snapshot reads
// served straight from the store.
type Server struct {
	store   *store.Store
	config  domain.ConfigContest
	secret  string
	metrics *metrics.Registry
	logger  *slog.Logger
}

// New builds a Server. config is the static sede configuration served at
// /config; secret is the unguessable path segment required at
// /allruns_secret/<secret>.
func New(st *store.Store, config domain.ConfigContest, secret string, reg *metrics.Registry, logger *slog.Logger) *Server {
	return &Server{store: st, config: config, secret: secret, metrics: reg, logger: logger}
}

// NewRouter wires the plain HTTP routes. /allruns_ws and /timer are
// wired separately by internal/wsapi since they're WebSocket upgrades.
func (s *Server) NewRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/runs", methodGuard(http.MethodGet, http.HandlerFunc(s.handleRuns)))
	mux.Handle("/allruns_secret/", methodGuard(http.MethodGet, http.HandlerFunc(s.handleAllRunsSecret)))
	mux.Handle("/contest", methodGuard(http.MethodGet, http.HandlerFunc(s.handleContest)))
	mux.Handle("/config", methodGuard(http.MethodGet, http.HandlerFunc(s.handleConfig)))
	mux.Handle("/score", methodGuard(http.MethodGet, http.HandlerFunc(s.handleScore)))
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// handleRoot redirects the bare root to the scoreboard; anything else
// unmatched is a 404.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/score", http.StatusFound)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.store.RunFile())
}

func (s *Server) handleAllRunsSecret(w http.ResponseWriter, r *http.Request) {
	candidate := r.URL.Path[len("/allruns_secret/"):]
	if subtle.ConstantTimeCompare([]byte(candidate), []byte(s.secret)) != 1 {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, s.store.RunFileSecret())
}

func (s *Server) handleContest(w http.ResponseWriter, r *http.Request) {
	contest := s.store.ContestBegin()
	if contest == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, contest)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.config)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	contest := s.store.Contest()
	if contest == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, contest.Teams)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("write_response_failed", slog.Any("err", err))
	}
}

func methodGuard(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write([]byte("method not allowed"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
