package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"statuswatch/internal/engine"
	"statuswatch/internal/models"
)

const defaultHistoryLimit = 200

// Server exposes the engine to external presentation layers over HTTP.
type Server struct {
	httpServer   *http.Server
	engine       *engine.Engine
	historyLimit int
	now          func() time.Time
}

// New creates a configured HTTP server around one engine.
func New(addr string, eng *engine.Engine) *Server {
	mux := http.NewServeMux()
	s := &Server{
		httpServer:   &http.Server{Addr: addr, Handler: mux},
		engine:       eng,
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
	}
	s.registerRoutes(mux)
	return s
}

// Run blocks and serves HTTP traffic.
func (s *Server) Run() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/uptime", s.handleUptime)
	mux.HandleFunc("/api/timeline", s.handleTimeline)
	mux.HandleFunc("/api/status/ws", s.handleStatusWS)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "1"
	sample, err := s.engine.Status(r.Context(), force)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, s.historyLimit)
	history := s.engine.History()
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleUptime(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"window_seconds": int(s.engine.UptimeWindow() / time.Second),
		"uptime_percent": s.engine.UptimePercent(),
		"services":       engine.ComputeServiceUptime(s.engine.History()),
	})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	points := parsePoints(r)
	end := s.now()
	start := end.Add(-s.engine.UptimeWindow())
	writeJSON(w, http.StatusOK, map[string]any{
		"range_start": start,
		"range_end":   end,
		"buckets":     engine.BuildTimeline(s.engine.History(), start, end, points),
	})
}

func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 || value > fallback {
		return fallback
	}
	return value
}

func parsePoints(r *http.Request) int {
	raw := r.URL.Query().Get("points")
	if raw == "" {
		return engine.DefaultTimelinePoints
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 || value > 500 {
		return engine.DefaultTimelinePoints
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

// latestOrCompute serves the freshest sample the cache allows; used by the
// websocket push loop so subscribers never trigger probe storms.
func (s *Server) latestOrCompute(ctx context.Context) (models.StatusSample, error) {
	return s.engine.Status(ctx, false)
}
