// Package api exposes the session lifecycle and stored-report queries
// over HTTP with JSON bodies.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/motion.report/internal/db"
	"github.com/banshee-data/motion.report/internal/feedback"
	"github.com/banshee-data/motion.report/internal/httputil"
	"github.com/banshee-data/motion.report/internal/profile"
	"github.com/banshee-data/motion.report/internal/security"
	"github.com/banshee-data/motion.report/internal/session"
	"github.com/banshee-data/motion.report/internal/source"
	"github.com/banshee-data/motion.report/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	coord         *session.Coordinator
	db            *db.DB
	recordingsDir string
	started       time.Time
}

// NewServer wires the coordinator and (optionally nil) report store
// into the HTTP surface.
func NewServer(coord *session.Coordinator, database *db.DB) *Server {
	return &Server{
		coord:   coord,
		db:      database,
		started: time.Now(),
	}
}

// SetRecordingsDir confines file-source paths to dir. Empty leaves
// paths unrestricted (dev mode).
func (s *Server) SetRecordingsDir(dir string) {
	s.recordingsDir = dir
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.health)
	mux.HandleFunc("/api/session/start", s.startSession)
	mux.HandleFunc("/api/session/stop", s.stopSession)
	mux.HandleFunc("/api/session/stats", s.sessionStats)
	mux.HandleFunc("/api/sports", s.listSports)
	mux.HandleFunc("/api/sessions", s.listSessions)
	mux.HandleFunc("/api/sessions/report", s.sessionReport)
	mux.HandleFunc("/api/sessions/chart", s.sessionsChart)
	mux.HandleFunc("/api/user/progress", s.userProgress)
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]interface{}{
		"status":          "ok",
		"version":         version.Version,
		"git_sha":         version.GitSHA,
		"active_sessions": s.coord.Store().Len(),
		"uptime_secs":     time.Since(s.started).Seconds(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// startRequest is the body of POST /api/session/start.
type startRequest struct {
	Sport     string `json:"sport"`
	UserID    string `json:"user_id,omitempty"`
	Source    string `json:"source,omitempty"` // "synthetic" (default) or "file"
	Path      string `json:"path,omitempty"`   // recording path for the file source
	FPS       int    `json:"fps,omitempty"`
	MaxFrames int    `json:"max_frames,omitempty"`
	Capacity  int    `json:"capacity,omitempty"`
}

func (s *Server) startSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Sport == "" {
		httputil.BadRequest(w, "missing sport")
		return
	}

	src, err := s.buildSource(req)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	id, err := s.coord.Start(session.Config{
		Sport:    req.Sport,
		UserID:   req.UserID,
		Source:   src,
		Capacity: req.Capacity,
	})
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) {
			httputil.ServiceUnavailable(w, err.Error())
			return
		}
		httputil.BadRequest(w, err.Error())
		return
	}

	httputil.WriteJSONOK(w, map[string]string{
		"session_id": id,
		"sport":      req.Sport,
		"status":     "started",
	})
}

func (s *Server) buildSource(req startRequest) (source.Source, error) {
	switch req.Source {
	case "", "synthetic":
		return &source.SyntheticSource{FPS: req.FPS, MaxFrames: req.MaxFrames}, nil
	case "file":
		if req.Path == "" {
			return nil, errors.New("file source requires a path")
		}
		if s.recordingsDir != "" {
			if err := security.ValidatePathWithinDirectory(req.Path, s.recordingsDir); err != nil {
				return nil, fmt.Errorf("recording path rejected: %w", err)
			}
		}
		return &source.FileSource{Path: req.Path, Realtime: true}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", req.Source)
	}
}

func (s *Server) stopSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		httputil.BadRequest(w, "missing session id")
		return
	}

	report, err := s.coord.Stop(id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			httputil.NotFound(w, fmt.Sprintf("session %s not found", id))
			return
		}
		// The report exists even when persistence failed; surface the
		// error instead of losing it silently.
		httputil.InternalServerError(w, err.Error())
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"session_id": id,
		"report":     report,
		"voice_text": feedback.VoiceText(report),
	})
}

func (s *Server) sessionStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		httputil.BadRequest(w, "missing session id")
		return
	}

	stats, err := s.coord.Stats(id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			httputil.NotFound(w, fmt.Sprintf("session %s not found", id))
			return
		}
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, stats)
}

func (s *Server) listSports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	httputil.WriteJSONOK(w, map[string]interface{}{"sports": profile.Sports})
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "report store not configured")
		return
	}

	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	sessions, err := s.db.ListSessions(r.URL.Query().Get("user"), limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("list sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []db.SessionSummary{}
	}
	httputil.WriteJSONOK(w, sessions)
}

func (s *Server) sessionReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "report store not configured")
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		httputil.BadRequest(w, "missing session id")
		return
	}

	report, err := s.db.SessionReport(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			httputil.NotFound(w, fmt.Sprintf("session %s not found", id))
			return
		}
		httputil.InternalServerError(w, fmt.Sprintf("load report: %v", err))
		return
	}
	httputil.WriteJSONOK(w, report)
}

func (s *Server) userProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.db == nil {
		httputil.ServiceUnavailable(w, "report store not configured")
		return
	}

	days, err := queryInt(r, "days", 30)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	progress, err := s.db.ProgressByDay(r.URL.Query().Get("user"), days)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("progress rollup: %v", err))
		return
	}
	if progress == nil {
		progress = []db.DailyProgress{}
	}
	httputil.WriteJSONOK(w, progress)
}

// queryInt parses an optional positive integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("invalid %q parameter", name)
	}
	return v, nil
}
