// Package webui serves the read-only dashboard: a single embedded HTML page
// backed by two JSON endpoints. Everything it knows comes from the status
// store and the log file; it never talks to Docker itself.
package webui

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/tiation/tiation-active-directory-setup/internal/logging"
	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

//go:embed dashboard.html
var dashboardHTML []byte

// logTailLines is how many log lines /api/logs returns.
const logTailLines = 50

type Server struct {
	port       int
	statusPath string
	logPath    string
	logger     *slog.Logger

	// now is swappable so tests can pin staleness decisions.
	now func() time.Time
}

type Options struct {
	Port       int
	StatusPath string
	LogPath    string
	Logger     *slog.Logger
}

func NewServer(opts Options) *Server {
	return &Server{
		port:       opts.Port,
		statusPath: opts.StatusPath,
		logPath:    opts.LogPath,
		logger:     opts.Logger,
		now:        time.Now,
	}
}

// Handler returns the route table. Anything outside the three known paths
// gets the mux's 404.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/logs", s.handleLogs)
	return mux
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	address := fmt.Sprintf(":%d", s.port)
	server := &http.Server{
		Addr:    address,
		Handler: s.Handler(),
	}

	s.logger.Info("web ui listening", "addr", address)

	done := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			done <- err
			return
		}
		done <- nil
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web ui")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
		return err
	}

	return <-done
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(dashboardHTML)
}

// statusResponse is the dashboard's status document. Daemon is either the
// daemon info object or false, which the page uses directly as its
// running/stopped signal.
type statusResponse struct {
	Daemon      any                      `json:"daemon"`
	Docker      bool                     `json:"docker"`
	ForestCount int                      `json:"forest_count"`
	Forests     map[string]status.Forest `json:"forests"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	response := statusResponse{
		Daemon:  false,
		Forests: map[string]status.Forest{},
	}

	snap, err := status.Read(s.statusPath)
	switch {
	case errors.Is(err, status.ErrNotAvailable):
		// Daemon never ran; serve the empty defaults.
	case err != nil:
		s.logger.Error("failed to read status store", "error", err)
	default:
		response.Docker = snap.Docker
		response.Forests = snap.Forests
		response.ForestCount = snap.ForestCount()
		// A stale snapshot still shows the last known forests, but the
		// daemon that wrote it is gone.
		if !snap.Stale(s.now(), status.DefaultStaleThreshold) {
			response.Daemon = snap.Daemon
		}
	}

	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	logs := "No logs available"

	tail, err := logging.Tail(s.logPath, logTailLines)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		logs = fmt.Sprintf("Error reading logs: %v", err)
	case tail != "":
		logs = tail
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"logs": logs})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
