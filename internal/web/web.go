// Package web serves the optional status endpoints: /health, /metrics and
// /api/last-run. It is observational only; nothing here feeds back into the
// pipeline.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fxnotify/internal/config"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/metrics"
	"fxnotify/internal/model"
)

// Server provides the status HTTP API.
type Server struct {
	cfg     *config.Config
	mux     *http.ServeMux
	lastRun func() *model.RunSummary

	httpSrv *http.Server
}

// NewServer constructs a Server. lastRun supplies the most recent pipeline
// run summary (nil before the first run).
func NewServer(cfg *config.Config, lastRun func() *model.RunSummary) *Server {
	s := &Server{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		lastRun: lastRun,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/last-run", s.handleLastRun)
	s.mux.Handle("/metrics", metrics.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleLastRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	run := s.lastRun()
	if run == nil {
		http.Error(w, "no run completed yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(run)
}

// Start begins serving on cfg.Listen in a background goroutine.
func (s *Server) Start() {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	appLog.Info("starting status server", "listen", "http://"+s.cfg.Listen)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("status server stopped", err)
		}
	}()
}

// Shutdown stops the status server gracefully.
func (s *Server) Shutdown(ctx context.Context) {
	if s.httpSrv == nil {
		return
	}
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		appLog.Error("status server shutdown failed", err)
	}
}
