// Package workload implements the workload daemon: an HTTP endpoint that
// runs a named synthetic task under a sampling profiler and forwards the
// resulting profile to the ingestion endpoint.
package workload

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/rs/zerolog"
)

type taskRequest struct {
	Type string `json:"type"`
}

// Server exposes POST /task over HTTP, backed by an Executor.
type Server struct {
	executor *Executor
	logger   zerolog.Logger
	listener net.Listener
	server   *http.Server
}

// NewServer creates a workload daemon server over executor.
func NewServer(executor *Executor, logger zerolog.Logger) *Server {
	return &Server{
		executor: executor,
		logger:   logger.With().Str("component", "workload-server").Logger(),
	}
}

// Start binds addr and begins serving in the background.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.server = &http.Server{Handler: s}

	go func() {
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("workload daemon listening")
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("workload daemon error")
		}
	}()

	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "*")
	w.Header().Set("Access-Control-Allow-Headers", "*")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost || r.URL.Path != "/task" {
		http.NotFound(w, r)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w)
		return
	}

	id, err := s.executor.Submit(req.Type)
	if err != nil {
		s.logger.Error().Err(err).Str("task", req.Type).Msg("task dispatch failed")
		s.writeFailure(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"profileId": id})
}

func (s *Server) writeFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "Task execution failed"})
}
