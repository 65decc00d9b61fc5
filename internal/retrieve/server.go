// Package retrieve implements the HTTP retrieval endpoint: GET
// /api/profiles/{id} returning the stored flame-graph JSON.
package retrieve

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/flamecollector/flamecollector/internal/store"
)

const profilesPathPrefix = "/api/profiles/"

// Server serves stored flame-graph JSON over HTTP with permissive CORS.
type Server struct {
	store    *store.Store
	logger   zerolog.Logger
	listener net.Listener
	server   *http.Server
}

// NewServer creates a retrieval server backed by s.
func NewServer(s *store.Store, logger zerolog.Logger) *Server {
	return &Server{
		store:  s,
		logger: logger.With().Str("component", "retrieve").Logger(),
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
		s.logger.Info().Str("addr", listener.Addr().String()).Msg("retrieval server listening")
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("retrieval server error")
		}
	}()

	return nil
}

// Shutdown gracefully stops the server, honoring ctx's deadline for
// in-flight requests.
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
	w.Header().Set("Access-Control-Max-Age", "3600")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodGet || !strings.HasPrefix(r.URL.Path, profilesPathPrefix) {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, profilesPathPrefix)
	s.logger.Info().Str("profile_id", id).Msg("retrieval request")

	record, ok := s.store.Get(id)
	if !ok {
		s.logger.Warn().Str("profile_id", id).Msg("profile not found")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Profile not found"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(record.Flame)
}
