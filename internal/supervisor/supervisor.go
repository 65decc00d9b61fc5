// Package supervisor runs the ingestion and retrieval endpoints concurrently
// and coordinates a bounded-time graceful shutdown on SIGINT/SIGTERM.
package supervisor

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// httpGrace is how long in-flight HTTP handlers get to finish during
// graceful shutdown.
const httpGrace = 5 * time.Second

// hardExitAfter is how long the supervisor waits for a graceful shutdown to
// complete before forcing the process to exit.
const hardExitAfter = 6 * time.Second

// HTTPServer is the subset of retrieve.Server's lifecycle the supervisor
// drives.
type HTTPServer interface {
	Start(addr string) error
	Shutdown(ctx context.Context) error
}

// Supervisor owns the gRPC and HTTP server lifecycles and the shutdown
// signal handling that stops them together.
type Supervisor struct {
	grpcServer *grpc.Server
	httpServer HTTPServer
	logger     zerolog.Logger
}

// New creates a Supervisor over the given servers.
func New(grpcServer *grpc.Server, httpServer HTTPServer, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		grpcServer: grpcServer,
		httpServer: httpServer,
		logger:     logger.With().Str("component", "supervisor").Logger(),
	}
}

// Run starts the HTTP server at httpAddr, serves gRPC on grpcListener, and
// blocks until a shutdown signal arrives and shutdown completes (or the
// hard-exit deadline is reached, in which case Run never returns: the
// process exits directly).
func (s *Supervisor) Run(grpcListener net.Listener, httpAddr string) error {
	if err := s.httpServer.Start(httpAddr); err != nil {
		return err
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		grpcErrCh <- s.grpcServer.Serve(grpcListener)
	}()

	// The signal handler only ever writes to a channel; all shutdown work
	// happens in this goroutine, never inside the handler itself.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-grpcErrCh:
		return err
	case <-sigCh:
		s.logger.Info().Msg("shutdown signal received")
		s.shutdown()
		return nil
	}
}

func (s *Supervisor) shutdown() {
	time.AfterFunc(hardExitAfter, func() {
		s.logger.Warn().Msg("forcing shutdown after timeout")
		os.Exit(0)
	})

	ctx, cancel := context.WithTimeout(context.Background(), httpGrace)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("http server shutdown error")
	}

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.logger.Info().Msg("grpc server stopped gracefully")
	case <-time.After(httpGrace):
		s.logger.Warn().Msg("grpc server did not stop gracefully, forcing stop")
		s.grpcServer.Stop()
	}
}
