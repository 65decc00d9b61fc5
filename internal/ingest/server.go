// Package ingest implements the gRPC ingestion endpoint: it decodes
// submitted pprof bytes, builds a flame graph, assigns an identifier and
// persists the result.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flamecollector/flamecollector/internal/flamegraph"
	"github.com/flamecollector/flamecollector/internal/pprofdecode"
	"github.com/flamecollector/flamecollector/internal/store"
	myservicev1 "github.com/flamecollector/flamecollector/proto/myservice/v1"
)

// Server implements myservicev1.MyServiceServer.
type Server struct {
	myservicev1.UnimplementedMyServiceServer

	store    *store.Store
	deadline time.Duration
	logger   zerolog.Logger
}

// New creates an ingestion server backed by s. deadline bounds the
// combined decode+build step for a single RPC.
func New(s *store.Store, deadline time.Duration, logger zerolog.Logger) *Server {
	return &Server{store: s, deadline: deadline, logger: logger.With().Str("component", "ingest").Logger()}
}

type buildResult struct {
	profile *pprofdecode.Profile
	flame   *flamegraph.Data
}

// HandleRequest decodes the submitted profile, builds its flame graph on a
// blocking worker bounded by deadline, assigns an identifier, and persists
// the result.
func (s *Server) HandleRequest(ctx context.Context, req *myservicev1.Request) (*myservicev1.Response, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	resultCh := make(chan buildResult, 1)
	errCh := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("builder panic: %v", r)
			}
		}()

		profile, err := pprofdecode.Decode(req.Data)
		if err != nil {
			errCh <- errInvalidProfile{err}
			return
		}
		resultCh <- buildResult{profile: profile, flame: flamegraph.Build(profile)}
	}()

	select {
	case <-ctx.Done():
		s.logger.Error().Msg("profile processing timed out")
		return nil, status.Error(codes.DeadlineExceeded, "profile processing timed out")

	case err := <-errCh:
		var invalid errInvalidProfile
		if errors.As(err, &invalid) {
			s.logger.Error().Err(err).Msg("invalid profile data")
			return nil, status.Error(codes.InvalidArgument, "invalid profile data")
		}
		s.logger.Error().Err(err).Msg("profile processing failed")
		return nil, status.Error(codes.Internal, "profile processing failed")

	case result := <-resultCh:
		id := uuid.New().String()
		record := &store.Record{ID: id, Flame: result.flame, Profile: result.profile}

		if err := s.store.Put(record); err != nil {
			s.logger.Error().Err(err).Str("profile_id", id).Msg("failed to persist profile")
			return nil, status.Error(codes.Internal, "failed to persist profile")
		}

		s.logger.Info().Str("profile_id", id).Dur("elapsed", time.Since(start)).Msg("profile ingested")
		return &myservicev1.Response{Result: []byte(id)}, nil
	}
}

type errInvalidProfile struct{ err error }

func (e errInvalidProfile) Error() string { return e.err.Error() }
func (e errInvalidProfile) Unwrap() error { return e.err }
