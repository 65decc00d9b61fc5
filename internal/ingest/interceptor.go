package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
)

// LoggingInterceptor logs each unary call's method and duration at debug
// level, and any returned error at warn level.
func LoggingInterceptor(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		event := logger.Debug()
		if err != nil {
			event = logger.Warn()
		}
		event.Str("method", info.FullMethod).Dur("duration", duration).Err(err).Msg("grpc call completed")

		return resp, err
	}
}
