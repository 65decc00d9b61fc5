// Command collector runs the profile collector: it accepts pprof profiles
// over gRPC, builds flame graphs from them, and serves the results over
// HTTP.
package main

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/flamecollector/flamecollector/internal/config"
	"github.com/flamecollector/flamecollector/internal/ingest"
	"github.com/flamecollector/flamecollector/internal/logging"
	"github.com/flamecollector/flamecollector/internal/retrieve"
	"github.com/flamecollector/flamecollector/internal/store"
	"github.com/flamecollector/flamecollector/internal/supervisor"
	myservicev1 "github.com/flamecollector/flamecollector/proto/myservice/v1"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "collector",
		Short:         "Profile ingestion and flame-graph retrieval service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadCollector(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewWithComponent(logging.DefaultConfig(), "collector")

	profileStore := store.New(cfg.StorageDir, logger)

	grpcListener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("binding grpc listener: %w", err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(ingest.LoggingInterceptor(logger)))
	myservicev1.RegisterMyServiceServer(grpcServer, ingest.New(profileStore, cfg.BuildTimeout, logger))

	httpServer := retrieve.NewServer(profileStore, logger)

	logger.Info().Str("grpc_addr", cfg.GRPCAddr).Str("http_addr", cfg.HTTPAddr).Msg("starting collector")

	sup := supervisor.New(grpcServer, httpServer, logger)
	return sup.Run(grpcListener, cfg.HTTPAddr)
}
