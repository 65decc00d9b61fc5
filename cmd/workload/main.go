// Command workload runs the workload daemon: on request it drives a named
// synthetic CPU/memory workload under a sampling profiler and forwards the
// captured profile to the collector's ingestion endpoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/flamecollector/flamecollector/internal/config"
	"github.com/flamecollector/flamecollector/internal/logging"
	"github.com/flamecollector/flamecollector/internal/workload"
	myservicev1 "github.com/flamecollector/flamecollector/proto/myservice/v1"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "workload",
		Short:         "Synthetic workload daemon feeding the profile collector",
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
	cfg, err := config.LoadWorkload(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewWithComponent(logging.DefaultConfig(), "workload")

	conn, err := grpc.NewClient(
		cfg.IngestTarget,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("dialing ingestion target %s: %w", cfg.IngestTarget, err)
	}
	defer conn.Close()

	executor := workload.NewExecutor(myservicev1.NewMyServiceClient(conn), logger)
	go executor.Run()

	server := workload.NewServer(executor, logger)
	if err := server.Start(cfg.HTTPAddr); err != nil {
		return fmt.Errorf("starting workload daemon: %w", err)
	}

	logger.Info().Str("http_addr", cfg.HTTPAddr).Str("ingest_target", cfg.IngestTarget).Msg("workload daemon ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received")
	if err := server.Shutdown(context.Background()); err != nil {
		return err
	}
	executor.Stop()
	return nil
}
