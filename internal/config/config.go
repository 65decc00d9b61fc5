// Package config loads the collector's and workload daemon's runtime
// settings from an optional YAML file, with environment variables taking
// precedence over file values and built-in defaults underneath both.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Collector holds the settings the collector binary needs: where to bind
// its two endpoints, where to persist profiles, and how long a single
// decode+build may run.
type Collector struct {
	GRPCAddr     string        `yaml:"grpc_addr" env:"FLAMECOLLECTOR_GRPC_ADDR"`
	HTTPAddr     string        `yaml:"http_addr" env:"FLAMECOLLECTOR_HTTP_ADDR"`
	StorageDir   string        `yaml:"storage_dir" env:"FLAMECOLLECTOR_STORAGE_DIR"`
	BuildTimeout time.Duration `yaml:"build_timeout" env:"FLAMECOLLECTOR_BUILD_TIMEOUT"`
}

// Workload holds the settings the workload daemon binary needs: its own
// bind address and the collector's gRPC endpoint to forward profiles to.
type Workload struct {
	HTTPAddr     string `yaml:"http_addr" env:"FLAMECOLLECTOR_WORKLOAD_HTTP_ADDR"`
	IngestTarget string `yaml:"ingest_target" env:"FLAMECOLLECTOR_INGEST_TARGET"`
}

// DefaultCollector returns the collector's settings with sensible defaults,
// matching the bind addresses and timeout the system is specified against.
func DefaultCollector() *Collector {
	return &Collector{
		GRPCAddr:     "[::1]:50051",
		HTTPAddr:     "[::1]:3000",
		StorageDir:   ".",
		BuildTimeout: 30 * time.Second,
	}
}

// DefaultWorkload returns the workload daemon's settings with sensible
// defaults.
func DefaultWorkload() *Workload {
	return &Workload{
		HTTPAddr:     "[::1]:3001",
		IngestTarget: "[::1]:50051",
	}
}

// LoadCollector reads path (if non-empty and present) over the defaults,
// then applies environment variable overrides.
func LoadCollector(path string) (*Collector, error) {
	cfg := DefaultCollector()
	if err := loadYAMLIfPresent(path, cfg); err != nil {
		return nil, err
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWorkload reads path (if non-empty and present) over the defaults,
// then applies environment variable overrides.
func LoadWorkload(path string) (*Workload, error) {
	cfg := DefaultWorkload()
	if err := loadYAMLIfPresent(path, cfg); err != nil {
		return nil, err
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLIfPresent(path string, cfg interface{}) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}
