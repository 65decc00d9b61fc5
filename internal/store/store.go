// Package store holds processed profiles in memory and persists a durable
// copy of each to disk.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flamecollector/flamecollector/internal/errors"
	"github.com/flamecollector/flamecollector/internal/flamegraph"
	"github.com/flamecollector/flamecollector/internal/pprofdecode"
)

// Record is one profile's stored form: the derived flame-graph JSON and the
// decoded profile it was built from, kept around so the disk sidecar can be
// re-encoded from it.
type Record struct {
	ID      string
	Flame   *flamegraph.Data
	Profile *pprofdecode.Profile
}

// Store is a concurrent mapping from profile identifier to Record, protected
// by a reader-writer lock: many concurrent readers, one writer at a time.
// Writes also persist two files to dir, named profile_{id}.pb and
// profile_{id}.json; a failure on either is reported but does not roll back
// the in-memory insert.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
	dir     string
	logger  zerolog.Logger
}

// New creates a Store that persists side files under dir.
func New(dir string, logger zerolog.Logger) *Store {
	return &Store{
		records: make(map[string]*Record),
		dir:     dir,
		logger:  logger,
	}
}

// Put inserts record under an exclusive lock, then writes its pprof and JSON
// sidecar files. The in-memory insert happens before the disk writes are
// attempted, so a write failure leaves a live entry with no disk copy; this
// mirrors the source system's insert-then-persist ordering.
func (s *Store) Put(record *Record) error {
	s.mu.Lock()
	s.records[record.ID] = record
	s.mu.Unlock()

	if err := s.persist(record); err != nil {
		return fmt.Errorf("persisting profile %s: %w", record.ID, err)
	}
	return nil
}

// Get looks up a record by id under a shared lock.
func (s *Store) Get(id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	return r, ok
}

func (s *Store) persist(record *Record) error {
	pbPath := filepath.Join(s.dir, fmt.Sprintf("profile_%s.pb", record.ID))
	pbFile, err := os.Create(pbPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", pbPath, err)
	}
	defer errors.DeferClose(s.logger, pbFile, "closing pprof sidecar file")
	if err := pprofdecode.Reencode(pbFile, record.Profile); err != nil {
		return fmt.Errorf("re-encoding profile %s: %w", record.ID, err)
	}

	jsonPath := filepath.Join(s.dir, fmt.Sprintf("profile_%s.json", record.ID))
	jsonFile, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", jsonPath, err)
	}
	defer errors.DeferClose(s.logger, jsonFile, "closing flame-graph json file")
	if err := json.NewEncoder(jsonFile).Encode(record.Flame); err != nil {
		return fmt.Errorf("encoding flame graph for %s: %w", record.ID, err)
	}

	return nil
}
