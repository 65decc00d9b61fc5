package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flamecollector/flamecollector/internal/flamegraph"
	"github.com/flamecollector/flamecollector/internal/pprofdecode"
	"github.com/flamecollector/flamecollector/internal/testutil"
)

func TestStore_PutGet(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, testutil.NewTestLogger(t))

	record := &Record{
		ID:      "abc-123",
		Flame:   &flamegraph.Data{Name: "root", Value: 7, Children: []*flamegraph.Node{}},
		Profile: &pprofdecode.Profile{StringTable: []string{""}},
	}

	require.NoError(t, s.Put(record))

	got, ok := s.Get("abc-123")
	require.True(t, ok)
	assert.Equal(t, record, got)

	_, ok = s.Get("does-not-exist")
	assert.False(t, ok)
}

func TestStore_PutPersistsSidecarFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, testutil.NewTestLogger(t))

	record := &Record{
		ID:      "xyz",
		Flame:   &flamegraph.Data{Name: "root", Value: 3, Children: []*flamegraph.Node{}},
		Profile: &pprofdecode.Profile{StringTable: []string{""}},
	}

	require.NoError(t, s.Put(record))

	jsonBytes, err := os.ReadFile(filepath.Join(dir, "profile_xyz.json"))
	require.NoError(t, err)

	var decoded flamegraph.Data
	require.NoError(t, json.Unmarshal(jsonBytes, &decoded))
	assert.Equal(t, "root", decoded.Name)
	assert.EqualValues(t, 3, decoded.Value)

	_, err = os.Stat(filepath.Join(dir, "profile_xyz.pb"))
	require.NoError(t, err)
}

func TestStore_PutIsConcurrencySafe(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, testutil.NewTestLogger(t))

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			id := string(rune('a' + n))
			_ = s.Put(&Record{
				ID:      id,
				Flame:   &flamegraph.Data{Name: "root", Children: []*flamegraph.Node{}},
				Profile: &pprofdecode.Profile{StringTable: []string{""}},
			})
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		_, ok := s.Get(id)
		assert.True(t, ok)
	}
}
