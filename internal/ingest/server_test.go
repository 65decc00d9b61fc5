package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/flamecollector/flamecollector/internal/store"
	"github.com/flamecollector/flamecollector/internal/testutil"
	myservicev1 "github.com/flamecollector/flamecollector/proto/myservice/v1"
)

func emptyPprofBytes() []byte {
	// A bare-minimum valid pprof message: a single empty string table entry.
	// field 6 (string_table), wiretype 2, length 0.
	return []byte{0x32, 0x00}
}

func TestHandleRequest_EmptyProfileAssignsID(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, testutil.NewTestLogger(t))
	srv := New(s, 30*time.Second, testutil.NewTestLogger(t))

	resp, err := srv.HandleRequest(context.Background(), &myservicev1.Request{Data: emptyPprofBytes()})
	require.NoError(t, err)

	id := string(resp.Result)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)

	record, ok := s.Get(id)
	require.True(t, ok)
	assert.EqualValues(t, 0, record.Flame.Value)
}

func TestHandleRequest_InvalidProfileReturnsInvalidArgument(t *testing.T) {
	dir := t.TempDir()
	s := store.New(dir, testutil.NewTestLogger(t))
	srv := New(s, 30*time.Second, testutil.NewTestLogger(t))

	malformed := []byte{0x32, 0xff} // declares a length byte with no continuation

	_, err := srv.HandleRequest(context.Background(), &myservicev1.Request{Data: malformed})
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
