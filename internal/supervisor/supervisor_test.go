package supervisor

import (
	"context"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/flamecollector/flamecollector/internal/testutil"
)

type fakeHTTPServer struct {
	started  chan string
	shutdown chan struct{}
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{started: make(chan string, 1), shutdown: make(chan struct{}, 1)}
}

func (f *fakeHTTPServer) Start(addr string) error {
	f.started <- addr
	return nil
}

func (f *fakeHTTPServer) Shutdown(ctx context.Context) error {
	f.shutdown <- struct{}{}
	return nil
}

func TestSupervisor_RunShutsDownOnSignal(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer := grpc.NewServer()
	httpServer := newFakeHTTPServer()
	s := New(grpcServer, httpServer, testutil.NewTestLogger(t))

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- s.Run(lis, "127.0.0.1:0")
	}()

	select {
	case addr := <-httpServer.started:
		assert.Equal(t, "127.0.0.1:0", addr)
	case <-time.After(time.Second):
		t.Fatal("http server was never started")
	}

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))

	select {
	case <-httpServer.shutdown:
	case <-time.After(2 * time.Second):
		t.Fatal("http shutdown was never invoked")
	}

	select {
	case err := <-doneCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run never returned after shutdown")
	}
}
