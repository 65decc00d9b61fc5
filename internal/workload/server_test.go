package workload

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flamecollector/flamecollector/internal/testutil"
)

func TestServeHTTP_TaskSuccessReturnsProfileID(t *testing.T) {
	client := &fakeIngestClient{id: "happy-path-id"}
	executor := NewExecutor(client, testutil.NewTestLogger(t))
	go executor.Run()
	defer executor.Stop()

	s := NewServer(executor, testutil.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/task", bytes.NewBufferString(`{"type":"cpu"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"profileId":"happy-path-id"}`, rec.Body.String())
}

func TestServeHTTP_TaskFailureReturns500(t *testing.T) {
	client := &fakeIngestClient{err: errors.New("ingestion unreachable")}
	executor := NewExecutor(client, testutil.NewTestLogger(t))
	go executor.Run()
	defer executor.Stop()

	s := NewServer(executor, testutil.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodPost, "/task", bytes.NewBufferString(`{"type":"cpu"}`))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Task execution failed"}`, rec.Body.String())
}

func TestServeHTTP_UnknownRouteReturns404(t *testing.T) {
	client := &fakeIngestClient{id: "x"}
	executor := NewExecutor(client, testutil.NewTestLogger(t))
	s := NewServer(executor, testutil.NewTestLogger(t))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
