package workload

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/rs/zerolog"

	myservicev1 "github.com/flamecollector/flamecollector/proto/myservice/v1"
)

// sampleRateHz is the CPU sampling rate applied to every task's profiler
// run.
const sampleRateHz = 100

// ingestTimeout bounds the gRPC call that forwards a captured profile.
const ingestTimeout = 30 * time.Second

// taskKind distinguishes a unit of work from the shutdown sentinel sent
// through the same channel.
type taskKind int

const (
	taskExecute taskKind = iota
	taskShutdown
)

// taskMessage is an enqueued unit of work: run the named task, then reply
// with the profile id (or an error) on the one-shot reply channel. A
// taskShutdown message carries no taskType or reply and tells Run to
// return.
type taskMessage struct {
	kind     taskKind
	taskType string
	reply    chan<- taskResult
}

type taskResult struct {
	profileID string
	err       error
}

// Executor drains an internal task channel single-threaded, so tasks run
// strictly serially and in arrival order; the channel's capacity provides
// backpressure once 32 tasks are queued.
type Executor struct {
	tasks  chan taskMessage
	client myservicev1.MyServiceClient
	logger zerolog.Logger
}

// NewExecutor creates an Executor that forwards captured profiles through
// client.
func NewExecutor(client myservicev1.MyServiceClient, logger zerolog.Logger) *Executor {
	return &Executor{
		tasks:  make(chan taskMessage, 32),
		client: client,
		logger: logger.With().Str("component", "workload-executor").Logger(),
	}
}

// Submit enqueues a task and blocks until it has run, returning its
// assigned profile identifier. Once 32 tasks are already queued, Submit
// blocks until a slot frees up rather than rejecting the call.
func (e *Executor) Submit(taskType string) (string, error) {
	reply := make(chan taskResult, 1)
	e.tasks <- taskMessage{kind: taskExecute, taskType: taskType, reply: reply}

	result := <-reply
	return result.profileID, result.err
}

// Run drains the task channel until a shutdown message arrives. Call it
// from its own goroutine.
func (e *Executor) Run() {
	for msg := range e.tasks {
		if msg.kind == taskShutdown {
			return
		}

		e.logger.Info().Str("task", msg.taskType).Msg("executing task")
		id, err := e.execute(msg.taskType)
		if err != nil {
			e.logger.Error().Err(err).Str("task", msg.taskType).Msg("task execution failed")
		}
		msg.reply <- taskResult{profileID: id, err: err}
	}
}

// Stop enqueues a shutdown message behind any already-queued tasks,
// causing Run to return once they have drained. Callers must ensure no
// further Submit calls can be issued after Stop returns, since nothing
// drains the channel any more: Submit blocks forever, either enqueueing
// once the buffer is full or waiting for a reply that never comes.
func (e *Executor) Stop() {
	e.tasks <- taskMessage{kind: taskShutdown}
}

func (e *Executor) execute(taskType string) (string, error) {
	runtime.SetCPUProfileRate(sampleRateHz)

	var buf bytes.Buffer
	if err := pprof.StartCPUProfile(&buf); err != nil {
		return "", fmt.Errorf("starting profiler: %w", err)
	}

	run(taskType)

	pprof.StopCPUProfile()

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	resp, err := e.client.HandleRequest(ctx, &myservicev1.Request{Data: buf.Bytes()})
	if err != nil {
		return "", fmt.Errorf("forwarding profile: %w", err)
	}

	return string(resp.Result), nil
}
