package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_RunOnceSkipsWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var runs int32

	r := NewRunner("test", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		close(started)
		<-release
		return nil
	}, zerolog.Nop())

	done := make(chan bool)
	go func() { done <- r.RunOnce(context.Background()) }()

	<-started
	assert.False(t, r.RunOnce(context.Background()), "second run must be skipped")

	close(release)
	assert.True(t, <-done)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}

func TestRunner_RunOnceReportsFailedRunAsRun(t *testing.T) {
	r := NewRunner("test", time.Hour, func(ctx context.Context) error {
		return errors.New("boom")
	}, zerolog.Nop())

	assert.True(t, r.RunOnce(context.Background()))
	// the running flag is released after a failure
	assert.True(t, r.RunOnce(context.Background()))
}

func TestRunner_TicksUntilStopped(t *testing.T) {
	var runs int32
	r := NewRunner("test", 5*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	}, zerolog.Nop())

	r.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, time.Second, 5*time.Millisecond)
	r.Stop()

	after := atomic.LoadInt32(&runs)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, atomic.LoadInt32(&runs), "no runs after Stop")
}

func TestRunner_StopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	var once int32
	r := NewRunner("test", 5*time.Millisecond, func(ctx context.Context) error {
		if atomic.CompareAndSwapInt32(&once, 0, 1) {
			close(started)
		}
		<-ctx.Done()
		return ctx.Err()
	}, zerolog.Nop())

	r.Start()
	<-started

	stopped := make(chan struct{})
	go func() {
		r.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
