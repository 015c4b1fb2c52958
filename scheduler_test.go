package taskrt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskrt/future"
)

// tickUntilDone drives s.Tick in a loop until done reports true or the
// deadline passes, returning whether it converged.
func tickUntilDone(s *Scheduler, done func() bool, deadline time.Duration) bool {
	start := time.Now()
	for time.Since(start) < deadline {
		s.Tick(0)
		if done() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return done()
}

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s, err := NewOptions(WithWorkerCount(2))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestScheduler_NewOptions_DefaultsAndValidation(t *testing.T) {
	s, err := NewOptions()
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 0, s.PendingCount())
	assert.Equal(t, 0, s.TimelineLen())
}

func TestScheduler_NewOptions_RejectsNilOption(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = NewOptions(nil)
	})
}

func TestScheduler_WithWorkerCount_RejectsNonPositive(t *testing.T) {
	assert.Panics(t, func() {
		WithWorkerCount(0)
	})
}

func TestScheduler_Fn_RunsAndCompletes(t *testing.T) {
	s := newTestScheduler(t)

	fut := Fn(s, func(context.Context) (int, error) {
		return 21 * 2, nil
	}, NormalPriority, TraceInfo{Purpose: "double"})

	ok := tickUntilDone(s, fut.IsDone, time.Second)
	require.True(t, ok, "task did not complete in time")

	outcome, err := fut.Result()
	require.NoError(t, err)
	require.True(t, outcome.IsOk())
	assert.Equal(t, 42, outcome.Unwrap())
}

func TestScheduler_Fn_CarriesTaskError(t *testing.T) {
	s := newTestScheduler(t)
	boom := errors.New("boom")

	fut := Fn(s, func(context.Context) (int, error) {
		return 0, boom
	}, NormalPriority, TraceInfo{Purpose: "fails"})

	ok := tickUntilDone(s, fut.IsDone, time.Second)
	require.True(t, ok)

	outcome, err := fut.Result()
	require.NoError(t, err) // the Future itself completed fine
	require.True(t, outcome.IsErr())
	taskErr := outcome.UnwrapErr()
	assert.ErrorIs(t, taskErr, boom)

	id, ok := ExtractTaskID(taskErr)
	assert.True(t, ok)
	assert.NotZero(t, id)

	trace, ok := ExtractTrace(taskErr)
	assert.True(t, ok)
	assert.Equal(t, "fails", trace.Purpose)
}

func TestScheduler_Fn_RequestCancelStopsTask(t *testing.T) {
	s := newTestScheduler(t)
	started := make(chan struct{})

	fut := Fn(s, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	}, NormalPriority, TraceInfo{Purpose: "blocks until canceled"})

	go func() {
		<-started
		fut.RequestCancel()
	}()

	ok := tickUntilDone(s, fut.IsDone, time.Second)
	require.True(t, ok)
	assert.Equal(t, future.Canceled, fut.FetchStatus())
}

func TestScheduler_Delay_WaitsBeforeRunning(t *testing.T) {
	s := newTestScheduler(t)

	fut := Delay(s, func(context.Context) (string, error) {
		return "done", nil
	}, NormalPriority, TraceInfo{Purpose: "delayed"}, 50*time.Millisecond)

	s.Tick(0)
	assert.False(t, fut.IsDone(), "delay should not have elapsed yet")

	ok := tickUntilDone(s, fut.IsDone, time.Second)
	require.True(t, ok)
}

func TestScheduler_PendingCount_ReflectsQueue(t *testing.T) {
	s := newTestScheduler(t)

	Delay(s, func(context.Context) (int, error) { return 0, nil }, NormalPriority, TraceInfo{}, time.Hour)
	assert.Equal(t, 1, s.PendingCount())

	s.Tick(0)
	assert.Equal(t, 1, s.PendingCount(), "task not yet ready should remain pending")
}
