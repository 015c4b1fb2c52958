package taskrt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskrt/chain"
	"github.com/ygrebnov/taskrt/future"
)

func TestAwait_WaitsForAllDependencies(t *testing.T) {
	s := newTestScheduler(t)

	dep1 := Delay(s, func(context.Context) (int, error) { return 1, nil }, NormalPriority, TraceInfo{}, 20*time.Millisecond)
	dep2 := Delay(s, func(context.Context) (int, error) { return 2, nil }, NormalPriority, TraceInfo{}, 60*time.Millisecond)

	result := Await(s, func(context.Context) (int, error) {
		return 3, nil
	}, NormalPriority, TraceInfo{Purpose: "await-both"},
		future.AnyFromFuture(dep1), future.AnyFromFuture(dep2))

	require.True(t, tickUntilDone(s, dep1.IsDone, time.Second))
	assert.False(t, result.IsDone(), "should not run before every dependency is done")

	require.True(t, tickUntilDone(s, result.IsDone, time.Second))
	outcome, err := result.Result()
	require.NoError(t, err)
	assert.Equal(t, 3, outcome.Unwrap())
}

func TestAwaitAny_RunsOnFirstDependency(t *testing.T) {
	s := newTestScheduler(t)

	fast := Delay(s, func(context.Context) (int, error) { return 1, nil }, NormalPriority, TraceInfo{}, 10*time.Millisecond)
	slow := Delay(s, func(context.Context) (int, error) { return 2, nil }, NormalPriority, TraceInfo{}, time.Hour)

	result := AwaitAny(s, func(context.Context) (int, error) {
		return 9, nil
	}, NormalPriority, TraceInfo{Purpose: "await-any"},
		future.AnyFromFuture(fast), future.AnyFromFuture(slow))

	require.True(t, tickUntilDone(s, result.IsDone, time.Second))
	outcome, err := result.Result()
	require.NoError(t, err)
	assert.Equal(t, 9, outcome.Unwrap())
}

func TestChainTask_RunsAllPhasesToCompletion(t *testing.T) {
	s := newTestScheduler(t)

	b := chain.Start(func(n int) int { return n + 1 })
	b2 := chain.Then(b, func(n int) int { return n * 2 })
	b3 := chain.Then(b2, func(n int) string { return "result" })
	c := chain.Build(b3)

	fut := ChainTask[string](s, c, 10, NormalPriority, TraceInfo{Purpose: "three-phase"})

	require.True(t, tickUntilDone(s, fut.IsDone, time.Second))
	outcome, err := fut.Result()
	require.NoError(t, err)
	require.True(t, outcome.IsOk())
	assert.Equal(t, "result", outcome.Unwrap())
}

func TestChainTask_SuspendAndResumeContinuesFromSamePoint(t *testing.T) {
	s := newTestScheduler(t)

	var ran []string
	b := chain.Start(func(int) int {
		ran = append(ran, "phase0")
		return 1
	})
	b2 := chain.Then(b, func(n int) int {
		ran = append(ran, "phase1")
		return n + 1
	})
	c := chain.Build(b2)

	fut := ChainTask[int](s, c, 0, NormalPriority, TraceInfo{Purpose: "suspendable"})
	// Request suspend before the chain ever runs, so Resume's between-phase
	// check catches it after exactly one phase — deterministic, since both
	// phases would otherwise run back-to-back within a single Resume call.
	fut.RequestSuspend()

	require.True(t, tickUntilDone(s, func() bool {
		return fut.FetchStatus() == future.Suspended
	}, time.Second))
	assert.Equal(t, []string{"phase0"}, ran, "second phase must not run while suspended")

	fut.RequestResume()
	require.True(t, tickUntilDone(s, fut.IsDone, time.Second))
	assert.Equal(t, []string{"phase0", "phase1"}, ran)
}
