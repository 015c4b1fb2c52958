package taskrt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAll_RunsOneTaskPerItem(t *testing.T) {
	s := newTestScheduler(t)

	items := []int{1, 2, 3, 4}
	futs := MapAll(s, items, func(_ context.Context, n int) (int, error) {
		return n * n, nil
	}, NormalPriority, TraceInfo{Purpose: "square"})

	require.Len(t, futs, len(items))

	allDone := func() bool {
		for _, f := range futs {
			if !f.IsDone() {
				return false
			}
		}
		return true
	}
	require.True(t, tickUntilDone(s, allDone, time.Second))

	for i, f := range futs {
		outcome, err := f.Result()
		require.NoError(t, err)
		assert.Equal(t, items[i]*items[i], outcome.Unwrap())
	}
}

func TestForEach_CompletesAfterEveryItem(t *testing.T) {
	s := newTestScheduler(t)

	var seen []int
	mu := make(chan struct{}, 1)
	mu <- struct{}{}

	items := []int{10, 20, 30}
	fut := ForEach(s, items, func(_ context.Context, n int) error {
		<-mu
		seen = append(seen, n)
		mu <- struct{}{}
		return nil
	}, NormalPriority, TraceInfo{Purpose: "collect"})

	require.True(t, tickUntilDone(s, fut.IsDone, time.Second))
	outcome, err := fut.Result()
	require.NoError(t, err)
	require.True(t, outcome.IsOk())
	assert.ElementsMatch(t, items, seen)
}

func TestForEach_EmptyItemsCompletesImmediately(t *testing.T) {
	s := newTestScheduler(t)

	fut := ForEach[int](s, nil, func(context.Context, int) error {
		return errors.New("should never run")
	}, NormalPriority, TraceInfo{Purpose: "empty"})

	require.True(t, tickUntilDone(s, fut.IsDone, time.Second))
	outcome, err := fut.Result()
	require.NoError(t, err)
	assert.True(t, outcome.IsOk())
}
