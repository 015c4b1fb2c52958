package taskrt

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequential_RunsInSubmissionOrder(t *testing.T) {
	s := RunSequential()
	defer s.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		s.Submit(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestSequentialFn_ReturnsOutcome(t *testing.T) {
	s := RunSequential()
	defer s.Close()

	fut := SequentialFn(s, func(context.Context) (int, error) {
		return 99, nil
	})

	require.Eventually(t, fut.IsDone, time.Second, time.Millisecond)
	outcome, err := fut.Result()
	require.NoError(t, err)
	assert.Equal(t, 99, outcome.Unwrap())
}

func TestSequentialFn_CarriesTaskError(t *testing.T) {
	s := RunSequential()
	defer s.Close()

	boom := errors.New("sequential boom")
	fut := SequentialFn(s, func(context.Context) (int, error) {
		return 0, boom
	})

	require.Eventually(t, fut.IsDone, time.Second, time.Millisecond)
	outcome, err := fut.Result()
	require.NoError(t, err)
	require.True(t, outcome.IsErr())
	assert.ErrorIs(t, outcome.UnwrapErr(), boom)
}
