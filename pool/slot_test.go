package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskrt/future"
)

func TestSlot_PushAndPopTask(t *testing.T) {
	s := NewSlot(future.NewPromise[struct{}]())

	q := s.Query()
	assert.True(t, q.CanPush)
	assert.True(t, q.PendingTask.IsNone())

	ran := false
	s.PushTask(Task{Fn: func() { ran = true }, ID: 7})

	q = s.Query()
	assert.False(t, q.CanPush)
	assert.Equal(t, TaskID(7), q.PendingTask.Unwrap())

	fn, ok := s.TryPopTask().Unpack()
	require.True(t, ok)
	fn()
	assert.True(t, ran)

	q = s.Query()
	assert.Equal(t, TaskID(7), q.ExecutingTask.Unwrap())
}

func TestSlot_TryPopTaskEmpty(t *testing.T) {
	s := NewSlot(future.NewPromise[struct{}]())
	_, ok := s.TryPopTask().Unpack()
	assert.False(t, ok)
}
