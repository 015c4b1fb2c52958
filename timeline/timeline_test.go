package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/pool"
)

func newTaskPromise(t *testing.T) (future.Promise[struct{}], future.PromiseAny) {
	t.Helper()
	p := future.NewPromise[struct{}]()
	return p, future.PromiseAnyFrom(p)
}

func TestScheduleTimeline_AddTaskStartsPreempted(t *testing.T) {
	s := New()
	p, pa := newTaskPromise(t)
	defer p.Close()

	now := time.Now()
	s.AddTask(func() {}, pa, 1, NormalPriority, now)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, future.Preempted, p.FetchStatus())
}

func TestScheduleTimeline_RemoveDoneTasks(t *testing.T) {
	s := New()
	p1, pa1 := newTaskPromise(t)
	p2, pa2 := newTaskPromise(t)
	defer p1.Close()
	defer p2.Close()

	now := time.Now()
	s.AddTask(func() {}, pa1, 1, NormalPriority, now)
	s.AddTask(func() {}, pa2, 2, NormalPriority, now)

	p1.NotifyCompleted(struct{}{})
	s.PollTasks(now)
	s.RemoveDoneTasks()

	require.Equal(t, 1, s.Len())
}

func TestScheduleTimeline_PriorityOrderingWithinStarvationWindow(t *testing.T) {
	s := New()
	base := time.Now()

	pLow, paLow := newTaskPromise(t)
	pHigh, paHigh := newTaskPromise(t)
	defer pLow.Close()
	defer pHigh.Close()

	s.AddTask(func() {}, paLow, 1, NormalPriority, base)
	s.AddTask(func() {}, paHigh, 2, NormalPriority+10, base.Add(time.Millisecond))

	s.PollTasks(base.Add(2 * time.Millisecond))
	n := s.SelectTasksForSlots(1)

	require.Equal(t, 1, n)
	assert.Equal(t, Priority(NormalPriority+10), s.tasks[0].Priority)
}

func TestScheduleTimeline_TickAssignsSlotsToSelectedTasks(t *testing.T) {
	s := New()
	p := pool.New(1)
	defer p.Close()

	promise, promiseAny := newTaskPromise(t)
	defer promise.Close()

	ran := make(chan struct{}, 1)
	s.AddTask(func() { ran <- struct{}{} }, promiseAny, 5, NormalPriority, time.Now())

	s.Tick(p.Slots(), time.Now())

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task was never dispatched to a worker")
	}
}

func TestScheduleTimeline_NonSelectedTasksArePreempted(t *testing.T) {
	s := New()
	now := time.Now()

	p1, pa1 := newTaskPromise(t)
	p2, pa2 := newTaskPromise(t)
	defer p1.Close()
	defer p2.Close()

	s.AddTask(func() {}, pa1, 1, NormalPriority, now)
	s.AddTask(func() {}, pa2, 2, NormalPriority, now)

	s.Tick(nil, now)

	assert.Equal(t, future.PreemptRequested, p1.FetchPreemptRequest())
	assert.Equal(t, future.PreemptRequested, p2.FetchPreemptRequest())
}
