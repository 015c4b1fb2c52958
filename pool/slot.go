// Package pool implements the ThreadPool/Slot pair: a fixed set of worker
// goroutines, each owning one mailbox slot that accepts at most one pending
// task at a time, polled in a bounded-exponential-backoff loop so idle
// workers don't spin hot.
package pool

import (
	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/optional"
	"github.com/ygrebnov/taskrt/spinlock"
)

// TaskID identifies a task occupying a Slot, for diagnostics via Query.
type TaskID uint64

// Task is a unit of work submitted to a Slot: a thunk plus the id the
// scheduler uses to track it.
type Task struct {
	Fn func()
	ID TaskID
}

// Query reports a Slot's occupancy without perturbing it.
type Query struct {
	CanPush       bool
	PendingTask   optional.Option[TaskID]
	ExecutingTask optional.Option[TaskID]
}

// Slot is a one-task mailbox guarded by a spinlock: a scheduler pushes at
// most one pending task at a time, and the owning worker pops it whenever
// it's ready. Pending and executing task ids are tracked separately so a
// scheduler can push a new task before the worker finishes the current
// one — the worker will pick it up on its next poll.
type Slot struct {
	promise future.Promise[struct{}]

	lock          spinlock.Lock
	pendingTask   optional.Option[Task]
	executingTask optional.Option[TaskID]
}

// NewSlot returns a Slot whose lifecycle is tracked through promise.
func NewSlot(promise future.Promise[struct{}]) *Slot {
	return &Slot{promise: promise}
}

// Promise returns the Slot's lifecycle promise, used by the owning worker
// to notify status and poll for cancellation.
func (s *Slot) Promise() future.Promise[struct{}] { return s.promise }

// TryPopTask clears the executing-task marker, then takes and returns the
// pending task if one is queued. Called by the owning worker only.
func (s *Slot) TryPopTask() optional.Option[func()] {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.executingTask = optional.None[TaskID]()
	task := s.pendingTask.Take()
	v, ok := task.Unpack()
	if !ok {
		return optional.None[func()]()
	}
	s.executingTask = optional.Some(v.ID)
	return optional.Some(v.Fn)
}

// PushTask queues newTask. Callers should check Query().CanPush first; an
// overwrite of an unprocessed pending task silently discards the previous
// one, matching the source library's documented precondition.
func (s *Slot) PushTask(newTask Task) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.pendingTask = optional.Some(newTask)
}

// Query reports whether a new task can be pushed and which ids are
// pending/executing.
func (s *Slot) Query() Query {
	s.lock.Lock()
	defer s.lock.Unlock()

	q := Query{
		CanPush:       s.pendingTask.IsNone(),
		ExecutingTask: s.executingTask,
	}
	if t, ok := s.pendingTask.Unpack(); ok {
		q.PendingTask = optional.Some(t.ID)
	} else {
		q.PendingTask = optional.None[TaskID]()
	}
	return q
}
