package taskrt

import (
	"context"
	"fmt"
	"time"

	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/optional"
	"github.com/ygrebnov/taskrt/pool"
	"github.com/ygrebnov/taskrt/timeline"
)

// Priority ranks a task's CPU-time worthiness within the scheduler's
// starvation window; higher runs first among equally-starved tasks.
type Priority = timeline.Priority

// NormalPriority is the default priority a combinator assigns when the
// caller doesn't care.
const NormalPriority = timeline.NormalPriority

// TraceInfo carries human-readable context for diagnostics: which part of
// the application scheduled the task, and why.
type TraceInfo struct {
	Context string
	Purpose string
}

// TaskID identifies a task the scheduler has accepted, unique for the
// lifetime of a Scheduler.
type TaskID = pool.TaskID

// Outcome is what a combinator's Future ultimately completes with: the
// task function's own (value, error) pair, riding inside the Promise/
// Future FSM's single completed-value slot.
type Outcome[R any] = optional.Result[R, error]

// TaskReady reports whether a task waiting on elapsed time since it was
// scheduled is ready to move into the execution timeline.
type TaskReady func(elapsed time.Duration) bool

// AlwaysReady is the default TaskReady: every task is ready the instant
// it's scheduled, matching the source library's task_is_ready default.
func AlwaysReady(time.Duration) bool { return true }

// pendingTask is an entry in Scheduler's queue of tasks not yet promoted
// into the execution timeline.
type pendingTask struct {
	fn                func()
	pollReady         TaskReady
	promise           future.PromiseAny
	id                pool.TaskID
	priority          Priority
	scheduleTimepoint time.Time
	trace             TraceInfo
}

// runGuarded executes f on its own goroutine, racing it against ctx.Done
// and recovering any panic into ErrTaskPanicked, the same shape as the
// teacher's task-execution adapters.
func runGuarded[R any](ctx context.Context, f func(context.Context) (R, error)) (R, error) {
	var (
		result R
		err    error
	)

	done := make(chan struct{}, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
			}
			done <- struct{}{}
		}()
		result, err = f(ctx)
	}()

	select {
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	case <-done:
		return result, err
	}
}
