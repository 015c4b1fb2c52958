// Package taskrt implements a cooperative, priority-aware task scheduler.
//
// A Scheduler owns a ThreadPool of worker goroutines and a ScheduleTimeline
// that orders ready tasks by Priority while guaranteeing low-priority tasks
// still get a slot periodically (starvation fairness). Callers never touch
// the pool or timeline directly; instead they submit work through the
// combinators in combinators.go (Fn, Delay, Await, AwaitAny, ChainTask),
// each of which returns a future.Future[Outcome[R]] observing the task's
// eventual result.
//
// # Constructors
//
//   - New(*Config): accepts an explicit Config, panics on an invalid one.
//   - NewOptions(opts ...Option): functional-options constructor; prefer
//     this in new code.
//
// # Cancellation, suspension, and preemption
//
// Every Future returned by a combinator supports RequestCancel,
// RequestSuspend/RequestResume, and is itself subject to timeline-driven
// preemption when a higher-priority task needs its slot. Plain functions
// (Fn, Delay, Await, AwaitAny) observe cancellation through a
// context.Context bridged from the Future's cooperative request flags;
// ChainTask observes all three by checking its RequestProxy between
// stages, since a Chain's stages are the unit of preemption.
//
// # Errors
//
// A task's own error is carried inside its Outcome, not as the Go error
// returned from a combinator call — Fn et al. never fail to schedule
// except by panicking on a malformed Scheduler. Use ExtractTaskID and
// ExtractTrace to recover scheduling context from an error surfaced
// elsewhere (for instance, one embedded by a TaskTraceError).
package taskrt
