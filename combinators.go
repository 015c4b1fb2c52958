package taskrt

import (
	"context"
	"fmt"
	"time"

	"github.com/ygrebnov/taskrt/chain"
	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/optional"
)

// entryRequested polls proxy for a cancel, suspend, or preempt request
// already pending at task-entry time, notifying p accordingly and
// reporting whether the caller should return without running the task
// body at all. Checked in that priority order, matching ChainTask's own
// between-phase precedence.
func entryRequested[T any](proxy future.RequestProxy, p future.Promise[T]) bool {
	switch {
	case proxy.FetchCancelRequest() == future.CancelRequested:
		p.NotifyCanceled()
		return true
	case proxy.FetchSuspendRequest() == future.SuspendRequested:
		p.NotifySuspended()
		return true
	case proxy.FetchPreemptRequest() == future.PreemptRequested:
		p.NotifyPreempted()
		return true
	default:
		return false
	}
}

// Fn schedules f to run once a worker slot is free, returning a Future
// observing its Outcome. f's context is canceled cooperatively when the
// returned Future's RequestCancel is called.
func Fn[R any](s *Scheduler, f func(context.Context) (R, error), priority Priority, trace TraceInfo) future.Future[Outcome[R]] {
	id := s.allocateTaskID()
	p := future.NewPromise[Outcome[R]]()
	fut := p.GetFuture()
	promiseAny := future.PromiseAnyFrom(p)

	run := func() {
		p.NotifyExecuting()
		proxy := future.NewRequestProxy[Outcome[R]](p)
		defer proxy.Close()

		if entryRequested(proxy, p) {
			return
		}

		ctx, cancel := contextFromProxy(proxy)
		defer cancel()

		value, err := runGuarded(ctx, f)

		if proxy.FetchCancelRequest() == future.CancelRequested {
			p.NotifyCanceled()
			return
		}
		if err != nil {
			p.NotifyCompleted(optional.Err[R, error](newTaskTracedError(err, id, trace)))
			return
		}
		p.NotifyCompleted(optional.Ok[R, error](value))
	}

	s.submit(run, AlwaysReady, priority, trace, promiseAny, id)
	return fut
}

// ChainTask schedules c to resume (possibly across several dispatches, if
// the caller suspends the returned Future between phases) starting from
// initial, returning a Future observing its final, type-asserted result.
func ChainTask[R any](s *Scheduler, c *chain.Chain, initial any, priority Priority, trace TraceInfo) future.Future[Outcome[R]] {
	id := s.allocateTaskID()
	p := future.NewPromise[Outcome[R]]()
	fut := p.GetFuture()
	promiseAny := future.PromiseAnyFrom(p)
	state := chain.NewState(initial)

	run := func() {
		p.NotifyExecuting()
		proxy := future.NewRequestProxy[Outcome[R]](p)
		defer proxy.Close()

		c.Resume(state, proxy)

		switch {
		case state.Done:
			result, ok := state.Result().(R)
			if !ok {
				err := newTaskTracedError(fmt.Errorf("taskrt: chain result type assertion failed"), id, trace)
				p.NotifyCompleted(optional.Err[R, error](err))
				return
			}
			p.NotifyCompleted(optional.Ok[R, error](result))
		case state.ServiceToken.Type == future.RequestCancel:
			p.NotifyCanceled()
		case state.ServiceToken.Type == future.RequestSuspend:
			p.NotifySuspended()
		default:
			p.NotifyPreempted()
		}
	}

	s.submit(run, AlwaysReady, priority, trace, promiseAny, id)
	return fut
}

// Delay schedules f to become ready only once d has elapsed since
// scheduling, then runs it as Fn would.
func Delay[R any](s *Scheduler, f func(context.Context) (R, error), priority Priority, trace TraceInfo, d time.Duration) future.Future[Outcome[R]] {
	pollReady := func(elapsed time.Duration) bool { return elapsed >= d }
	return awaitFn(s, f, priority, trace, pollReady)
}

// Await schedules f to become ready only once every one of futs has
// reached a terminal state, then runs it as Fn would.
func Await[R any](s *Scheduler, f func(context.Context) (R, error), priority Priority, trace TraceInfo, futs ...future.Any) future.Future[Outcome[R]] {
	pollReady := func(time.Duration) bool {
		for _, fu := range futs {
			if !fu.IsDone() {
				return false
			}
		}
		return true
	}
	return awaitFn(s, f, priority, trace, pollReady)
}

// AwaitAny schedules f to become ready as soon as any one of futs has
// reached a terminal state, then runs it as Fn would. An empty futs list
// is immediately ready.
func AwaitAny[R any](s *Scheduler, f func(context.Context) (R, error), priority Priority, trace TraceInfo, futs ...future.Any) future.Future[Outcome[R]] {
	pollReady := func(time.Duration) bool {
		if len(futs) == 0 {
			return true
		}
		for _, fu := range futs {
			if fu.IsDone() {
				return true
			}
		}
		return false
	}
	return awaitFn(s, f, priority, trace, pollReady)
}

func awaitFn[R any](s *Scheduler, f func(context.Context) (R, error), priority Priority, trace TraceInfo, pollReady TaskReady) future.Future[Outcome[R]] {
	id := s.allocateTaskID()
	p := future.NewPromise[Outcome[R]]()
	fut := p.GetFuture()
	promiseAny := future.PromiseAnyFrom(p)

	run := func() {
		p.NotifyExecuting()
		proxy := future.NewRequestProxy[Outcome[R]](p)
		defer proxy.Close()

		if entryRequested(proxy, p) {
			return
		}

		ctx, cancel := contextFromProxy(proxy)
		defer cancel()

		value, err := runGuarded(ctx, f)

		if proxy.FetchCancelRequest() == future.CancelRequested {
			p.NotifyCanceled()
			return
		}
		if err != nil {
			p.NotifyCompleted(optional.Err[R, error](newTaskTracedError(err, id, trace)))
			return
		}
		p.NotifyCompleted(optional.Ok[R, error](value))
	}

	s.submit(run, pollReady, priority, trace, promiseAny, id)
	return fut
}
