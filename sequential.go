package taskrt

import (
	"context"

	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/optional"
)

// Sequential is a deterministic, single-goroutine task runner: every
// submitted function runs to completion, in submission order, before the
// next one starts. It has no Priority, no starvation fairness, and no
// preemption — useful for tests that need reproducible ordering, or for
// callers that want Fn/ChainTask's Future/Outcome vocabulary without
// standing up a full Scheduler and ThreadPool.
type Sequential struct {
	tasks chan func()
	done  chan struct{}
}

// RunSequential starts a Sequential executor and returns it already
// running. Call Close once no more work will be submitted.
func RunSequential() *Sequential {
	s := &Sequential{
		tasks: make(chan func()),
		done:  make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *Sequential) loop() {
	defer close(s.done)
	for fn := range s.tasks {
		fn()
	}
}

// Submit enqueues fn to run once every previously submitted function has
// finished. Submit hands fn to the runner goroutine over an unbuffered
// channel, so it blocks until the previously submitted function has
// returned, but not for fn's own execution.
func (s *Sequential) Submit(fn func()) { s.tasks <- fn }

// Close stops accepting new work and blocks until every already-submitted
// function has run. Submitting after Close panics with a send on a closed
// channel.
func (s *Sequential) Close() {
	close(s.tasks)
	<-s.done
}

// SequentialFn runs f on s, in order with everything else submitted to s,
// returning a Future observing its Outcome — the same vocabulary
// Scheduler's Fn uses, without requiring a pool. f's context is canceled
// cooperatively when the returned Future's RequestCancel is called, same
// as Fn.
func SequentialFn[R any](s *Sequential, f func(context.Context) (R, error)) future.Future[Outcome[R]] {
	p := future.NewPromise[Outcome[R]]()
	fut := p.GetFuture()

	s.Submit(func() {
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
			p.NotifyCompleted(optional.Err[R, error](err))
			return
		}
		p.NotifyCompleted(optional.Ok[R, error](value))
	})

	return fut
}
