package pool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/taskrt/future"
)

// StallTimeout bounds the exponential backoff a worker applies between
// empty polls of its slot.
const StallTimeout = 16 * time.Millisecond

// CancelationPollMinPeriod is how long a worker keeps polling its slot for
// work before checking whether it has been asked to cancel.
const CancelationPollMinPeriod = 32 * time.Millisecond

// boundedExponentialBackoff doubles from 1ms per eventless poll, clamped
// at maximum: 1ms -> 2ms -> 4ms -> ... -> maximum.
func boundedExponentialBackoff(iteration uint64, maximum time.Duration) time.Duration {
	shift := iteration
	if shift > 31 {
		shift = 31
	}
	delay := time.Duration(uint64(1)<<shift) * time.Millisecond
	if delay > maximum {
		return maximum
	}
	return delay
}

// poolState is the ThreadPool's own lifecycle, separate from each worker's
// individual Slot lifecycle.
type poolState uint32

const (
	poolRunning poolState = iota
	poolShuttingDown
	poolShutdown
)

// ThreadPool runs a fixed set of worker goroutines, one per Slot, each
// polling its mailbox with a bounded exponential backoff so idle workers
// yield the CPU instead of spinning.
type ThreadPool struct {
	slots   []*Slot
	promise future.Promise[struct{}]
	state   atomic.Uint32
	wg      sync.WaitGroup
}

// New starts a ThreadPool with numThreads workers. A numThreads <= 0
// defaults to runtime.NumCPU(), at least 1.
func New(numThreads int) *ThreadPool {
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	if numThreads < 1 {
		numThreads = 1
	}

	p := &ThreadPool{promise: future.NewPromise[struct{}]()}
	p.promise.NotifyExecuting()

	p.slots = make([]*Slot, numThreads)
	for i := range p.slots {
		p.slots[i] = NewSlot(future.NewPromise[struct{}]())
	}

	p.wg.Add(numThreads)
	for _, slot := range p.slots {
		slot := slot
		go p.workerLoop(slot)
	}

	return p
}

func (p *ThreadPool) workerLoop(slot *Slot) {
	defer p.wg.Done()

	var eventlessPolls uint64
	for {
		if slot.promise.FetchCancelRequest() == future.CancelRequested {
			slot.promise.NotifyCanceled()
			return
		}

		pollBegin := time.Now()
		now := pollBegin
		for now.Sub(pollBegin) < CancelationPollMinPeriod {
			if fn, ok := slot.TryPopTask().Unpack(); ok {
				fn()
				eventlessPolls = 0
			} else {
				eventlessPolls++
				time.Sleep(boundedExponentialBackoff(eventlessPolls, StallTimeout))
			}
			now = time.Now()
		}
	}
}

// Slots returns the pool's worker slots, for a scheduler to push tasks
// onto and query occupancy.
func (p *ThreadPool) Slots() []*Slot { return p.slots }

// GetFuture returns a type-erased future observing the pool's own
// lifecycle (not any individual slot's).
func (p *ThreadPool) GetFuture() future.Any {
	return future.AnyFromFuture(p.promise.GetFuture())
}

// Tick advances the pool's own shutdown state machine: Running until a
// cancel is requested on the pool's promise, then ShuttingDown until every
// slot has finished, then Shutdown. Driven by a scheduler's own tick loop;
// Close can be used instead for a simple, synchronous teardown.
func (p *ThreadPool) Tick() {
	switch poolState(p.state.Load()) {
	case poolRunning:
		if p.promise.FetchCancelRequest() == future.CancelRequested {
			for _, slot := range p.slots {
				slot.Promise().RequestCancel()
			}
			p.state.Store(uint32(poolShuttingDown))
		}

	case poolShuttingDown:
		allDone := true
		for _, slot := range p.slots {
			if !slot.Promise().IsDone() {
				allDone = false
				break
			}
		}
		if allDone {
			p.state.Store(uint32(poolShutdown))
			p.promise.NotifyCanceled()
		}

	case poolShutdown:
		return
	}
}

// RequestShutdown asks the pool to begin shutting down; call Tick (or
// Close) afterward to drive the transition.
func (p *ThreadPool) RequestShutdown() { p.promise.RequestCancel() }

// Close requests cancellation on every worker slot and blocks until all
// worker goroutines have exited, mirroring the source library's
// destructor: request cancel, then join every thread.
func (p *ThreadPool) Close() {
	for _, slot := range p.slots {
		slot.Promise().RequestCancel()
	}
	p.wg.Wait()
	p.state.Store(uint32(poolShutdown))
	p.promise.NotifyCanceled()
}
