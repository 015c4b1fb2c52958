// Package chain implements a staged cooperative task: a fixed sequence of
// phases run one resumption at a time, yielding control back to the
// scheduler whenever a cancel, suspend or preempt request is observed
// between phases. Unlike a goroutine blocked on a channel, a Chain never blocks —
// Resume always returns promptly, either because the chain finished, ran
// out of phases to execute before yielding, or hit a request boundary.
package chain

import (
	"fmt"

	"github.com/ygrebnov/taskrt/future"
)

// MaxDepth is the largest number of phases a Chain may hold. The source
// library enforces this at compile time as a static_assert; Go generics
// can't express a literal upper bound on a variadic phase list, so Build
// panics instead once this is exceeded.
const MaxDepth = 253

// ErrChainTooDeep is the panic value raised by Build when more than
// MaxDepth phases are supplied.
type ErrChainTooDeep struct {
	Depth int
}

func (e ErrChainTooDeep) Error() string {
	return fmt.Sprintf("chain: depth %d exceeds maximum of %d", e.Depth, MaxDepth)
}

// phaseFn is a single stage's boxed, type-erased transform. Build captures
// the concrete func(In) Out signatures and adapts them down to this shape,
// so the only place type information is lost is at the phase boundary —
// the chain itself never knows In/Out beyond Start's first phase.
type phaseFn func(any) any

// Chain is a fixed sequence of phases, resumed one at a time. It is built
// once via Start/Then and is safe to Resume repeatedly (and from only one
// goroutine at a time — a Chain is not meant to be resumed concurrently).
type Chain struct {
	phases []phaseFn
}

// Builder accumulates phases with compile-time-checked argument/result
// types between adjacent Then calls, the way the source library's
// ChainPhase template chain does — every Then's fn must accept exactly the
// previous phase's result type.
type Builder[Out any] struct {
	phases []phaseFn
}

// Start begins a chain whose first phase is fn.
func Start[In, Out any](fn func(In) Out) *Builder[Out] {
	return &Builder[Out]{
		phases: []phaseFn{
			func(v any) any { return fn(v.(In)) },
		},
	}
}

// Then appends fn as the next phase, consuming the previous phase's result
// type and producing a new one.
func Then[In, Out any](b *Builder[In], fn func(In) Out) *Builder[Out] {
	return &Builder[Out]{
		phases: append(b.phases, func(v any) any { return fn(v.(In)) }),
	}
}

// Build finalizes the phase sequence into a resumable Chain. Panics with
// ErrChainTooDeep if more than MaxDepth phases were accumulated.
func Build[Out any](b *Builder[Out]) *Chain {
	if len(b.phases) > MaxDepth {
		panic(ErrChainTooDeep{Depth: len(b.phases)})
	}
	return &Chain{phases: b.phases}
}

// State tracks a Chain's resumption point and records which cooperative
// request (if any) caused the last Resume to return early.
type State struct {
	stack          any
	NextPhaseIndex uint8
	ServiceToken   future.ServiceToken
	Done           bool
}

// NewState returns a State ready to resume a Chain from its first phase,
// with arg as the input to phase zero.
func NewState(arg any) *State {
	return &State{stack: arg}
}

// Result returns the chain's final value; only meaningful once Done is
// true.
func (s *State) Result() any { return s.stack }

// Resume runs phases starting at state.NextPhaseIndex until the chain
// completes or a cancel, suspend or preempt request is observed, in which
// case it records the ServiceToken (a preempt is recorded as
// RequestSuspend) and returns immediately — the caller is
// expected to reschedule the chain for a later Resume once the request is
// cleared (resume requests clear suspend automatically; cancel never
// clears, so a canceled chain never itself resumes again).
func (c *Chain) Resume(state *State, proxy future.RequestProxy) {
	for state.NextPhaseIndex < uint8(len(c.phases)) {
		idx := state.NextPhaseIndex
		state.stack = c.phases[idx](state.stack)
		state.NextPhaseIndex++

		if state.NextPhaseIndex == uint8(len(c.phases)) {
			state.Done = true
			return
		}

		if proxy.FetchCancelRequest() == future.CancelRequested {
			state.ServiceToken = future.ServiceToken{Type: future.RequestCancel}
			return
		}
		if proxy.FetchSuspendRequest() == future.SuspendRequested {
			state.ServiceToken = future.ServiceToken{Type: future.RequestSuspend}
			return
		}
		if proxy.FetchPreemptRequest() == future.PreemptRequested {
			// preempt is treated like suspend for the purposes of yielding
			// control back to the scheduler between phases.
			state.ServiceToken = future.ServiceToken{Type: future.RequestSuspend}
			return
		}
	}
	state.Done = true
}
