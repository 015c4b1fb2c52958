package future

import (
	"sync/atomic"

	"github.com/ygrebnov/taskrt/spinlock"
)

// requestState holds the cooperative cancel/suspend/preempt flags shared
// between a Promise (or executor) and the RequestProxy consulted by running
// tasks. These are set by one side and polled by the other; ordering
// between them is intentionally relaxed — requests may be observed in any
// order relative to each other.
type requestState struct {
	cancel  atomic.Uint32
	suspend atomic.Uint32
	preempt atomic.Uint32
}

func (r *requestState) fetchCancel() CancelState {
	return CancelState(r.cancel.Load())
}

func (r *requestState) fetchSuspend() SuspendState {
	return SuspendState(r.suspend.Load())
}

func (r *requestState) fetchPreempt() PreemptState {
	return PreemptState(r.preempt.Load())
}

func (r *requestState) requestCancel() {
	r.cancel.Store(uint32(CancelRequested))
}

func (r *requestState) requestResume() {
	r.suspend.Store(uint32(SuspendExecuting))
}

func (r *requestState) requestSuspend() {
	r.suspend.Store(uint32(SuspendRequested))
}

func (r *requestState) requestPreempt() {
	r.preempt.Store(uint32(PreemptRequested))
}

func (r *requestState) clearPreemptRequest() {
	r.preempt.Store(uint32(PreemptExecuting))
}

// executionState tracks the observable status of an async operation: an
// informational status that can be overwritten freely, and a terminal
// status that is published exactly once via compare-and-swap. The terminal
// status always takes priority over the informational one once set.
type executionState struct {
	info atomic.Uint32
	term atomic.Uint32
}

func newExecutionState() executionState {
	e := executionState{}
	e.info.Store(uint32(Scheduled))
	e.term.Store(uint32(pending))
	return e
}

func (e *executionState) notifyInfo(status Status) {
	e.info.Store(uint32(status))
}

func (e *executionState) notifyTerminalNoResult(status Status) {
	e.term.CompareAndSwap(uint32(pending), uint32(status))
}

// beginTerminal attempts to move term from pending to Completing. It
// returns true exactly once across all callers, guaranteeing the result
// storage is written by at most one of them.
func (e *executionState) beginTerminal() bool {
	return e.term.CompareAndSwap(uint32(pending), uint32(Completing))
}

func (e *executionState) finishTerminal(status Status) {
	e.term.Store(uint32(status))
}

func (e *executionState) fetchStatus() Status {
	term := Status(e.term.Load())
	if term == pending {
		return Status(e.info.Load())
	}
	return term
}

func (e *executionState) isDone() bool {
	switch e.fetchStatus() {
	case Canceled, Completed:
		return true
	default:
		return false
	}
}

// BaseState is the status/request machinery shared by both typed and
// type-erased futures — everything but the result storage itself.
type BaseState struct {
	exec executionState
	req  requestState
}

func newBaseState() BaseState {
	return BaseState{exec: newExecutionState()}
}

// Executor-facing notifications: informational, never blocking.

func (s *BaseState) NotifyScheduled()    { s.exec.notifyInfo(Scheduled) }
func (s *BaseState) NotifySubmitted()    { s.exec.notifyInfo(Submitted) }
func (s *BaseState) NotifyPreempted()    { s.exec.notifyInfo(Preempted) }
func (s *BaseState) NotifyExecuting()    { s.exec.notifyInfo(Executing) }
func (s *BaseState) NotifyCancelBegin()  { s.exec.notifyInfo(Canceling) }
func (s *BaseState) NotifySuspendBegin() { s.exec.notifyInfo(Suspending) }
func (s *BaseState) NotifySuspended()    { s.exec.notifyInfo(Suspended) }
func (s *BaseState) NotifyResumeBegin()  { s.exec.notifyInfo(Resuming) }

// NotifyCanceled publishes the terminal Canceled status, once.
func (s *BaseState) NotifyCanceled() { s.exec.notifyTerminalNoResult(Canceled) }

// RequestCancel asks the executor to cancel the operation. Idempotent.
func (s *BaseState) RequestCancel() { s.req.requestCancel() }

// RequestSuspend asks the executor to suspend the operation.
func (s *BaseState) RequestSuspend() { s.req.requestSuspend() }

// RequestResume asks the executor to resume a suspended operation.
func (s *BaseState) RequestResume() { s.req.requestResume() }

// RequestPreempt is set by the scheduler, not the user, to force a running
// task to yield.
func (s *BaseState) RequestPreempt() { s.req.requestPreempt() }

// ClearPreemptRequest is called by the scheduler once it has resumed a
// previously preempted task.
func (s *BaseState) ClearPreemptRequest() { s.req.clearPreemptRequest() }

// FetchCancelRequest reports whether cancellation has been requested.
func (s *BaseState) FetchCancelRequest() CancelState { return s.req.fetchCancel() }

// FetchSuspendRequest reports the latest requested suspend/resume state.
func (s *BaseState) FetchSuspendRequest() SuspendState { return s.req.fetchSuspend() }

// FetchPreemptRequest reports whether the scheduler has preempted the task.
func (s *BaseState) FetchPreemptRequest() PreemptState { return s.req.fetchPreempt() }

// FetchStatus returns the current status without any result ordering
// guarantees — safe to poll frequently.
func (s *BaseState) FetchStatus() Status { return s.exec.fetchStatus() }

// IsDone reports whether the operation has reached a terminal state.
func (s *BaseState) IsDone() bool { return s.exec.isDone() }

// State is the shared state of a Future[T]/Promise[T] pair: BaseState plus
// a guarded result slot. The slot is written at most once, by whichever
// goroutine wins the beginTerminal CAS, and is thereafter read-only, so the
// spinlock only ever protects the handful of loads/stores around that
// single write and subsequent reads — never a user closure.
type State[T any] struct {
	BaseState
	lock   spinlock.Lock
	value  T
	hasVal bool
}

// NewState returns a freshly initialized State in the Scheduled status.
func NewState[T any]() *State[T] {
	return &State[T]{BaseState: newBaseState()}
}

// CompleteWithValue publishes value as the operation's result. Only the
// first call (across all goroutines racing to complete the same State) has
// any effect; later calls are silently ignored, matching the "complete at
// most once" contract of the source library's terminal CAS.
func (s *State[T]) CompleteWithValue(value T) {
	if !s.exec.beginTerminal() {
		return
	}
	s.lock.Lock()
	s.value = value
	s.hasVal = true
	s.lock.Unlock()
	s.exec.finishTerminal(Completed)
}

// Complete publishes completion with no result, for State[struct{}]-style
// void operations.
func (s *State[T]) Complete() {
	if !s.exec.beginTerminal() {
		return
	}
	s.exec.finishTerminal(Completed)
}

// Result returns the published value, ErrPending if the operation has not
// finished, or ErrCanceled if it was canceled.
func (s *State[T]) Result() (T, error) {
	switch s.exec.fetchStatus() {
	case Completed:
		s.lock.Lock()
		v := s.value
		s.lock.Unlock()
		return v, nil
	case Canceled:
		var zero T
		return zero, ErrCanceled
	default:
		var zero T
		return zero, ErrPending
	}
}
