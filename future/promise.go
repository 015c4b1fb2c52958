package future

import "github.com/ygrebnov/taskrt/rc"

// Promise is the executor-side handle to an async operation's shared
// state: it publishes status notifications and the eventual result, and
// polls the cooperative cancel/suspend/preempt requests set by consumers
// or the scheduler.
type Promise[T any] struct {
	state rc.Rc[*State[T]]
}

// NewPromise allocates a fresh Promise in the Scheduled status.
func NewPromise[T any]() Promise[T] {
	state := rc.New(NewState[T](), newRefCountManager())
	return Promise[T]{state: state}
}

func (p Promise[T]) NotifyScheduled()    { p.state.Handle().NotifyScheduled() }
func (p Promise[T]) NotifySubmitted()    { p.state.Handle().NotifySubmitted() }
func (p Promise[T]) NotifyPreempted()    { p.state.Handle().NotifyPreempted() }
func (p Promise[T]) NotifyExecuting()    { p.state.Handle().NotifyExecuting() }
func (p Promise[T]) NotifyCancelBegin()  { p.state.Handle().NotifyCancelBegin() }
func (p Promise[T]) NotifyCanceled()     { p.state.Handle().NotifyCanceled() }
func (p Promise[T]) NotifySuspendBegin() { p.state.Handle().NotifySuspendBegin() }
func (p Promise[T]) NotifySuspended()    { p.state.Handle().NotifySuspended() }
func (p Promise[T]) NotifyResumeBegin()  { p.state.Handle().NotifyResumeBegin() }

// NotifyCompleted publishes value as the operation's result.
func (p Promise[T]) NotifyCompleted(value T) { p.state.Handle().CompleteWithValue(value) }

func (p Promise[T]) RequestCancel()  { p.state.Handle().RequestCancel() }
func (p Promise[T]) RequestSuspend() { p.state.Handle().RequestSuspend() }
func (p Promise[T]) RequestResume()  { p.state.Handle().RequestResume() }

func (p Promise[T]) RequestPreempt()      { p.state.Handle().RequestPreempt() }
func (p Promise[T]) ClearPreemptRequest() { p.state.Handle().ClearPreemptRequest() }

func (p Promise[T]) FetchCancelRequest() CancelState   { return p.state.Handle().FetchCancelRequest() }
func (p Promise[T]) FetchPreemptRequest() PreemptState { return p.state.Handle().FetchPreemptRequest() }
func (p Promise[T]) FetchSuspendRequest() SuspendState { return p.state.Handle().FetchSuspendRequest() }

func (p Promise[T]) FetchStatus() Status { return p.state.Handle().FetchStatus() }
func (p Promise[T]) IsDone() bool        { return p.state.Handle().IsDone() }

// GetFuture returns a Future observing this Promise's state.
func (p Promise[T]) GetFuture() Future[T] { return newFuture(p.state.Share()) }

// Share returns a new Promise handle aliasing the same underlying state.
func (p Promise[T]) Share() Promise[T] { return Promise[T]{state: p.state.Share()} }

// Close releases this handle. Safe to call multiple times.
func (p Promise[T]) Close() { p.state.Close() }

// PromiseAny is the type-erased executor-side handle, used by schedulers
// that manage a heterogeneous pool of in-flight Promises.
type PromiseAny struct {
	state rc.Rc[*BaseState]
}

// PromiseAnyFrom erases the result type of p, aliasing its underlying state.
func PromiseAnyFrom[T any](p Promise[T]) PromiseAny {
	base := rc.Transmute[*BaseState](&p.state.Handle().BaseState, p.state)
	return PromiseAny{state: base}
}

func (p PromiseAny) NotifyScheduled()    { p.state.Handle().NotifyScheduled() }
func (p PromiseAny) NotifySubmitted()    { p.state.Handle().NotifySubmitted() }
func (p PromiseAny) NotifyPreempted()    { p.state.Handle().NotifyPreempted() }
func (p PromiseAny) NotifyExecuting()    { p.state.Handle().NotifyExecuting() }
func (p PromiseAny) NotifyCancelBegin()  { p.state.Handle().NotifyCancelBegin() }
func (p PromiseAny) NotifyCanceled()     { p.state.Handle().NotifyCanceled() }
func (p PromiseAny) NotifySuspendBegin() { p.state.Handle().NotifySuspendBegin() }
func (p PromiseAny) NotifySuspended()    { p.state.Handle().NotifySuspended() }
func (p PromiseAny) NotifyResumeBegin()  { p.state.Handle().NotifyResumeBegin() }

func (p PromiseAny) RequestCancel()  { p.state.Handle().RequestCancel() }
func (p PromiseAny) RequestSuspend() { p.state.Handle().RequestSuspend() }
func (p PromiseAny) RequestResume()  { p.state.Handle().RequestResume() }

func (p PromiseAny) RequestPreempt()      { p.state.Handle().RequestPreempt() }
func (p PromiseAny) ClearPreemptRequest() { p.state.Handle().ClearPreemptRequest() }

func (p PromiseAny) FetchCancelRequest() CancelState   { return p.state.Handle().FetchCancelRequest() }
func (p PromiseAny) FetchPreemptRequest() PreemptState { return p.state.Handle().FetchPreemptRequest() }
func (p PromiseAny) FetchSuspendRequest() SuspendState { return p.state.Handle().FetchSuspendRequest() }

func (p PromiseAny) FetchStatus() Status { return p.state.Handle().FetchStatus() }
func (p PromiseAny) IsDone() bool        { return p.state.Handle().IsDone() }

// GetFuture returns a type-erased Future observing this Promise's state.
func (p PromiseAny) GetFuture() Any { return newAny(p.state.Share()) }

// Share returns a new PromiseAny handle aliasing the same underlying state.
func (p PromiseAny) Share() PromiseAny { return PromiseAny{state: p.state.Share()} }

// Close releases this handle. Safe to call multiple times.
func (p PromiseAny) Close() { p.state.Close() }
