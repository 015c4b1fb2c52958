package future

import "github.com/ygrebnov/taskrt/rc"

// refCountManager tracks outstanding Future/Promise/Proxy handles sharing a
// single State. Go's garbage collector reclaims the State itself once the
// last handle is dropped, so unlike the source library this manager never
// frees anything directly — it exists so Share()/Close() preserve the same
// shape (and the same diagnostic ref count) as the rest of the Rc-based
// object model.
type refCountManager struct {
	count *rc.RefCount
}

func newRefCountManager() refCountManager {
	return refCountManager{count: rc.NewRefCount(1)}
}

func (m refCountManager) Ref()   { m.count.Ref() }
func (m refCountManager) Unref() { m.count.Unref() }

// Future observes the result of an async operation driven by a Promise. It
// never blocks: Result returns immediately with whatever is currently
// known.
type Future[T any] struct {
	state rc.Rc[*State[T]]
}

func newFuture[T any](state rc.Rc[*State[T]]) Future[T] {
	return Future[T]{state: state}
}

// FetchStatus returns the operation's current status.
func (f Future[T]) FetchStatus() Status { return f.state.Handle().FetchStatus() }

// RequestCancel asks the executor to cancel the operation.
func (f Future[T]) RequestCancel() { f.state.Handle().RequestCancel() }

// RequestSuspend asks the executor to suspend the operation.
func (f Future[T]) RequestSuspend() { f.state.Handle().RequestSuspend() }

// RequestResume asks the executor to resume a suspended operation.
func (f Future[T]) RequestResume() { f.state.Handle().RequestResume() }

// IsDone reports whether the operation has reached a terminal state.
func (f Future[T]) IsDone() bool { return f.state.Handle().IsDone() }

// Result returns the value published by the Promise, or ErrPending /
// ErrCanceled.
func (f Future[T]) Result() (T, error) { return f.state.Handle().Result() }

// Share returns a new Future handle aliasing the same underlying state.
func (f Future[T]) Share() Future[T] { return Future[T]{state: f.state.Share()} }

// Close releases this handle. Safe to call multiple times.
func (f Future[T]) Close() { f.state.Close() }

// Any is a type-erased Future: it exposes status and request operations
// but not the result, useful for holding a heterogeneous collection of
// in-flight operations (see AwaitAny).
type Any struct {
	state rc.Rc[*BaseState]
}

func newAny(state rc.Rc[*BaseState]) Any { return Any{state: state} }

// AnyFromFuture erases the result type of f, aliasing its underlying state.
// f and the returned Any each carry an independent Close/once guard over
// the same no-op-on-GC manager, so closing both is harmless — unlike the
// source library's move-only transmute, nothing here needs to be
// invalidated for correctness, since Go's collector (not the manager) owns
// the state's real lifetime.
func AnyFromFuture[T any](f Future[T]) Any {
	base := rc.Transmute[*BaseState](&f.state.Handle().BaseState, f.state)
	return Any{state: base}
}

func (a Any) FetchStatus() Status { return a.state.Handle().FetchStatus() }
func (a Any) RequestCancel()      { a.state.Handle().RequestCancel() }
func (a Any) RequestSuspend()     { a.state.Handle().RequestSuspend() }
func (a Any) RequestResume()      { a.state.Handle().RequestResume() }
func (a Any) IsDone() bool        { return a.state.Handle().IsDone() }
func (a Any) Share() Any          { return Any{state: a.state.Share()} }
func (a Any) Close()              { a.state.Close() }
