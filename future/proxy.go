package future

import "github.com/ygrebnov/taskrt/rc"

// RequestProxy is the read-only view of a future's cooperative request
// flags, handed to a running task so it can poll for cancel/suspend/
// preempt without being able to touch status notifications or the result.
type RequestProxy struct {
	state rc.Rc[*BaseState]
}

// NewRequestProxy builds a RequestProxy from any typed Promise.
func NewRequestProxy[T any](p Promise[T]) RequestProxy {
	base := rc.Transmute[*BaseState](&p.state.Handle().BaseState, p.state)
	return RequestProxy{state: base}
}

// NewRequestProxyFromFuture builds a RequestProxy from any typed Future.
func NewRequestProxyFromFuture[T any](f Future[T]) RequestProxy {
	base := rc.Transmute[*BaseState](&f.state.Handle().BaseState, f.state)
	return RequestProxy{state: base}
}

// NewRequestProxyAny builds a RequestProxy from a type-erased Any.
func NewRequestProxyAny(a Any) RequestProxy {
	return RequestProxy{state: a.state.Share()}
}

func (r RequestProxy) FetchCancelRequest() CancelState   { return r.state.Handle().FetchCancelRequest() }
func (r RequestProxy) FetchPreemptRequest() PreemptState { return r.state.Handle().FetchPreemptRequest() }
func (r RequestProxy) FetchSuspendRequest() SuspendState { return r.state.Handle().FetchSuspendRequest() }

// Share returns a new RequestProxy handle aliasing the same underlying
// state.
func (r RequestProxy) Share() RequestProxy { return RequestProxy{state: r.state.Share()} }

// Close releases this handle. Safe to call multiple times.
func (r RequestProxy) Close() { r.state.Close() }
