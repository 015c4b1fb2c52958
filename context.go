package taskrt

import (
	"context"
	"sync"
	"time"

	"github.com/ygrebnov/taskrt/future"
)

// cancelPollPeriod is how often a task's context is checked against its
// Promise's cooperative cancel request.
const cancelPollPeriod = 2 * time.Millisecond

// contextFromProxy returns a context.Context that's canceled once proxy
// observes a cancel request, bridging the FSM's polled cancellation model
// onto the stdlib's ctx.Done() convention task functions expect. The
// returned cancel func must be called once the task finishes to stop the
// background poller.
func contextFromProxy(proxy future.RequestProxy) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(cancelPollPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if proxy.FetchCancelRequest() == future.CancelRequested {
					cancel()
					return
				}
			}
		}
	}()

	return ctx, func() {
		once.Do(func() { close(stop) })
		cancel()
	}
}
