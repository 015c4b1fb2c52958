package taskrt

import "sync"

// lifecycleCoordinator encapsulates Scheduler's shutdown sequence. It is a
// wiring helper, not an owner: it orchestrates cancellation and joins in a
// deterministic order, and Close is safe for concurrent calls — the
// sequence executes exactly once.
type lifecycleCoordinator struct {
	requestCancel func()
	closePool     func()
	notifyClosed  func()

	once sync.Once
}

func newLifecycleCoordinator(requestCancel, closePool, notifyClosed func()) *lifecycleCoordinator {
	return &lifecycleCoordinator{
		requestCancel: requestCancel,
		closePool:     closePool,
		notifyClosed:  notifyClosed,
	}
}

// Close executes the shutdown sequence exactly once:
//  1. request cancellation on the scheduler's own cancel promise and fan
//     it out to every pending/tracked task's own promise
//  2. close the backing ThreadPool, joining every worker goroutine
//  3. notify the cancel promise's terminal state
func (lc *lifecycleCoordinator) Close() {
	lc.once.Do(func() {
		if lc.requestCancel != nil {
			lc.requestCancel()
		}
		if lc.closePool != nil {
			lc.closePool()
		}
		if lc.notifyClosed != nil {
			lc.notifyClosed()
		}
	})
}
