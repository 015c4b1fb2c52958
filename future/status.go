// Package future implements the Future/Promise pair: a shared, atomically
// updated state object observed by a consumer (Future) and driven by a
// producer (Promise), plus cooperative cancel/suspend/preempt signaling that
// never blocks either side on the other.
package future

// Status is the mutually-exclusive state of an async operation. Only the
// terminal states (Canceled, Completing, Completed) are guaranteed to have
// any effect on program state; the rest are purely informational and may be
// skipped entirely depending on the executor.
type Status uint8

const (
	// Scheduled is the default status: the operation has been submitted to
	// a scheduler and is waiting to run.
	Scheduled Status = iota
	// Submitted means the scheduler has handed the operation to an
	// execution unit.
	Submitted
	// Preempted means the scheduler preempted the operation mid-flight.
	Preempted
	// Executing means the operation is currently running, or has resumed
	// after being suspended.
	Executing
	// Canceling means cancellation has begun but not yet taken effect.
	Canceling
	// Suspending means suspension has begun but not yet taken effect.
	Suspending
	// Suspended means the operation is fully suspended.
	Suspended
	// Resuming means the operation is being resumed from suspension.
	Resuming
	// Canceled is terminal: the operation was canceled before completing.
	Canceled
	// Completing is terminal-in-progress: the result is being published.
	Completing
	// Completed is terminal: the operation finished and a result (if any)
	// is available.
	Completed
	// pending is the reserved sentinel used internally for the terminal
	// status atomic before any terminal state has been reached.
	pending Status = 255
)

func (s Status) String() string {
	switch s {
	case Scheduled:
		return "Scheduled"
	case Submitted:
		return "Submitted"
	case Preempted:
		return "Preempted"
	case Executing:
		return "Executing"
	case Canceling:
		return "Canceling"
	case Suspending:
		return "Suspending"
	case Suspended:
		return "Suspended"
	case Resuming:
		return "Resuming"
	case Canceled:
		return "Canceled"
	case Completing:
		return "Completing"
	case Completed:
		return "Completed"
	default:
		return "Pending"
	}
}

// CancelState reports whether cancellation has been requested.
type CancelState uint8

const (
	CancelExecuting CancelState = iota
	CancelRequested
)

// SuspendState reports the last requested suspend/resume state. If resume
// and suspend are requested in quick succession, only the last one
// requested is observed by the executor.
type SuspendState uint8

const (
	SuspendExecuting SuspendState = iota
	SuspendRequested
)

// PreemptState reports whether the scheduler has preempted the operation.
type PreemptState uint8

const (
	PreemptExecuting PreemptState = iota
	PreemptRequested
)

// RequestType names which cooperative request caused a task to yield
// control back to its scheduler.
type RequestType uint8

const (
	RequestSuspend RequestType = iota
	RequestCancel
	RequestPreempt
)

func (t RequestType) String() string {
	switch t {
	case RequestSuspend:
		return "Suspend"
	case RequestCancel:
		return "Cancel"
	case RequestPreempt:
		return "Preempt"
	default:
		return "Unknown"
	}
}

// ServiceToken records which cooperative request caused a Chain (or any
// other cooperative task) to return control to its caller.
type ServiceToken struct {
	Type RequestType
}
