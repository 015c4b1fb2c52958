package taskrt

import "errors"

// Namespace prefixes every sentinel error this package defines, matching
// the teacher's convention of a single namespaced error block.
const Namespace = "taskrt"

var (
	// ErrInvalidConfig is returned by NewOptions when validateConfig
	// rejects the assembled Config.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrSchedulerClosed names the use of a Scheduler after Close. No
	// function in this package returns it: the combinators have no error
	// result and do not check whether Close has been called.
	ErrSchedulerClosed = errors.New(Namespace + ": scheduler is closed")

	// ErrOutOfMemory surfaces an Allocator failure when the scheduler
	// grows its pending-task buffer.
	ErrOutOfMemory = errors.New(Namespace + ": allocator out of memory")

	// ErrTaskPanicked wraps a recovered panic from a task function.
	ErrTaskPanicked = errors.New(Namespace + ": task execution panicked")
)
