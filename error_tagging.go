package taskrt

import (
	"errors"
	"fmt"

	"github.com/ygrebnov/taskrt/pool"
)

// TaskTraceError exposes correlation metadata for a task failure: which
// task produced it and under what trace context, so callers aggregating
// several Outcome[R] values can report failures meaningfully.
type TaskTraceError interface {
	error
	Unwrap() error
	TaskID() (pool.TaskID, bool)
	Trace() (TraceInfo, bool)
}

type taskTracedError struct {
	err   error
	id    pool.TaskID
	hasID bool
	trace TraceInfo
}

func newTaskTracedError(err error, id pool.TaskID, trace TraceInfo) error {
	if err == nil {
		return nil
	}
	return &taskTracedError{err: err, id: id, hasID: true, trace: trace}
}

func (e *taskTracedError) Error() string { return e.err.Error() }
func (e *taskTracedError) Unwrap() error { return e.err }

func (e *taskTracedError) TaskID() (pool.TaskID, bool) { return e.id, e.hasID }
func (e *taskTracedError) Trace() (TraceInfo, bool)    { return e.trace, true }

func (e *taskTracedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "task(id=%v,purpose=%s): %+v", e.id, e.trace.Purpose, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractTaskID returns the originating task's id from err, if tagged.
func ExtractTaskID(err error) (pool.TaskID, bool) {
	var tte TaskTraceError
	if errors.As(err, &tte) {
		return tte.TaskID()
	}
	return 0, false
}

// ExtractTrace returns the originating task's trace info from err, if
// tagged.
func ExtractTrace(err error) (TraceInfo, bool) {
	var tte TaskTraceError
	if errors.As(err, &tte) {
		return tte.Trace()
	}
	return TraceInfo{}, false
}
