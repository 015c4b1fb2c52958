package future

import "errors"

// ErrPending is returned by Future.Result when the async operation has not
// yet reached a terminal state.
var ErrPending = errors.New("future: operation is pending")

// ErrCanceled is returned by Future.Result when the async operation was
// canceled before it could complete.
var ErrCanceled = errors.New("future: operation was canceled")
