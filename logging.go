package taskrt

import "github.com/joeycumines/logiface"

// noopLogger is the package-level fallback used whenever a Scheduler is
// constructed without an explicit Logger: a Logger with no writer
// configured, so every call is a safe no-op rather than a nil check at
// every call site.
var noopLogger = logiface.New[logiface.Event]()
