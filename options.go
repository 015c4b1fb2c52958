package taskrt

import (
	"fmt"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/ygrebnov/taskrt/metrics"
)

// Option configures a Scheduler. Use NewOptions(opts...) to construct one.
type Option func(*configOptions)

// internal builder state for options assembly.
type configOptions struct {
	cfg Config
}

// WithWorkerCount sizes the backing ThreadPool explicitly (must be > 0).
func WithWorkerCount(n int) Option {
	return func(co *configOptions) {
		if n <= 0 {
			panic("taskrt: WithWorkerCount requires n > 0")
		}
		co.cfg.WorkerCount = n
	}
}

// WithReferenceTime overrides the timepoint Scheduler.Uptime measures
// against, instead of time.Now() at construction. Per-task readiness is
// always measured against each task's own submission time, not this value.
func WithReferenceTime(t time.Time) Option {
	return func(co *configOptions) { co.cfg.ReferenceTimepoint = t }
}

// WithAllocator overrides the scheduler's Allocator.
func WithAllocator(a Allocator) Option {
	return func(co *configOptions) { co.cfg.Allocator = a }
}

// WithMetricsProvider wires a metrics.Provider into the scheduler, which
// records tick durations, pool occupancy and timeline window widenings;
// the pool and timeline themselves do not hold the provider.
func WithMetricsProvider(p metrics.Provider) Option {
	return func(co *configOptions) { co.cfg.MetricsProvider = p }
}

// WithLogger wires a structured logger into the scheduler. The pool does
// not take a logger.
func WithLogger(l *logiface.Logger[logiface.Event]) Option {
	return func(co *configOptions) { co.cfg.Logger = l }
}

// NewOptions builds a Config via functional options and delegates to New.
func NewOptions(opts ...Option) (*Scheduler, error) {
	co := configOptions{cfg: defaultConfig()}
	for _, opt := range opts {
		if opt == nil {
			panic("taskrt: nil option")
		}
		opt(&co)
	}

	if err := validateConfig(&co.cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return New(&co.cfg), nil
}
