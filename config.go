package taskrt

import (
	"time"

	"github.com/joeycumines/logiface"
	"github.com/ygrebnov/taskrt/metrics"
)

// Config holds Scheduler configuration.
type Config struct {
	// WorkerCount sizes the backing ThreadPool. Zero (default) lets
	// pool.New pick runtime.NumCPU() workers.
	// Default: 0 (runtime.NumCPU())
	WorkerCount int

	// ReferenceTimepoint is the timepoint Scheduler.Uptime measures
	// against; Tick measures each task's readiness from that task's own
	// submission time instead. Zero (default) uses time.Now() at New.
	// Default: time.Now()
	ReferenceTimepoint time.Time

	// Allocator backs the scheduler's pending-task buffer growth checks.
	// Default: GoAllocator{}
	Allocator Allocator

	// MetricsProvider receives Scheduler/ThreadPool/ScheduleTimeline
	// instrumentation. Default: metrics.NoopProvider{}
	MetricsProvider metrics.Provider

	// Logger receives structured diagnostic events. Default: a package
	// level no-op logger.
	Logger *logiface.Logger[logiface.Event]
}

// defaultConfig centralizes default values for Config. These defaults are
// applied by both New (when cfg is nil) and NewOptions (options builder
// base).
func defaultConfig() Config {
	return Config{
		WorkerCount:        0,
		ReferenceTimepoint: time.Now(),
		Allocator:          GoAllocator{},
		MetricsProvider:    metrics.NewNoopProvider(),
		Logger:             noopLogger,
	}
}

// validateConfig performs lightweight invariant checks, filling in any
// nil-valued fields a caller assembled by hand rather than via NewOptions.
func validateConfig(cfg *Config) error {
	if cfg.WorkerCount < 0 {
		return ErrInvalidConfig
	}
	if cfg.Allocator == nil {
		cfg.Allocator = GoAllocator{}
	}
	if cfg.MetricsProvider == nil {
		cfg.MetricsProvider = metrics.NewNoopProvider()
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger
	}
	if cfg.ReferenceTimepoint.IsZero() {
		cfg.ReferenceTimepoint = time.Now()
	}
	return nil
}
