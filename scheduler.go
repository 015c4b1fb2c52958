package taskrt

import (
	"sync"
	"time"

	"github.com/joeycumines/logiface"

	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/metrics"
	"github.com/ygrebnov/taskrt/pool"
	"github.com/ygrebnov/taskrt/timeline"
)

// Scheduler owns a pending-task queue, a ScheduleTimeline, and the
// ThreadPool that actually runs task closures. Tick itself is meant to be
// driven from a single owning goroutine, matching the source library's
// "scheduler isn't thread-safe" contract for the timeline/pool dispatch
// proper — but combinators (Fn, Delay, ...) may be called from inside a
// running task's closure (a worker goroutine) to schedule further work
// dynamically, so the pending-task queue itself is guarded by a mutex.
type Scheduler struct {
	referenceTimepoint time.Time

	pendingMu  sync.Mutex
	pending    []pendingTask
	nextTaskID uint64

	cancelPromise future.Promise[struct{}]

	timeline *timeline.ScheduleTimeline
	pool     *pool.ThreadPool

	allocator Allocator
	logger    *logiface.Logger[logiface.Event]

	metrics           metrics.Provider
	tickHistogram     metrics.Histogram
	inflightGauge     metrics.UpDownCounter
	starvationCounter metrics.Counter
	lastInflight      int64
	lastWidenings     int64

	lifecycle *lifecycleCoordinator
}

// New constructs a Scheduler from cfg. A nil cfg uses defaultConfig().
//
// Deprecated: this Config-based constructor is kept for parity with the
// teacher's New(ctx, *Config); prefer NewOptions for new code.
func New(cfg *Config) *Scheduler {
	if cfg == nil {
		dc := defaultConfig()
		cfg = &dc
	}
	if err := validateConfig(cfg); err != nil {
		panic(err)
	}

	cancelPromise := future.NewPromise[struct{}]()
	cancelPromise.NotifyExecuting()

	s := &Scheduler{
		referenceTimepoint: cfg.ReferenceTimepoint,
		cancelPromise:      cancelPromise,
		timeline:           timeline.New(),
		pool:               pool.New(cfg.WorkerCount),
		allocator:          cfg.Allocator,
		logger:             cfg.Logger,
		metrics:            cfg.MetricsProvider,
	}

	s.tickHistogram = s.metrics.Histogram(
		"taskrt_scheduler_tick_seconds",
		metrics.WithDescription("duration of one Scheduler.Tick call"),
		metrics.WithUnit("s"),
	)
	s.inflightGauge = s.metrics.UpDownCounter(
		"taskrt_pool_inflight_workers",
		metrics.WithDescription("worker slots holding a pending or executing task"),
	)
	s.starvationCounter = s.metrics.Counter(
		"taskrt_timeline_starvation_widenings",
		metrics.WithDescription("starvation-window widenings observed across all ticks"),
	)

	s.lifecycle = newLifecycleCoordinator(
		func() {
			s.cancelPromise.RequestCancel()
			s.cancelAllTasks()
		},
		s.pool.Close,
		s.cancelPromise.NotifyCanceled,
	)

	s.logger.Debug().Int(`workers`, len(s.pool.Slots())).Log(`scheduler started`)

	return s
}

// reserveCapacity consults the Allocator once before the queue grows,
// surfacing ErrOutOfMemory if it fails. The request is always for zero
// bytes: n (the queue length after the append) does not size it, so only
// an Allocator that fails regardless of size is detected here.
func (s *Scheduler) reserveCapacity(n int) error {
	if _, err := s.allocator.Allocate(n * 0); err != nil {
		return ErrOutOfMemory
	}
	return nil
}

// allocateTaskID hands out the next task id under pendingMu, letting a
// combinator close over the id before the task's closure is even built
// (needed to tag a failing task's error with its own id).
func (s *Scheduler) allocateTaskID() pool.TaskID {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.nextTaskID++
	return pool.TaskID(s.nextTaskID)
}

// submit enqueues a new pending task, already tagged with id (from
// allocateTaskID). Combinators call this from whatever goroutine schedules
// the work, which may be a worker goroutine scheduling follow-on work from
// inside a running task — so access to pending is mutex-guarded.
func (s *Scheduler) submit(fn func(), pollReady TaskReady, priority Priority, trace TraceInfo, promise future.PromiseAny, id pool.TaskID) {
	if pollReady == nil {
		pollReady = AlwaysReady
	}

	s.pendingMu.Lock()
	if err := s.reserveCapacity(len(s.pending) + 1); err != nil {
		s.pendingMu.Unlock()
		panic(err)
	}

	s.pending = append(s.pending, pendingTask{
		fn:                fn,
		pollReady:         pollReady,
		promise:           promise,
		id:                id,
		priority:          priority,
		scheduleTimepoint: time.Now(),
		trace:             trace,
	})
	s.pendingMu.Unlock()

	s.logger.Debug().Int64(`id`, int64(id)).Str(`purpose`, trace.Purpose).Log(`task submitted`)
}

// cancelAllTasks fans a cancel request out to every task's own promise —
// queued-but-pending and already-dispatched-to-the-timeline alike. A task
// only observes cancellation through its own promise, never through the
// pool slot it happens to be running in, so this must run before the pool
// itself is asked to shut down — both from Tick's cancel branch and from
// Close, which may be called with no prior Tick at all.
func (s *Scheduler) cancelAllTasks() {
	s.pendingMu.Lock()
	for _, t := range s.pending {
		t.promise.RequestCancel()
	}
	s.pendingMu.Unlock()

	s.timeline.RequestCancelAll()
}

// Tick runs one full scheduling pass, mirroring TaskScheduler::tick: move
// ready pending tasks into the timeline, let the timeline dispatch them
// onto free pool slots, advance the pool's own shutdown state machine, and,
// once a scheduler-wide cancel has been requested, fan RequestCancel out to
// every pending and timeline-tracked task's own promise (not just the
// pool's) before requesting the pool's shutdown — a task only observes
// cancellation through its own promise, never through the slot it happens
// to be running in.
func (s *Scheduler) Tick(interval time.Duration) {
	start := time.Now()
	defer func() { s.tickHistogram.Record(time.Since(start).Seconds()) }()

	present := time.Now()

	s.pendingMu.Lock()
	snapshot := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	var remaining, ready []pendingTask
	for _, t := range snapshot {
		elapsed := present.Sub(t.scheduleTimepoint)
		if t.pollReady(elapsed) {
			ready = append(ready, t)
		} else {
			remaining = append(remaining, t)
		}
	}

	if len(remaining) > 0 {
		s.pendingMu.Lock()
		// prepend remaining so older tasks keep priority over anything a
		// concurrent submit() appended while this tick was polling.
		s.pending = append(remaining, s.pending...)
		s.pendingMu.Unlock()
	}

	for _, t := range ready {
		s.timeline.AddTask(t.fn, t.promise, t.id, t.priority, present)
		s.logger.Debug().Int64(`id`, int64(t.id)).Log(`task moved into timeline`)
	}

	s.timeline.Tick(s.pool.Slots(), present)
	s.pool.Tick()

	var inflight int64
	for _, slot := range s.pool.Slots() {
		q := slot.Query()
		if q.ExecutingTask.IsSome() || q.PendingTask.IsSome() {
			inflight++
		}
	}
	s.inflightGauge.Add(inflight - s.lastInflight)
	s.lastInflight = inflight

	if widenings := s.timeline.Widenings(); widenings > s.lastWidenings {
		s.starvationCounter.Add(widenings - s.lastWidenings)
		s.lastWidenings = widenings
	}

	_ = interval // retained for signature parity; workers poll on their own cadence

	if s.cancelPromise.FetchCancelRequest() == future.CancelRequested {
		s.cancelAllTasks()
		s.pool.RequestShutdown()
		s.logger.Notice().Log(`scheduler shutdown requested, cancel propagated to every task and pool`)
	}
}

// PendingCount reports how many tasks are queued but not yet ready for the
// timeline.
func (s *Scheduler) PendingCount() int {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	return len(s.pending)
}

// TimelineLen reports how many tasks the timeline is currently tracking.
func (s *Scheduler) TimelineLen() int { return s.timeline.Len() }

// Uptime reports how long this Scheduler has been alive, measured from its
// referenceTimepoint (time.Now() at construction, or whatever
// WithReferenceTime supplied).
func (s *Scheduler) Uptime() time.Duration { return time.Since(s.referenceTimepoint) }

// RequestClose asks the scheduler to begin shutting down without blocking;
// call Tick afterward to drive the pool's drain, or call Close for a
// synchronous teardown.
func (s *Scheduler) RequestClose() { s.cancelPromise.RequestCancel() }

// Close synchronously shuts the scheduler down: it requests cancellation,
// closes the backing ThreadPool (joining every worker goroutine), and
// marks the scheduler's own lifecycle promise canceled. Safe to call more
// than once.
func (s *Scheduler) Close() {
	s.lifecycle.Close()
	s.logger.Debug().Str(`uptime`, s.Uptime().String()).Log(`scheduler closed`)
}
