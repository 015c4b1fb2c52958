// Package timeline implements ScheduleTimeline: a priority- and
// fairness-aware scheduler that decides, on every tick, which ready tasks
// get a worker slot. Tasks are first grouped by how long they've gone
// without running (starvation), a sliding window of the most-starved tasks
// is widened until it covers at least as many tasks as there are slots,
// and only then is that window sorted by priority.
package timeline

import (
	"sort"
	"time"

	"github.com/ygrebnov/taskrt/future"
	"github.com/ygrebnov/taskrt/optional"
	"github.com/ygrebnov/taskrt/pool"
)

// StarvationPeriod is the initial width of the starvation window: tasks
// whose last-preempted timepoint falls within this span of the most-starved
// task are considered equally starved. When the window admits fewer tasks
// than there are slots, it is widened in steps of a quarter of this period
// (16ms).
const StarvationPeriod = 64 * time.Millisecond

// Priority ranks a task's CPU-time worthiness. Higher values run first
// when two tasks are equally starved.
type Priority int

// NormalPriority is the default priority assigned to a task if the caller
// doesn't specify one.
const NormalPriority Priority = 0

// Task is a schedulable unit tracked by the timeline: its work, its
// lifecycle promise, and the bookkeeping used to decide when it last ran.
type Task struct {
	Fn       func()
	Promise  future.PromiseAny
	ID       pool.TaskID
	Priority Priority

	// LastPreemptTimepoint is when the task last entered the Preempted
	// status (initially, after resuming from suspension, or after yielding
	// to a preempt request).
	LastPreemptTimepoint time.Time
	// LastStatusPoll is the status observed on the last PollTasks call.
	LastStatusPoll future.Status
}

// ScheduleTimeline holds every task that's ready to run, been preempted, or
// been suspended, and decides on each Tick which of them get a worker
// slot.
type ScheduleTimeline struct {
	tasks       []Task
	slotQueries []pool.Query
	widenings   int64
}

// New returns an empty ScheduleTimeline.
func New() *ScheduleTimeline {
	return &ScheduleTimeline{}
}

// AddTask enqueues a new task, starting it in the Preempted status so the
// first Tick considers it ready to run.
func (s *ScheduleTimeline) AddTask(fn func(), promise future.PromiseAny, id pool.TaskID, priority Priority, now time.Time) {
	promise.NotifyPreempted()
	s.tasks = append(s.tasks, Task{
		Fn:                   fn,
		Promise:              promise,
		ID:                   id,
		Priority:             priority,
		LastPreemptTimepoint: now,
		LastStatusPoll:       future.Preempted,
	})
}

// Len reports how many tasks the timeline is currently tracking.
func (s *ScheduleTimeline) Len() int { return len(s.tasks) }

// Widenings reports the cumulative number of times SelectTasksForSlots has
// had to widen its starvation window to admit enough tasks for the
// available slots, since this timeline was created.
func (s *ScheduleTimeline) Widenings() int64 { return s.widenings }

// RequestCancelAll fans a cancel request out to every tracked task's own
// promise, regardless of its current status. A tracked task only observes
// cancellation through its own promise (RequestProxy polls the task's
// promise, not the pool slot's), so a scheduler-wide shutdown must reach
// every task here, not just the pool.
func (s *ScheduleTimeline) RequestCancelAll() {
	for i := range s.tasks {
		s.tasks[i].Promise.RequestCancel()
	}
}

// PollTasks refreshes every tracked task's last-known status, recording
// the timepoint a task most recently transitioned into Preempted (i.e.
// became ready to run again).
func (s *ScheduleTimeline) PollTasks(now time.Time) {
	for i := range s.tasks {
		t := &s.tasks[i]
		newStatus := t.Promise.FetchStatus()
		if t.LastStatusPoll != future.Preempted && newStatus == future.Preempted {
			t.LastPreemptTimepoint = now
		}
		t.LastStatusPoll = newStatus
	}
}

// ExecuteResumeRequests un-suspends any task whose suspend request has
// been cleared, making it ready for scheduling again.
func (s *ScheduleTimeline) ExecuteResumeRequests() {
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.LastStatusPoll == future.Suspended && t.Promise.FetchSuspendRequest() == future.SuspendExecuting {
			t.Promise.NotifyPreempted()
		}
	}
}

// stablePartition reorders tasks in place so every element for which keep
// returns true comes first, preserving relative order within each group,
// and returns the count of kept elements.
func stablePartition(tasks []Task, keep func(Task) bool) int {
	out := make([]Task, 0, len(tasks))
	var rest []Task
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		} else {
			rest = append(rest, t)
		}
	}
	n := len(out)
	copy(tasks, append(out, rest...))
	return n
}

// RemoveDoneTasks drops every task that has reached a terminal status.
func (s *ScheduleTimeline) RemoveDoneTasks() {
	n := stablePartition(s.tasks, func(t Task) bool {
		return t.LastStatusPoll != future.Completed && t.LastStatusPoll != future.Canceled
	})
	s.tasks = s.tasks[:n]
}

// SelectTasksForSlots partitions the timeline into runnable tasks
// (Preempted or Executing — suspended tasks are never selected), orders
// them by starvation (most-starved first), widens the starvation window
// until it covers at least numSlots tasks (when available), then sorts
// that window by priority. The selected tasks end up at the front of the
// timeline; it returns how many were selected.
func (s *ScheduleTimeline) SelectTasksForSlots(numSlots int) int {
	n := stablePartition(s.tasks, func(t Task) bool {
		return t.LastStatusPoll == future.Preempted || t.LastStatusPoll == future.Executing
	})
	starving := s.tasks[:n]
	if len(starving) == 0 {
		return 0
	}

	sort.SliceStable(starving, func(i, j int) bool {
		return starving[i].LastPreemptTimepoint.Before(starving[j].LastPreemptTimepoint)
	})

	mostStarved := starving[0].LastPreemptTimepoint
	span := StarvationPeriod
	selected := 0

	for selected < len(starving) {
		diff := starving[selected].LastPreemptTimepoint.Sub(mostStarved)
		if diff <= span {
			selected++
			continue
		}
		if diff > span && selected < numSlots {
			// widen by the fewest 16ms quanta that cover this task.
			quantum := StarvationPeriod / 4
			multiplier := (diff - span + (quantum - time.Nanosecond)) / quantum
			span += quantum * multiplier
			s.widenings++
			selected++
			continue
		}
		break
	}

	sort.SliceStable(starving[:selected], func(i, j int) bool {
		return starving[i].Priority > starving[j].Priority
	})

	if selected > numSlots {
		selected = numSlots
	}
	return selected
}

// Tick runs one full scheduling pass: refresh statuses, resume tasks whose
// suspend request cleared, drop finished tasks, select the next batch to
// run, preempt everyone else, and push newly selected tasks onto any free
// slot.
func (s *ScheduleTimeline) Tick(slots []*pool.Slot, now time.Time) {
	numSlots := len(slots)
	if cap(s.slotQueries) < numSlots {
		s.slotQueries = make([]pool.Query, numSlots)
	}
	s.slotQueries = s.slotQueries[:numSlots]
	for i, slot := range slots {
		s.slotQueries[i] = slot.Query()
	}

	s.PollTasks(now)
	s.ExecuteResumeRequests()
	s.RemoveDoneTasks()

	if len(s.tasks) == 0 {
		return
	}

	numSelected := s.SelectTasksForSlots(numSlots)

	for i := numSelected; i < len(s.tasks); i++ {
		s.tasks[i].Promise.RequestPreempt()
	}

	nextSlot := 0
	for i := 0; i < numSelected; i++ {
		task := &s.tasks[i]

		hasSlot := false
		for _, q := range s.slotQueries {
			if taskIDMatches(q.ExecutingTask, task.ID) || taskIDMatches(q.PendingTask, task.ID) {
				hasSlot = true
				break
			}
		}
		if hasSlot {
			continue
		}

		for nextSlot < numSlots && !hasSlot {
			if s.slotQueries[nextSlot].CanPush {
				task.Promise.ClearPreemptRequest()
				slots[nextSlot].PushTask(pool.Task{Fn: task.Fn, ID: task.ID})
				hasSlot = true
			}
			nextSlot++
		}
	}
}

func taskIDMatches(opt optional.Option[pool.TaskID], id pool.TaskID) bool {
	v, ok := opt.Unpack()
	return ok && v == id
}
