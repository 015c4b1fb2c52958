package taskrt

import (
	"context"

	"github.com/ygrebnov/taskrt/future"
)

// MapAll schedules f once per item in items, all at priority, and returns
// one Future per item in the same order. It does not itself wait for
// completion — combine with Await, or poll each Future's IsDone, to block
// until every item has finished.
func MapAll[T, R any](s *Scheduler, items []T, f func(context.Context, T) (R, error), priority Priority, trace TraceInfo) []future.Future[Outcome[R]] {
	futs := make([]future.Future[Outcome[R]], len(items))
	for i, item := range items {
		item := item
		futs[i] = Fn(s, func(ctx context.Context) (R, error) {
			return f(ctx, item)
		}, priority, trace)
	}
	return futs
}

// ForEach schedules f once per item in items, all at priority, and returns
// a single Future that becomes ready once every item's task has reached a
// terminal state. The returned Outcome is always Ok(struct{}{}); inspect
// each element Future (or wrap f to collect errors) for per-item results.
func ForEach[T any](s *Scheduler, items []T, f func(context.Context, T) error, priority Priority, trace TraceInfo) future.Future[Outcome[struct{}]] {
	futs := MapAll(s, items, func(ctx context.Context, item T) (struct{}, error) {
		return struct{}{}, f(ctx, item)
	}, priority, trace)

	anys := make([]future.Any, len(futs))
	for i, fu := range futs {
		anys[i] = future.AnyFromFuture(fu)
	}

	return Await(s, func(context.Context) (struct{}, error) {
		return struct{}{}, nil
	}, priority, trace, anys...)
}
