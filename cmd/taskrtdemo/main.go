// Command taskrtdemo exercises a Scheduler against a handful of
// representative workloads: a plain Fn, a delayed Fn, an Await joining two
// prior tasks, and a three-phase ChainTask. It is meant to be read alongside
// the package doc, not deployed.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/ygrebnov/taskrt"
	"github.com/ygrebnov/taskrt/chain"
	"github.com/ygrebnov/taskrt/future"
)

func main() {
	log := stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(os.Stdout)))

	s, err := taskrt.NewOptions(taskrt.WithWorkerCount(4))
	if err != nil {
		log.Err().Err(err).Log(`failed to construct scheduler`)
		os.Exit(1)
	}
	defer s.Close()

	greet := taskrt.Fn(s, func(context.Context) (string, error) {
		return "hello from taskrt", nil
	}, taskrt.NormalPriority, taskrt.TraceInfo{Purpose: "greet"})

	delayed := taskrt.Delay(s, func(context.Context) (int, error) {
		return 7, nil
	}, taskrt.NormalPriority, taskrt.TraceInfo{Purpose: "delayed-seven"}, 50*time.Millisecond)

	joined := taskrt.Await(s, func(context.Context) (int, error) {
		greetOut, _ := greet.Result()
		delayedOut, _ := delayed.Result()
		if greetOut.IsErr() {
			return 0, fmt.Errorf("greet failed: %w", greetOut.UnwrapErr())
		}
		return len(greetOut.Unwrap()) + delayedOut.UnwrapOr(0),
			nil
	}, taskrt.NormalPriority, taskrt.TraceInfo{Purpose: "join"},
		future.AnyFromFuture(greet), future.AnyFromFuture(delayed))

	builder := chain.Start(func(seed int) int { return seed + 1 })
	builder = chain.Then(builder, func(n int) int { return n * 2 })
	builder = chain.Then(builder, func(n int) int { return n - 3 })
	c := chain.Build(builder)
	chained := taskrt.ChainTask[int](s, c, 10, taskrt.NormalPriority, taskrt.TraceInfo{Purpose: "three-phase-chain"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.Tick(0)
		if greet.IsDone() && delayed.IsDone() && joined.IsDone() && chained.IsDone() {
			break
		}
		time.Sleep(time.Millisecond)
	}

	report(log, "greet", greet)
	report(log, "delayed", delayed)
	report(log, "joined", joined)
	report(log, "chained", chained)

	log.Notice().Str(`uptime`, s.Uptime().String()).Log(`demo finished`)
}

func report[R any](log *logiface.Logger[*stumpy.Event], name string, fut future.Future[taskrt.Outcome[R]]) {
	outcome, err := fut.Result()
	if err != nil {
		if errors.Is(err, future.ErrCanceled) {
			log.Notice().Str(`task`, name).Log(`canceled`)
			return
		}
		log.Err().Str(`task`, name).Err(err).Log(`future failed`)
		return
	}
	if outcome.IsErr() {
		log.Err().Str(`task`, name).Err(outcome.UnwrapErr()).Log(`task failed`)
		return
	}
	log.Info().Str(`task`, name).Log(fmt.Sprintf(`completed: %v`, outcome.Unwrap()))
}
