package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadPool_ExecutesPushedTasks(t *testing.T) {
	p := New(2)
	defer p.Close()

	var counter int64
	var wg sync.WaitGroup
	const numTasks = 20
	wg.Add(numTasks)

	for i := 0; i < numTasks; i++ {
		slot := p.Slots()[i%len(p.Slots())]
		id := TaskID(i)
		for {
			if slot.Query().CanPush {
				slot.PushTask(Task{ID: id, Fn: func() {
					atomic.AddInt64(&counter, 1)
					wg.Done()
				}})
				break
			}
			time.Sleep(time.Millisecond)
		}
	}

	wg.Wait()
	assert.Equal(t, int64(numTasks), atomic.LoadInt64(&counter))
}

func TestThreadPool_CloseJoinsWorkers(t *testing.T) {
	p := New(1)
	p.Close()
	assert.Equal(t, poolShutdown, poolState(p.state.Load()))
}

func TestThreadPool_TickDrivesShutdown(t *testing.T) {
	p := New(1)
	p.RequestShutdown()

	require.Eventually(t, func() bool {
		p.Tick()
		return poolState(p.state.Load()) == poolShutdown
	}, time.Second, time.Millisecond)

	p.wg.Wait()
}

func TestBoundedExponentialBackoff(t *testing.T) {
	assert.Equal(t, time.Millisecond, boundedExponentialBackoff(0, StallTimeout))
	assert.Equal(t, 2*time.Millisecond, boundedExponentialBackoff(1, StallTimeout))
	assert.Equal(t, StallTimeout, boundedExponentialBackoff(10, StallTimeout))
}
