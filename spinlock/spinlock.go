// Package spinlock provides a minimal spin lock for the rarely-contended,
// constant-time critical sections used by future.State's result slot and
// pool.Slot's mailbox — never for guarding user closures or allocations.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// Lock is a compare-and-swap spin lock. Zero value is unlocked. A Lock must
// not be copied after first use.
type Lock struct {
	locked atomic.Bool
}

// TryLock attempts to acquire the lock without blocking.
func (l *Lock) TryLock() bool {
	return l.locked.CompareAndSwap(false, true)
}

// Lock acquires the lock, spinning and yielding the processor between
// attempts. Only ever guard constant-time operations with this.
func (l *Lock) Lock() {
	for spins := 0; !l.TryLock(); spins++ {
		if spins > 64 {
			runtime.Gosched()
			spins = 0
		}
	}
}

// Unlock releases the lock. Unlock on an already-unlocked Lock is a no-op.
func (l *Lock) Unlock() {
	l.locked.Store(false)
}

// Guard acquires l, runs fn, and releases l — fn must be short and must not
// itself acquire another lock that could deadlock with a concurrent holder.
func Guard(l *Lock, fn func()) {
	l.Lock()
	defer l.Unlock()
	fn()
}
