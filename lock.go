package ecs

import (
	"runtime"
	"sync/atomic"
)

// columnState encodes a ColumnLock's mode as a single word:
//
//	0          -> Open
//	1..max-1   -> Shared(n)
//	max        -> Exclusive
//
// Translated from original_source's data/lock/individual.rs RWLock, which
// uses the same open/shared-count/exclusive-sentinel scheme over a single
// atomic byte.
const columnExclusive uint32 = ^uint32(0)

// ColumnLock is a per-column read/write lock. It encodes only the
// count/mode, never an owner identity: release is unchecked, and it is the
// caller's responsibility to pair every acquire.
type ColumnLock struct {
	state atomic.Uint32
}

// TryAcquire attempts to acquire mode without blocking. It returns false on
// contention; the caller is expected to retry (QueryIterator busy-waits
// with a scheduler yield between attempts).
func (l *ColumnLock) TryAcquire(mode LockMode) bool {
	switch mode {
	case LockExclusive:
		return l.state.CompareAndSwap(0, columnExclusive)
	default:
		for {
			cur := l.state.Load()
			if cur == columnExclusive {
				return false
			}
			if l.state.CompareAndSwap(cur, cur+1) {
				return true
			}
		}
	}
}

// Acquire busy-waits until mode is obtained, yielding the goroutine's
// timeslice between attempts.
func (l *ColumnLock) Acquire(mode LockMode) {
	for !l.TryAcquire(mode) {
		runtime.Gosched()
	}
}

// Release releases one hold of mode. Mismatched release (releasing a mode
// not actually held) corrupts the lock — every acquire must be paired.
func (l *ColumnLock) Release(mode LockMode) {
	switch mode {
	case LockExclusive:
		l.state.Store(0)
	default:
		l.state.Add(^uint32(0)) // -1
	}
}

// Open reports whether the lock currently has neither shared nor exclusive
// holders. Used only for diagnostics/tests, never for acquire decisions.
func (l *ColumnLock) Open() bool {
	return l.state.Load() == 0
}
