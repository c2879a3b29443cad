package spinlock

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// ErrTooManyLocks indicates that a checked acquire or release observed a hold
// count other than exactly one while the lock was held, meaning the
// mutual-exclusion invariant itself is broken.
var ErrTooManyLocks = errors.New("too many locks held")

// SpinLock is a busy-wait mutual exclusion lock.
//
// The zero value is an unlocked SpinLock ready for use. A SpinLock must not
// be copied after first use.
type SpinLock struct {
	held  atomic.Bool
	holds atomic.Int64
}

// Acquire blocks until the lock is taken. Each failed attempt yields the
// scheduling quantum with [runtime.Gosched] instead of backing off.
func (l *SpinLock) Acquire() {
	for !l.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// TryAcquire takes the lock if it is free and reports whether it did.
func (l *SpinLock) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release frees the lock. It must only be called by the current holder.
func (l *SpinLock) Release() {
	l.held.Store(false)
}

// AcquireChecked acquires the lock and increments the hold counter. The
// counter must then read exactly one; any other value means an overlapping
// acquisition slipped through the exclusion, and AcquireChecked panics with
// an error wrapping [ErrTooManyLocks]. The tag names the call site for the
// panic message.
//
// The check is a diagnostic double-check layered on the spin, not a
// replacement for it.
func (l *SpinLock) AcquireChecked(tag string) {
	l.Acquire()

	if n := l.holds.Add(1); n != 1 {
		panic(fmt.Errorf("%w: acquire %q observed hold count %d", ErrTooManyLocks, tag, n))
	}
}

// ReleaseChecked decrements the hold counter and releases the lock. The
// counter must read zero after the decrement; any other value means the
// holder discipline was violated, and ReleaseChecked panics with an error
// wrapping [ErrTooManyLocks].
func (l *SpinLock) ReleaseChecked(tag string) {
	if n := l.holds.Add(-1); n != 0 {
		panic(fmt.Errorf("%w: release %q observed hold count %d", ErrTooManyLocks, tag, n))
	}

	l.Release()
}
