package spinlock

import (
	"runtime"
	"sync/atomic"
)

// RWLock is a reader/writer lock derived from one [SpinLock] and two atomic
// counters.
//
// A pending writer blocks new readers but does not evict active ones; the
// writer proceeds only once the reader count drains to zero. Readers are not
// queued or ordered, so a continuous stream of them can starve writers.
//
// The zero value is an unlocked RWLock ready for use. An RWLock must not be
// copied after first use.
type RWLock struct {
	lock         SpinLock
	readerCount  atomic.Int64
	writerIntent atomic.Int64
}

// AcquireRead blocks until no writer has declared intent, then registers the
// caller as an active reader.
func (l *RWLock) AcquireRead() {
	for {
		for l.writerIntent.Load() > 0 {
			runtime.Gosched()
		}

		l.readerCount.Add(1)

		if l.writerIntent.Load() == 0 {
			return
		}

		// A writer declared intent between the check and the increment.
		// Back out so the writer can drain, then retry.
		l.readerCount.Add(-1)
		runtime.Gosched()
	}
}

// ReleaseRead deregisters an active reader.
func (l *RWLock) ReleaseRead() {
	l.readerCount.Add(-1)
}

// AcquireWrite declares writer intent, waits for active readers to drain, and
// takes the underlying [SpinLock] to serialize against other writers.
func (l *RWLock) AcquireWrite() {
	l.writerIntent.Add(1)

	for l.readerCount.Load() != 0 {
		runtime.Gosched()
	}

	l.lock.Acquire()
}

// ReleaseWrite withdraws writer intent and releases the underlying
// [SpinLock]. It must only be called by the current write holder.
func (l *RWLock) ReleaseWrite() {
	l.writerIntent.Add(-1)
	l.lock.Release()
}
