// Package spinlock provides busy-wait mutual exclusion primitives built on
// atomic compare-and-swap.
//
// [SpinLock] is the base primitive: a single atomic flag spun on with
// cooperative yielding ([runtime.Gosched]) rather than OS-level blocking.
// There is no fairness guarantee and no bound on wait time; callers accept
// possible starvation under heavy contention in exchange for a primitive with
// no dependencies on the code it protects. In particular, a logging engine
// can use it without the risk of re-entering itself.
//
// The checked variants [SpinLock.AcquireChecked] and [SpinLock.ReleaseChecked]
// maintain a hold counter as a redundant diagnostic on top of the exclusion
// itself. If the counter is ever observed at a value other than exactly one
// while held, the mutual-exclusion invariant is broken and the variant panics
// with an error wrapping [ErrTooManyLocks]. The tag argument identifies the
// call site in the panic message:
//
//	var mu spinlock.SpinLock
//
//	mu.AcquireChecked("registry resolve")
//	defer mu.ReleaseChecked("registry resolve")
//
// [RWLock] derives a reader/writer lock from one SpinLock and two atomic
// counters. Any number of readers may hold it concurrently; a writer declares
// intent, which blocks new readers, waits for active readers to drain, and
// then takes the underlying SpinLock. Writers can starve under continuous
// reader turnover when readers re-acquire before intent is declared.
package spinlock
