// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package spinlock implements the busy-wait mutual exclusion flag used to
// serialize cell transitions.
//
// A Lock is a single atomic boolean acquired with a compare-and-swap loop.
// It never blocks in the OS sense: a goroutine that loses the CAS yields the
// processor with runtime.Gosched and retries. This keeps the primitive free
// of mutexes, condition variables, and blocking syscalls; the only waits are
// bounded by how long the current holder keeps the lock.
//
// The lock is intentionally minimal:
//   - No fairness: a spinner can in principle lose the CAS indefinitely under
//     sufficient contention. Transitions do O(1) work plus the user-supplied
//     initializer, so hold times are expected to be short.
//   - No reentrancy: a goroutine that calls Lock twice deadlocks on itself.
//   - No ownership tracking: Unlock by a non-holder is indistinguishable from
//     corruption and panics.
//
// Memory ordering: Go's sync/atomic operations are sequentially consistent,
// which subsumes the acquire-on-success / relaxed-on-failure ordering a
// hand-tuned spin lock would use. The successful CAS is the acquire edge for
// the critical section; the Unlock store is the release edge.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// Lock is a spin lock built on a single atomic boolean.
//
// The zero value is an unlocked Lock, ready for use. A Lock must not be
// copied after first use.
//
// Lock serializes writers only. It says nothing about the visibility of data
// published to lock-free readers; callers that publish must pair a separate
// release store with the readers' acquire loads (see the cell package).
type Lock struct {
	// held is true while some goroutine owns the critical section.
	// false→true transition only via CAS in Lock/TryLock;
	// true→false transition only via Swap in Unlock.
	held atomic.Bool
}

// Lock acquires the lock, spinning until it is available.
//
// Each failed compare-and-swap yields with runtime.Gosched before retrying.
// Gosched is the scheduler-level analogue of a CPU pause hint: it hands the
// processor to other runnable goroutines (including, typically, the current
// lock holder) without blocking the OS thread.
//
// Performance: uncontended acquisition is a single CAS (~5ns). Contended
// acquisition costs one Gosched per retry; there is no upper bound.
func (l *Lock) Lock() {
	for !l.held.CompareAndSwap(false, true) {
		// Lost the race. Let the holder run; retry after rescheduling.
		runtime.Gosched()
	}
}

// TryLock attempts to acquire the lock without spinning.
//
// Returns true if the lock was acquired. Callers that receive false must not
// enter the critical section.
//
//go:nosplit
func (l *Lock) TryLock() bool {
	return l.held.CompareAndSwap(false, true)
}

// Unlock releases the lock.
//
// Panics if the lock was not held: releasing an unheld spin lock means the
// caller's lock discipline is broken, and continuing would let two goroutines
// into the critical section at once.
func (l *Lock) Unlock() {
	if !l.held.Swap(false) {
		panic("spinlock: Unlock of unlocked Lock")
	}
}

// Locked reports whether the lock is currently held by some goroutine.
//
// This is a racy observation intended for tests and diagnostics only; by the
// time the caller inspects the result the lock may have changed state.
//
//go:nosplit
func (l *Lock) Locked() bool {
	return l.held.Load()
}
