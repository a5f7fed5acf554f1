// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

// Get returns a pointer to the cell's value, initializing the cell first if
// an initializer is still pending.
//
// Fast path: one atomic load of the publication flag, then a direct pointer
// into the slot. No lock, no spin, no allocation. This is the steady-state
// cost of every read after the first.
//
// Slow path: the flag is false, so Get acquires the spin lock and re-checks.
// If a racing goroutine published meanwhile, Get just reads. If an
// initializer is pending, Get consumes it, runs it (at most one goroutine
// ever does), publishes the result, and returns it. If the cell is empty
// with nothing pending, Get panics: reading an uninitialized cell is a
// caller bug, not a recoverable condition. Use Load for a non-panicking
// probe.
//
// The returned pointer aliases the cell's own storage and stays valid until
// the value is dropped by ForceInit or Close. Dropping the value while the
// pointer is still in use is a data race; see ForceInit.
//
// Performance:
//   - Initialized read: ~1ns, identical to a guarded field access.
//   - First read of a lazy cell: one initializer run under the spin lock;
//     concurrent first readers spin (yielding the processor) until it
//     publishes.
func (c *Cell[T]) Get() *T {
	if c.initialized.Load() {
		return c.slot.Value()
	}
	c.getSlow()
	return c.slot.Value()
}

// getSlow is the out-of-line slow path of Get, kept separate so the fast
// path stays small enough to inline. It returns only with the cell
// initialized; otherwise it panics.
func (c *Cell[T]) getSlow() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.initialized.Load() {
		// Lost the race: another goroutine initialized the cell while this
		// one was spinning. Its publication is ordered before our lock
		// acquisition, so the slot is safe to read.
		return
	}
	fn, ok := c.slot.TakeInit()
	if !ok {
		panic(panicNotInitialized)
	}
	c.slot.Put(fn())
	c.initialized.Store(true)
}
