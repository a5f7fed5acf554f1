// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

// ============================================================================
// Initialization transitions
// ============================================================================

// TryInit initializes the cell if and only if it is not already initialized.
//
// The fast path is a single atomic load: if the cell is already initialized,
// TryInit returns ErrAlreadyInitialized without touching the lock and without
// calling init. Otherwise it acquires the spin lock, re-checks the flag (a
// racing goroutine may have initialized the cell while this one was
// spinning), and if the cell is still empty runs exactly one initializer and
// publishes the result. Among any number of concurrent TryInit calls on one
// cell, exactly one returns nil.
//
// Parameters:
//   - init: the value supplier. If nil, the cell's stored initializer (from
//     Lazy) is consumed instead; TryInit panics if neither is available. If
//     non-nil, it supersedes any stored initializer, which is discarded
//     uncalled (the discard hook runs).
//
// Returns:
//   - nil if this call initialized the cell.
//   - ErrAlreadyInitialized if the cell already held a value, whether
//     published before the call or by a racing goroutine during it.
//
// If init panics, the panic propagates, the lock is released, and the cell
// is left empty and uninitialized. A stored initializer that panics is still
// consumed and will not run again.
func (c *Cell[T]) TryInit(init func() T) error {
	if c.initialized.Load() {
		return ErrAlreadyInitialized
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.initialized.Load() {
		return ErrAlreadyInitialized
	}
	c.transitionLocked(init)
	return nil
}

// ForceInit unconditionally (re)initializes the cell. Any current value is
// dropped first (its finalizer runs exactly once), then one initializer runs
// and its result is published. Like TryInit, a nil init means "consume the
// stored initializer"; ForceInit panics if none is available.
//
// ForceInit on an already-initialized cell overwrites the value in place.
// Pointers previously returned by Get alias the cell's storage, so forcing
// while any such pointer may still be dereferenced is a data race on T, and
// so is any Get or Load in flight during the transition (the read path
// takes no lock). The cell does not detect either; the caller must ensure
// no concurrent or stale readers exist, exactly as with Close.
//
// During the transition the cell observably passes through the uninitialized
// state: Initialized reports false from the moment the old value is dropped
// until the new one is published, and a concurrent Get on a cell with no
// pending initializer can panic in that window.
func (c *Cell[T]) ForceInit(init func() T) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.initialized.Swap(false) {
		if old, ok := c.slot.TakeValue(); ok {
			if c.finalize != nil {
				c.finalize(old)
			}
		}
	}
	c.transitionLocked(init)
}

// transitionLocked resolves the initializer, computes the value, writes it
// into the slot, and publishes it. The caller holds the spin lock and has
// already ensured the slot holds no live value (the publication flag is
// false and any prior value was taken).
//
// Resolution order: an explicit init wins, and any stored initializer is
// discarded uncalled so the slot never carries two payloads. A nil init
// consumes the stored one; if there is nothing to consume the transition
// panics rather than publish garbage.
//
// The publication store is last. If the initializer panics, the flag is
// still false and the slot still empty, so the cell stays coherent; the
// deferred unlock in the caller releases the lock.
func (c *Cell[T]) transitionLocked(init func() T) {
	if init != nil {
		if _, ok := c.slot.TakeInit(); ok {
			if c.discard != nil {
				c.discard()
			}
		}
	} else {
		var ok bool
		init, ok = c.slot.TakeInit()
		if !ok {
			panic(panicNoInitializer)
		}
	}
	c.slot.Put(init())
	c.initialized.Store(true)
}
