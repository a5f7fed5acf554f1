// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import (
	"sync/atomic"

	"github.com/kolkov/spincell/internal/cell/slot"
	"github.com/kolkov/spincell/internal/cell/spinlock"
)

// ============================================================================
// Cell
// ============================================================================

// Cell is a single-slot container for at most one value of type T, with
// spin-lock-guarded initialization and lock-free reads after publication.
//
// The zero value is a valid empty cell: it holds nothing, Initialized reports
// false, and TryInit or ForceInit with an explicit initializer will populate
// it. A Cell must not be copied after first use.
//
// Thread Safety:
//   - Transitions (TryInit, ForceInit, lazy Get) are serialized by an
//     internal spin lock; at most one initializer runs at a time.
//   - Reads of a published value (Get, Load, Initialized) are lock-free and
//     never spin.
//   - Close assumes exclusive ownership and takes no lock; see Close.
type Cell[T any] struct {
	noCopy noCopy

	// lock serializes transitions: at most one goroutine may be dropping,
	// computing, or writing the payload at any moment. Readers never touch it.
	lock spinlock.Lock

	// initialized is the publication flag. It is set to true only after the
	// value is fully written into the slot, and cleared before the value is
	// dropped. A reader that observes true may dereference the slot without
	// holding the lock.
	initialized atomic.Bool

	// slot holds the payload: nothing, a pending initializer, or the value.
	// Guarded by lock for all mutation; read lock-free only after observing
	// initialized == true.
	slot slot.Slot[T]

	finalize func(T)
	discard  func()
}

// Option configures a Cell at construction time.
type Option[T any] func(*Cell[T])

// WithFinalizer installs fn to run on a value when it is dropped, either by
// ForceInit replacing it or by Close. The finalizer runs exactly once per
// value, inside the transition that drops it (so under the spin lock for
// ForceInit, and on the Close caller's goroutine for Close). Keep it short.
func WithFinalizer[T any](fn func(T)) Option[T] {
	return func(c *Cell[T]) { c.finalize = fn }
}

// WithDiscard installs fn to run when a stored initializer is thrown away
// without ever being called: ForceInit or TryInit with an explicit
// initializer superseding the pending one, or Close on a still-lazy cell.
func WithDiscard[T any](fn func()) Option[T] {
	return func(c *Cell[T]) { c.discard = fn }
}

// ============================================================================
// Constructors
// ============================================================================

// New returns a cell already initialized with v. No initializer ever runs;
// readers hit the lock-free fast path from the first call.
func New[T any](v T, opts ...Option[T]) *Cell[T] {
	c := &Cell[T]{}
	for _, opt := range opts {
		opt(c)
	}
	c.slot.Put(v)
	c.initialized.Store(true)
	return c
}

// Uninit returns an empty cell: no value, no pending initializer. Get panics
// until the cell is populated by TryInit or ForceInit with an explicit
// initializer. Equivalent to new(Cell[T]) plus the options.
func Uninit[T any](opts ...Option[T]) *Cell[T] {
	c := &Cell[T]{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lazy returns a cell that will compute its value on first demand by calling
// init. The initializer runs at most once, on the first goroutine to need the
// value (via Get, or TryInit(nil), or ForceInit(nil)); all later readers take
// the lock-free path.
//
// init must not be nil; Lazy panics otherwise. It is retained until consumed
// or discarded, so anything it captures stays reachable until then.
func Lazy[T any](init func() T, opts ...Option[T]) *Cell[T] {
	if init == nil {
		panic(panicNilInitializer)
	}
	c := &Cell[T]{}
	for _, opt := range opts {
		opt(c)
	}
	c.slot.SetPending(init)
	return c
}

// ============================================================================
// Observers
// ============================================================================

// Initialized reports whether the cell currently holds a published value.
// It is a single atomic load: lock-free, never spins, safe from any
// goroutine. The answer can be stale by the time the caller acts on it if
// other goroutines are transitioning the cell concurrently.
//
//go:nosplit
func (c *Cell[T]) Initialized() bool {
	return c.initialized.Load()
}

// Load returns a copy of the value and true if the cell is initialized, or
// the zero value and false otherwise. Unlike Get it never runs an
// initializer and never panics, which makes it the right shape for
// "use it if it's there" checks.
func (c *Cell[T]) Load() (T, bool) {
	if c.initialized.Load() {
		return *c.slot.Value(), true
	}
	var zero T
	return zero, false
}

// ============================================================================
// Teardown
// ============================================================================

// Close releases whatever the cell holds. If a value is published, it is
// dropped and the finalizer (if any) runs; if an initializer is still
// pending, it is discarded uncalled and the discard hook (if any) runs. The
// cell is empty afterwards and remains usable; closing an empty cell is a
// no-op. Close is idempotent.
//
// Close takes no lock: teardown implies the caller has exclusive ownership,
// and a Close racing a transition or a read is a caller bug the cell cannot
// repair. Dropping the value also zeroes the slot so the garbage collector
// can reclaim anything the value referenced.
func (c *Cell[T]) Close() {
	if c.initialized.Swap(false) {
		if v, ok := c.slot.TakeValue(); ok {
			if c.finalize != nil {
				c.finalize(v)
			}
		}
		return
	}
	if _, ok := c.slot.TakeInit(); ok {
		if c.discard != nil {
			c.discard()
		}
	}
}

// noCopy triggers `go vet -copylocks` on values copied after first use.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
