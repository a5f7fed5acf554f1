// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cell provides a spin-synchronized single-slot container: a Cell[T]
// holds at most one live value of type T, computed eagerly at construction or
// lazily from a one-shot initializer, and guarantees that at most one
// initializer runs at a time no matter how many goroutines race to
// initialize it.
//
// The cell is built from exactly two synchronization ingredients (an atomic
// compare-and-swap and a spin/yield hint), so it works in contexts where
// mutexes, condition variables, and blocking syscalls are unwanted: global
// state initialized at first use, hot paths that must never park, code shared
// with environments that have no blocking primitives.
//
// # Quick Start
//
// Lazy one-time initialization of process-wide state:
//
//	var config = cell.Lazy(func() *Config {
//		return loadConfig()
//	})
//
//	func handler() {
//		cfg := config.Get() // First caller runs loadConfig; the rest read lock-free.
//		...
//	}
//
// Racing initializers, exactly one of which wins:
//
//	c := cell.Uninit[int]()
//	for i := 0; i < 8; i++ {
//		go func() {
//			err := c.TryInit(expensiveComputation)
//			// err == nil for exactly one goroutine;
//			// cell.ErrAlreadyInitialized for the others.
//		}()
//	}
//
// # API Overview
//
// Construction: [New] (initialized), [Uninit] (empty), [Lazy] (stored
// initializer). The zero value of Cell[T] is a valid empty cell, equivalent
// to Uninit[T]() with no options.
//
// Initialization: [Cell.TryInit] initializes only if empty and reports
// ErrAlreadyInitialized otherwise; [Cell.ForceInit] unconditionally replaces
// any current value (see the reinitialization hazard below).
//
// Reading: [Cell.Get] returns a pointer to the value, running the stored
// initializer first if one is pending; [Cell.Load] is a non-initializing
// snapshot; [Cell.Initialized] observes the publication flag.
//
// Teardown: [Cell.Close] drops whichever payload is live: the value (its
// finalizer runs) or the never-consumed initializer (its discard hook runs).
//
// # Memory Ordering
//
// A cell carries two atomic booleans. The spin lock serializes transitions
// against each other and nothing else. Visibility of the value flows entirely
// through the publication flag: a transition stores the value into the slot
// and only then sets the flag (release); a reader that observes the flag set
// (acquire) is ordered after that store and may dereference the slot without
// any lock. Go's sync/atomic operations are sequentially consistent, which is
// strictly stronger than the acquire/release pairing this protocol needs.
//
// # Reinitialization Hazard
//
// ForceInit drops the current value while other goroutines may still hold
// pointers obtained from earlier Get calls. The cell serializes transitions
// against each other, but it cannot serialize a transition against a pointer
// that escaped before the lock was taken.
// Reinitializing a cell while such a pointer is live overwrites the pointed-to
// value in place and is a data race. This precondition is documented, not
// enforced: adding locking to the read path would forfeit the lock-free read
// property that is the point of the primitive. The spincheck tool
// (cmd/spincheck) flags likely violations statically.
package cell
