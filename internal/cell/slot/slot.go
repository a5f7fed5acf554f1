// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package slot implements single-payload storage for a cell.
//
// A Slot holds exactly one of three payload kinds at any instant:
//
//   - Empty: nothing is stored.
//   - Pending: a not-yet-invoked initializer that will produce the value.
//   - Ready: a live value.
//
// This is the managed-runtime rendition of a "maybe uninitialized" raw slot:
// instead of reinterpreting uninitialized bytes, the payload kind is an
// explicit tag and dropped payloads are zeroed so the garbage collector can
// reclaim whatever they referenced.
//
// A Slot performs no synchronization of its own. The owning cell serializes
// all mutation behind its spin lock and publishes Ready values to lock-free
// readers through a separate atomic flag; see the cell package for the
// ordering contract.
package slot

// State identifies which payload kind a Slot currently holds.
type State uint8

const (
	// Empty means the slot holds nothing.
	Empty State = iota

	// Pending means the slot holds a stored, not-yet-invoked initializer.
	Pending

	// Ready means the slot holds a live value.
	Ready
)

// String returns the string representation of a State.
func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case Pending:
		return "Pending"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// Slot is storage for one payload: nothing, a pending initializer, or a live
// value, never more than one at a time.
//
// The zero value is an Empty slot.
//
// Thread Safety: none. Callers must serialize mutation externally and must
// not read Value concurrently with mutation unless their own publication
// protocol orders the accesses.
type Slot[T any] struct {
	// state tags the payload kind. Transitions:
	//   Empty → Pending  (SetPending)
	//   Empty → Ready    (Put)
	//   Pending → Empty  (TakeInit)
	//   Ready → Empty    (TakeValue)
	state State

	// value is the live payload when state == Ready.
	// Zeroed on TakeValue so dropped values do not pin heap objects.
	value T

	// init is the stored initializer when state == Pending.
	// Cleared on TakeInit; consumed at most once over the slot's life.
	init func() T
}

// State returns the current payload kind.
func (s *Slot[T]) State() State {
	return s.state
}

// Put stores a live value into an Empty slot, making it Ready.
//
// Panics if the slot is not Empty: storing over an undropped payload would
// leak its teardown (a Ready value would be replaced without finalization, a
// Pending initializer silently lost). Callers must Take* first.
func (s *Slot[T]) Put(v T) {
	if s.state != Empty {
		panic("slot: Put into " + s.state.String() + " Slot")
	}
	s.value = v
	s.state = Ready
}

// SetPending stores an initializer into an Empty slot, making it Pending.
//
// Panics if the slot is not Empty or if fn is nil.
func (s *Slot[T]) SetPending(fn func() T) {
	if s.state != Empty {
		panic("slot: SetPending into " + s.state.String() + " Slot")
	}
	if fn == nil {
		panic("slot: SetPending with nil initializer")
	}
	s.init = fn
	s.state = Pending
}

// TakeInit consumes the stored initializer, leaving the slot Empty.
//
// Returns (fn, true) when the slot was Pending; (nil, false) otherwise. The
// initializer reference is cleared from the slot, so it can be obtained (and
// therefore invoked) at most once.
func (s *Slot[T]) TakeInit() (func() T, bool) {
	if s.state != Pending {
		return nil, false
	}
	fn := s.init
	s.init = nil
	s.state = Empty
	return fn, true
}

// TakeValue removes the live value, leaving the slot Empty.
//
// Returns (value, true) when the slot was Ready; (zero, false) otherwise.
// The stored value is zeroed in place so anything it referenced becomes
// collectable, the closest Go gets to dropping a value in place.
func (s *Slot[T]) TakeValue() (T, bool) {
	var zero T
	if s.state != Ready {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.state = Empty
	return v, true
}

// Value returns a pointer to the slot's value storage.
//
// The pointer is meaningful only while the slot is Ready and published to the
// caller; reading it in any other circumstance observes a dropped or zero
// value. The pointer stays valid for the life of the Slot, but the value
// behind it is overwritten in place if the owner drops and re-fills the slot.
// That aliasing hazard is the owner's to document.
//
//go:nosplit
func (s *Slot[T]) Value() *T {
	return &s.value
}
