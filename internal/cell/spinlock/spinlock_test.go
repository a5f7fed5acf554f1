// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spinlock

import (
	"runtime"
	"sync"
	"testing"
)

// ========================================
// Basic Functionality Tests
// ========================================

// TestLock_ZeroValue verifies the zero value is an unlocked, usable Lock.
func TestLock_ZeroValue(t *testing.T) {
	var l Lock

	if l.Locked() {
		t.Fatal("zero-value Lock reports Locked() = true, want false")
	}

	l.Lock()
	if !l.Locked() {
		t.Error("Locked() = false after Lock(), want true")
	}
	l.Unlock()
	if l.Locked() {
		t.Error("Locked() = true after Unlock(), want false")
	}
}

// TestLock_TryLock verifies TryLock acquires only a free lock.
func TestLock_TryLock(t *testing.T) {
	var l Lock

	if !l.TryLock() {
		t.Fatal("TryLock() on free lock = false, want true")
	}

	// Second attempt must fail while held.
	if l.TryLock() {
		t.Error("TryLock() on held lock = true, want false")
	}

	l.Unlock()

	if !l.TryLock() {
		t.Error("TryLock() after Unlock() = false, want true")
	}
	l.Unlock()
}

// TestLock_UnlockUnlocked verifies Unlock of an unheld lock panics.
func TestLock_UnlockUnlocked(t *testing.T) {
	var l Lock

	defer func() {
		if r := recover(); r == nil {
			t.Error("Unlock() of unlocked Lock did not panic")
		}
	}()
	l.Unlock()
}

// ========================================
// Contention Tests
// ========================================

// TestLock_MutualExclusion verifies only one goroutine holds the lock at a time.
//
// A plain (non-atomic) counter is incremented under the lock by many
// goroutines; any mutual exclusion failure loses increments.
func TestLock_MutualExclusion(t *testing.T) {
	const (
		goroutines = 8
		iterations = 2000
	)

	var (
		l       Lock
		counter int // Deliberately non-atomic: protected by l only.
		wg      sync.WaitGroup
	)

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	want := goroutines * iterations
	if counter != want {
		t.Errorf("counter = %d after %d goroutines × %d iterations, want %d (lost updates => broken mutual exclusion)",
			counter, goroutines, iterations, want)
	}

	if l.Locked() {
		t.Error("Locked() = true after all goroutines finished, want false")
	}
}

// TestLock_CriticalSectionExclusive verifies no two goroutines are inside the
// critical section simultaneously, using an occupancy flag.
func TestLock_CriticalSectionExclusive(t *testing.T) {
	const goroutines = 6

	var (
		l        Lock
		inside   int // Guarded by l.
		breaches int // Guarded by l.
		wg       sync.WaitGroup
	)

	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				l.Lock()
				inside++
				if inside != 1 {
					breaches++
				}
				runtime.Gosched() // Widen the window for a second entrant.
				inside--
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	if breaches != 0 {
		t.Errorf("observed %d critical-section breaches, want 0", breaches)
	}
}

// ========================================
// Benchmarks
// ========================================

// BenchmarkLock_Uncontended measures Lock/Unlock with a single goroutine.
func BenchmarkLock_Uncontended(b *testing.B) {
	var l Lock

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l.Lock()
		l.Unlock()
	}
}

// BenchmarkLock_Contended measures Lock/Unlock under parallel contention.
func BenchmarkLock_Contended(b *testing.B) {
	var l Lock

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			l.Lock()
			l.Unlock()
		}
	})
}

// BenchmarkTryLock measures the cost of a failed TryLock.
func BenchmarkTryLock(b *testing.B) {
	var l Lock
	l.Lock() // Keep it held so every TryLock fails.

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if l.TryLock() {
			b.Fatal("TryLock succeeded on a held lock")
		}
	}
}
