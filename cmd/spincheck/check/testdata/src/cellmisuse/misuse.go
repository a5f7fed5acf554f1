// Package cellmisuse holds analyzer fixtures. Each function isolates one
// usage pattern; `want` comments mark the expected diagnostics.
package cellmisuse

import "github.com/kolkov/spincell/cell"

func readBeforeInit() {
	c := cell.Uninit[int]()
	_ = c.Get() // want `Get on "c" before initialization`
}

func zeroValueRead() {
	var c cell.Cell[string]
	_ = c.Get() // want `Get on "c" before initialization`
}

func initializedRead() {
	c := cell.Uninit[int]()
	if err := c.TryInit(func() int { return 1 }); err != nil {
		return
	}
	_ = c.Get() // initialized above: no diagnostic
}

func lazyRead() {
	c := cell.Lazy(func() int { return 1 })
	_ = c.Get() // pending initializer: Get is the intended first touch
}

func forceAfterRead(sink **int) {
	c := cell.New(1)
	*sink = c.Get()
	c.ForceInit(func() int { return 2 }) // want `ForceInit on "c" after Get`
}

func forceWithoutRead() {
	c := cell.New(1)
	c.ForceInit(func() int { return 2 }) // no reader yet: no diagnostic
}

func forceThenReadThenForce(sink **int) {
	c := cell.New(1)
	c.ForceInit(func() int { return 2 })
	*sink = c.Get()
	c.ForceInit(func() int { return 3 }) // want `ForceInit on "c" after Get`
}

func readAfterClose() {
	c := cell.New(1)
	c.Close()
	_ = c.Get() // want `Get on "c" after Close`
}

func closeThenReinit() {
	c := cell.New(1)
	c.Close()
	c.ForceInit(func() int { return 2 })
	_ = c.Get() // reinitialized: no diagnostic
}

func lazyNil() {
	_ = cell.Lazy[int](nil) // want `Lazy requires a non-nil initializer`
}

func tryInitNilNoStored() {
	c := cell.Uninit[int]()
	_ = c.TryInit(nil) // want `TryInit\(nil\) on "c"`
}

func forceInitNilNoStored() {
	c := cell.New(1)
	c.ForceInit(nil) // want `ForceInit\(nil\) on "c"`
}

func nilSupplierWithStored() {
	c := cell.Lazy(func() int { return 1 })
	_ = c.TryInit(nil) // stored initializer pending: no diagnostic
}

func loadNeverPanics() {
	c := cell.Uninit[int]()
	if v, ok := c.Load(); ok {
		_ = v
	}
	_ = c.Initialized()
}

func capturedByClosure() {
	c := cell.Uninit[int]()
	go func() {
		_ = c.TryInit(func() int { return 1 })
	}()
	_ = c.Get() // closure may have initialized it: tracking stops, no diagnostic
}

func reassigned(other *cell.Cell[int]) {
	c := cell.Uninit[int]()
	c = other
	_ = c.Get() // unknown provenance after reassignment: no diagnostic
}
