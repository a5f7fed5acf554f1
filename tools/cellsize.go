//go:build ignore
// +build ignore

// This tool prints the memory layout of a cell for a couple of payload
// types, to sanity check field ordering and padding after layout changes.
// Run with: go run tools/cellsize.go
package main

import (
	"fmt"
	"unsafe"
)

// atomicBool mirrors sync/atomic.Bool: a uint32 behind a noCopy marker.
type atomicBool struct {
	_ [0]func() // noCopy stand-in, zero size
	v uint32
}

// cellU64 mirrors cell.Cell[uint64] field for field. It MUST be kept in
// sync with cell.go and slot.go by hand; the whole point of this probe is
// to notice when it drifts.
type cellU64 struct {
	lock        atomicBool // spin lock flag
	initialized atomicBool // publication flag
	state       uint8      // slot tag: empty / pending / ready
	value       uint64
	init        func() uint64
	finalize    func(uint64)
	discard     func()
}

// cellString is the same shape with a pointer-carrying payload.
type cellString struct {
	lock        atomicBool
	initialized atomicBool
	state       uint8
	value       string
	init        func() string
	finalize    func(string)
	discard     func()
}

func main() {
	var u cellU64
	var s cellString

	fmt.Println("cell layout probe (amd64 expectations in comments)")
	fmt.Println()

	fmt.Printf("Cell[uint64]:\n")
	fmt.Printf("  total size:   %3d bytes\n", unsafe.Sizeof(u))
	fmt.Printf("  lock:         %3d\n", unsafe.Offsetof(u.lock))
	fmt.Printf("  initialized:  %3d\n", unsafe.Offsetof(u.initialized))
	fmt.Printf("  slot state:   %3d\n", unsafe.Offsetof(u.state))
	fmt.Printf("  slot value:   %3d  (8-aligned: padding after the tag)\n", unsafe.Offsetof(u.value))
	fmt.Printf("  slot init:    %3d\n", unsafe.Offsetof(u.init))
	fmt.Printf("  hooks:        %3d\n", unsafe.Offsetof(u.finalize))
	fmt.Println()

	fmt.Printf("Cell[string]:\n")
	fmt.Printf("  total size:   %3d bytes\n", unsafe.Sizeof(s))
	fmt.Printf("  slot value:   %3d\n", unsafe.Offsetof(s.value))
	fmt.Println()

	fmt.Println("Both flags share the first word: the spin lock and the")
	fmt.Println("publication flag land in one cache line with the tag, so")
	fmt.Println("the read fast path touches a single line for small payloads.")
}
