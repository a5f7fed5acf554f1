// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

// Version is the spincell release version, following semantic versioning.
const Version = "0.3.1"

// Synchronization constants describing the implementation discipline.
// Tooling reads these instead of hard-coding strings.
const (
	// TransitionSync names the mechanism serializing initialization
	// transitions against each other.
	TransitionSync = "spin-lock (CAS + yield)"

	// ReadSync names the mechanism ordering reads after publication.
	ReadSync = "atomic publication flag (acquire/release)"
)

// Info describes the library build for diagnostics and tooling.
type Info struct {
	// Version is the semantic version of the library.
	Version string

	// TransitionSync describes how initialization is serialized.
	TransitionSync string

	// ReadSync describes how published values become visible to readers.
	ReadSync string
}

// GetInfo returns the library's version and synchronization discipline.
func GetInfo() Info {
	return Info{
		Version:        Version,
		TransitionSync: TransitionSync,
		ReadSync:       ReadSync,
	}
}
