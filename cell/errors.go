// Copyright 2026 The spincell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cell

import "errors"

// ErrAlreadyInitialized is returned by TryInit when the cell already holds a
// published value. It reports an observation, not a failure: the value the
// caller wanted to exist does exist, just computed by someone else.
var ErrAlreadyInitialized = errors.New("spincell: cell already initialized")

// Panic messages for contract violations. These are programming errors in the
// caller, not runtime conditions, so they panic rather than return an error.
const (
	// panicNotInitialized reports a Get on a cell with no value and no
	// pending initializer to produce one.
	panicNotInitialized = "spincell: Get of uninitialized Cell"

	// panicNoInitializer reports a transition asked to consume a stored
	// initializer when none is pending.
	panicNoInitializer = "spincell: no initializer available"

	// panicNilInitializer reports a nil initializer where a non-nil one is
	// required.
	panicNilInitializer = "spincell: nil initializer"
)
