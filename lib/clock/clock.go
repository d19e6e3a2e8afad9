// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the daemon's time source. Production code injects Real();
// tests inject Fake().
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
