// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The dispatcher measures goal latency through a [Clock] rather than
// calling the time package directly. Real() is the production clock;
// Fake() returns a [FakeClock] that moves only when Advance is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	dispatcher := &dispatch.Dispatcher{Clock: c}
//	// ...
//	c.Advance(5 * time.Second)
package clock
