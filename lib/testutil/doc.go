// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for Nexus packages.
//
// [SocketDir] creates a temporary directory in /tmp suitable for unix
// domain sockets, whose paths are limited to 108 bytes.
//
// [RequireReceive] and [RequireClosed] wrap the select-with-timeout
// pattern so tests waiting on daemons and reaper goroutines do not call
// time.After directly.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
