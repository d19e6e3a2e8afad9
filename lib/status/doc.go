// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package status defines the closed result vocabulary returned for every
// submitted goal.
//
// A [Code] is what the caller sees. At the process boundary each code
// maps to a conventional negative errno ([Code.Errno]), and the client
// side maps it back with [FromErrno]. Inside the daemon, handlers return
// ordinary Go errors: validation failures are [*Error] values built with
// [Errorf], collaborator failures are whatever the collaborator returned
// (an *os.PathError, a syscall.Errno, io.ErrShortWrite). [FromError]
// collapses any of these to the closest Code exactly once, in the
// dispatcher.
//
// This package depends on no other Nexus packages.
package status
