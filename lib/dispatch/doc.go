// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dispatch is the single entry point for goals.
//
// [Dispatcher.Submit] takes the address of a goal envelope in caller
// memory and returns exactly one [status.Code]. In order, it:
//
//   - allocates a locked trusted buffer sized to the envelope
//     (OutOfMemory on failure),
//   - copies the envelope in through a checked read (BadAddress if any
//     byte is unreadable),
//   - decodes every view of the union into its own copy and terminates
//     every fixed-capacity string field,
//   - selects the goal shape from the discriminant alone
//     (InvalidArgument for unspecified or unknown discriminants, with
//     no handler invoked),
//   - routes the goal to its one handler,
//   - releases the buffer, whatever the outcome.
//
// Handler errors are converted to a code exactly once, here, with
// [status.FromError]. Handlers never log: operability events go to an
// [Observer], which the daemon backs with slog.
package dispatch
