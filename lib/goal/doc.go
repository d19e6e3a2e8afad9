// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package goal defines the request envelope shared by both sides of the
// Nexus boundary.
//
// On the wire a goal is a fixed 784-byte [Envelope] laid out like the
// x86_64 C ABI of the original kernel interface: a little-endian u32
// goal identifier followed by a union of four parameter shapes. Which
// shape is meaningful is decided solely by the identifier.
//
// In Go the union is two things. [DecodeEnvelope] reads every shape as
// an independent copy, so [Envelope.Terminate] can force-terminate every
// fixed-capacity string field without one shape's terminator landing in
// another shape's bytes. [Envelope.Goal] then selects exactly one shape
// and returns it as a [Goal], a sealed sum type: the four parameter
// structs are the only implementations, so a handler receives a value
// whose shape cannot disagree with its identifier.
//
// Fixed-capacity fields ([Path], [Args]) keep their wire capacity in
// the type. Constructors reject strings that would not fit together
// with a terminator; nothing is silently truncated or widened.
package goal
