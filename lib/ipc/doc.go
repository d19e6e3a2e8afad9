// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package ipc defines the CBOR-encoded message types for the
// client↔daemon Unix socket protocol. Both cmd/nexus-brain and
// lib/goalclient import this package so the wire types are defined
// once.
//
// A submit request ships the caller's memory to the daemon as a set of
// addressed segments. The daemon mirrors them in a usermem.Space,
// dispatches the goal against that space, and returns the segments the
// handler wrote.
package ipc
