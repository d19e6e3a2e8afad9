// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package service is the daemon's socket transport.
//
// [SocketServer] listens on a Unix socket and serves one CBOR
// [ipc.Request] per connection. Requests are decoded with a size limit,
// validated, and routed by action to a registered [ActionFunc]. Decode
// and validation failures never reach a handler; the client gets an
// InvalidArgument response instead.
//
// Physical access control is the only authentication: the socket's
// permission bits (from configuration) decide who may connect.
package service
