// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR configuration shared by the Nexus
// client and daemon.
//
// Everything that crosses the daemon socket is CBOR. The goal envelope
// itself is a fixed binary layout (see lib/goal) and travels as a CBOR
// byte string inside a request, never as a CBOR map.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (sockets):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// Wire types carry `cbor` struct tags with short keys. Types that are
// also written as JSON for CLI output use `json` tags only; fxamacker
// falls back to them when `cbor` tags are absent.
package codec
