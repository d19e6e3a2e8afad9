// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package ipc

import (
	"fmt"

	"github.com/bureau-foundation/nexus/lib/usermem"
)

// Actions understood by the daemon.
const (
	// ActionSubmit carries one goal for dispatch.
	ActionSubmit = "submit"

	// ActionStatus asks the daemon to describe itself.
	ActionStatus = "status"
)

// MaxSegments bounds the number of memory segments in one request.
// A goal needs at most the envelope and one output buffer.
const MaxSegments = 8

// Request is a CBOR-encoded request from a client to the daemon, sent
// over the daemon's Unix socket. One request per connection.
type Request struct {
	// Action is one of the Action constants.
	Action string `cbor:"action"`

	// GoalAddress is the address of the goal envelope within Segments
	// (for submit).
	GoalAddress uint64 `cbor:"goal_address,omitempty"`

	// Segments are the caller's memory regions the daemon may read and
	// write while handling the goal: the envelope itself plus any output
	// buffers the goal names. Addresses are opaque to the daemon; they
	// only need to be consistent with the addresses inside the goal.
	Segments []Segment `cbor:"segments,omitempty"`
}

// Segment is one region of caller memory.
type Segment struct {
	Address uint64 `cbor:"address"`
	Data    []byte `cbor:"data"`
}

// Response is the daemon's reply.
type Response struct {
	// Status is the goal's result as a kernel-style return value: zero
	// on success, a negative errno on failure.
	Status int32 `cbor:"status"`

	// Error is a human-readable description when Status is nonzero.
	// Clients must not parse it.
	Error string `cbor:"error,omitempty"`

	// Segments returns every segment the handler wrote to, with its
	// complete post-handler contents (for submit).
	Segments []Segment `cbor:"segments,omitempty"`

	// Version is the daemon's version string (for status).
	Version string `cbor:"version,omitempty"`

	// BinaryHash is the BLAKE3 hex digest of the daemon's binary (for
	// status).
	BinaryHash string `cbor:"binary_hash,omitempty"`

	// Children is the number of launched programs the daemon has not
	// yet reaped (for status).
	Children int `cbor:"children,omitempty"`
}

// Validate checks the structural constraints of a request. It does not
// look at the goal bytes.
func (r *Request) Validate() error {
	switch r.Action {
	case ActionStatus:
		return nil
	case ActionSubmit:
	default:
		return fmt.Errorf("unknown action %q", r.Action)
	}
	if len(r.Segments) == 0 {
		return fmt.Errorf("submit without segments")
	}
	if len(r.Segments) > MaxSegments {
		return fmt.Errorf("%d segments exceeds limit of %d", len(r.Segments), MaxSegments)
	}
	return nil
}

// MemorySegments converts wire segments for usermem.NewSpace.
func MemorySegments(segments []Segment) []usermem.Segment {
	converted := make([]usermem.Segment, len(segments))
	for i, segment := range segments {
		converted[i] = usermem.Segment{Address: segment.Address, Data: segment.Data}
	}
	return converted
}

// WireSegments converts memory segments for a Response.
func WireSegments(segments []usermem.Segment) []Segment {
	converted := make([]Segment, len(segments))
	for i, segment := range segments {
		converted[i] = Segment{Address: segment.Address, Data: segment.Data}
	}
	return converted
}
