// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package usermem models caller-owned memory on the privileged side of
// the boundary.
//
// Caller memory is a set of non-overlapping [Segment]s, each a run of
// bytes at a caller-chosen address. The transport builds a [Space] from
// the segments the caller declared; handlers never see raw slices, only
// the [Memory] interface, and every access is checked: a read or write
// must fall entirely inside one segment or it fails with
// [status.BadAddress] and touches nothing.
package usermem

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bureau-foundation/nexus/lib/status"
)

// ErrFault is matched (via errors.Is) by every access failure.
var ErrFault = status.New(status.BadAddress, "bad address")

// Memory is caller memory as seen by the dispatcher and handlers.
type Memory interface {
	// CopyIn fills dst from caller memory at address. It fails without
	// partial effects unless len(dst) bytes are readable.
	CopyIn(address uint64, dst []byte) error

	// CopyOut writes src to caller memory at address. It fails without
	// partial effects unless len(src) bytes are writable.
	CopyOut(address uint64, src []byte) error
}

// Segment is one contiguous run of caller memory.
type Segment struct {
	Address uint64
	Data    []byte
}

func (s Segment) end() uint64 { return s.Address + uint64(len(s.Data)) }

// Space is a Memory backed by caller-declared segments. It is safe for
// concurrent use, though the dispatcher uses each Space from one call.
type Space struct {
	mu       sync.Mutex
	segments []Segment // sorted by Address
	dirty    []bool
}

// NewSpace validates segments and takes ownership of their Data.
// Segments must be non-empty, must not wrap the address space, and must
// not overlap.
func NewSpace(segments ...Segment) (*Space, error) {
	sorted := make([]Segment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Address < sorted[j].Address })

	for index, segment := range sorted {
		if len(segment.Data) == 0 {
			return nil, fmt.Errorf("segment at %#x is empty", segment.Address)
		}
		if segment.end() < segment.Address {
			return nil, fmt.Errorf("segment at %#x of %d bytes wraps the address space", segment.Address, len(segment.Data))
		}
		if index > 0 && sorted[index-1].end() > segment.Address {
			return nil, fmt.Errorf("segment at %#x overlaps segment at %#x", segment.Address, sorted[index-1].Address)
		}
	}

	return &Space{segments: sorted, dirty: make([]bool, len(sorted))}, nil
}

// locate returns the segment index and offset holding [address,
// address+length), or -1.
func (s *Space) locate(address uint64, length int) (int, int) {
	index := sort.Search(len(s.segments), func(i int) bool {
		return s.segments[i].end() > address
	})
	if index == len(s.segments) {
		return -1, 0
	}
	segment := s.segments[index]
	if address < segment.Address {
		return -1, 0
	}
	offset := address - segment.Address
	if uint64(length) > uint64(len(segment.Data))-offset {
		return -1, 0
	}
	return index, int(offset)
}

func (s *Space) CopyIn(address uint64, dst []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, offset := s.locate(address, len(dst))
	if index < 0 {
		return fmt.Errorf("reading %d bytes at %#x: %w", len(dst), address, ErrFault)
	}
	copy(dst, s.segments[index].Data[offset:])
	return nil
}

func (s *Space) CopyOut(address uint64, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, offset := s.locate(address, len(src))
	if index < 0 {
		return fmt.Errorf("writing %d bytes at %#x: %w", len(src), address, ErrFault)
	}
	copy(s.segments[index].Data[offset:], src)
	s.dirty[index] = true
	return nil
}

// Written returns the segments modified by CopyOut, in address order.
// The transport sends these back to the caller.
func (s *Space) Written() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var written []Segment
	for index, segment := range s.segments {
		if s.dirty[index] {
			written = append(written, segment)
		}
	}
	return written
}
