// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package usermem

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/bureau-foundation/nexus/lib/status"
)

func TestNewSpaceValidation(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		wantErr  bool
	}{
		{"single", []Segment{{Address: 0x1000, Data: make([]byte, 16)}}, false},
		{"adjacent", []Segment{{Address: 0x1010, Data: make([]byte, 16)}, {Address: 0x1000, Data: make([]byte, 16)}}, false},
		{"overlap", []Segment{{Address: 0x1000, Data: make([]byte, 17)}, {Address: 0x1010, Data: make([]byte, 16)}}, true},
		{"empty", []Segment{{Address: 0x1000}}, true},
		{"wraps", []Segment{{Address: math.MaxUint64 - 3, Data: make([]byte, 8)}}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewSpace(test.segments...)
			if (err != nil) != test.wantErr {
				t.Errorf("NewSpace error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestCopyInWithinSegment(t *testing.T) {
	space, err := NewSpace(Segment{Address: 0x2000, Data: []byte("hello, nexus")})
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}

	buffer := make([]byte, 5)
	if err := space.CopyIn(0x2007, buffer); err != nil {
		t.Fatalf("CopyIn: %v", err)
	}
	if string(buffer) != "nexus" {
		t.Errorf("CopyIn read %q, want %q", buffer, "nexus")
	}
}

func TestAccessOutsideSegmentsFaults(t *testing.T) {
	space, err := NewSpace(
		Segment{Address: 0x1000, Data: make([]byte, 8)},
		Segment{Address: 0x1008, Data: make([]byte, 8)},
	)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}

	tests := []struct {
		name    string
		address uint64
		length  int
	}{
		{"before", 0x0ff8, 4},
		{"straddles start", 0x0ffe, 4},
		{"spans two segments", 0x1004, 8},
		{"past end", 0x1010, 1},
		{"huge address", math.MaxUint64, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := space.CopyOut(test.address, make([]byte, test.length))
			if !errors.Is(err, ErrFault) {
				t.Errorf("CopyOut error = %v, want ErrFault", err)
			}
			if status.FromError(err) != status.BadAddress {
				t.Errorf("FromError = %v, want BadAddress", status.FromError(err))
			}
			if err := space.CopyIn(test.address, make([]byte, test.length)); !errors.Is(err, ErrFault) {
				t.Errorf("CopyIn error = %v, want ErrFault", err)
			}
		})
	}

	if written := space.Written(); len(written) != 0 {
		t.Errorf("failed writes marked %d segments written", len(written))
	}
}

func TestWrittenReportsOnlyDirtySegments(t *testing.T) {
	space, err := NewSpace(
		Segment{Address: 0x3000, Data: make([]byte, 8)},
		Segment{Address: 0x1000, Data: make([]byte, 8)},
	)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	if err := space.CopyOut(0x3002, []byte{1, 2, 3}); err != nil {
		t.Fatalf("CopyOut: %v", err)
	}

	written := space.Written()
	if len(written) != 1 {
		t.Fatalf("Written returned %d segments, want 1", len(written))
	}
	if written[0].Address != 0x3000 {
		t.Errorf("written segment at %#x, want 0x3000", written[0].Address)
	}
	if !bytes.Equal(written[0].Data, []byte{0, 0, 1, 2, 3, 0, 0, 0}) {
		t.Errorf("written data = %v", written[0].Data)
	}
}
