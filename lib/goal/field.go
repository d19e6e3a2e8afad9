// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package goal

import (
	"bytes"
	"fmt"
)

// Wire capacities of the fixed string fields. Changing either is a wire
// version bump.
const (
	PathCapacity = 256
	ArgsCapacity = 512
)

// Path is a fixed-capacity, NUL-terminated path field. A Path decoded
// from the wire is not terminated until Terminate runs.
type Path [PathCapacity]byte

// NewPath copies s into a Path. s must leave room for the terminator
// and must not contain NUL.
func NewPath(s string) (Path, error) {
	var path Path
	if err := fillField(path[:], s, "path"); err != nil {
		return Path{}, err
	}
	return path, nil
}

// Terminate forces a NUL at the last byte.
func (p *Path) Terminate() { p[PathCapacity-1] = 0 }

// String returns the bytes before the first NUL. On an unterminated
// field that is the whole array.
func (p Path) String() string { return cstring(p[:]) }

// Empty reports whether the field holds the empty string.
func (p Path) Empty() bool { return p[0] == 0 }

// Args is the fixed-capacity argument blob of ManageApplication. The
// blob is opaque: it is passed to the launched program as one argument.
type Args [ArgsCapacity]byte

// NewArgs copies s into an Args field under the same rules as NewPath.
func NewArgs(s string) (Args, error) {
	var args Args
	if err := fillField(args[:], s, "args"); err != nil {
		return Args{}, err
	}
	return args, nil
}

// Terminate forces a NUL at the last byte.
func (a *Args) Terminate() { a[ArgsCapacity-1] = 0 }

func (a Args) String() string { return cstring(a[:]) }

func (a Args) Empty() bool { return a[0] == 0 }

func fillField(field []byte, s, name string) error {
	if len(s) >= len(field) {
		return fmt.Errorf("%s is %d bytes, capacity is %d including the terminator", name, len(s), len(field))
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return fmt.Errorf("%s contains a NUL byte", name)
	}
	copy(field, s)
	return nil
}

func cstring(field []byte) string {
	if end := bytes.IndexByte(field, 0); end >= 0 {
		return string(field[:end])
	}
	return string(field)
}
