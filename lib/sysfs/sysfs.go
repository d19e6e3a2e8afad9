// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysfs writes kernel configuration endpoints such as backlight
// control files.
package sysfs

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/nexus/lib/status"
)

// DefaultBacklightPath is the Intel backlight brightness attribute.
const DefaultBacklightPath = "/sys/class/backlight/intel_backlight/brightness"

// Endpoint accepts one value per Write.
type Endpoint interface {
	Write(value []byte) error
}

// File is an Endpoint backed by an existing file. Each Write opens the
// file write-only (never creating it), writes value from offset zero in
// one call, and closes it.
//
// Open failures are returned unwrapped so the caller sees the
// underlying *os.PathError. A failed or short write, or a failed close
// after a write, carries status.IOError.
type File struct {
	Path string
}

func (f File) Write(value []byte) (err error) {
	file, err := os.OpenFile(f.Path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = status.Errorf(status.IOError, "closing %s: %w", f.Path, closeErr)
		}
	}()

	written, err := file.Write(value)
	if err != nil {
		return status.Errorf(status.IOError, "writing %s: %w", f.Path, err)
	}
	if written != len(value) {
		return status.Errorf(status.IOError, "writing %s: %d of %d bytes: %w", f.Path, written, len(value), io.ErrShortWrite)
	}
	return nil
}

func (f File) String() string { return fmt.Sprintf("sysfs:%s", f.Path) }
