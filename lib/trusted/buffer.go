// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package trusted provides the privileged side's owned copy of a
// request.
//
// A Buffer is allocated outside the Go heap via mmap(MAP_ANONYMOUS),
// locked into RAM (mlock) and, where the kernel supports it, excluded
// from core dumps (MADV_DONTDUMP). Request bytes (paths, argument
// blobs) never reach swap and are zeroed before the memory is returned.
// [Buffer.ReadFrom] is the only way bytes from untrusted memory enter a
// Buffer: one checked copy of exactly the buffer's length.
package trusted

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/usermem"
)

// madvise is replaced in tests.
var madvise = unix.Madvise

// Buffer is a fixed-size, locked, zeroed-on-close byte region. It must
// not be copied. After Close, Bytes panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

// New allocates a size-byte buffer. Allocation failures carry
// status.OutOfMemory.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, status.Errorf(status.OutOfMemory, "trusted: buffer size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, status.Errorf(status.OutOfMemory, "trusted: mmap failed: %w", err)
	}

	if err := unix.Mlock(data); err != nil {
		unix.Munmap(data)
		return nil, status.Errorf(status.OutOfMemory, "trusted: mlock failed: %w", err)
	}

	// Not every kernel supports MADV_DONTDUMP; the buffer is still
	// locked and zeroed on close without it.
	_ = madvise(data, unix.MADV_DONTDUMP)

	return &Buffer{data: data}, nil
}

// ReadFrom fills the whole buffer from untrusted memory at address. A
// short or faulting read fails with status.BadAddress and leaves the
// buffer zeroed.
func (b *Buffer) ReadFrom(memory usermem.Memory, address uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("trusted: read into closed buffer")
	}

	if err := memory.CopyIn(address, b.data); err != nil {
		clear(b.data)
		return status.Errorf(status.BadAddress, "trusted: copying %d bytes from %#x: %w", len(b.data), address, err)
	}
	return nil
}

// Bytes returns the buffer contents. The slice points into the mapping
// and must not be retained past Close.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("trusted: read from closed buffer")
	}
	return b.data
}

// Len returns the buffer size.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// Close zeroes, unlocks and unmaps the buffer. It is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	clear(b.data)

	var firstError error
	if err := unix.Munlock(b.data); err != nil {
		firstError = fmt.Errorf("trusted: munlock failed: %w", err)
	}
	if err := unix.Munmap(b.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("trusted: munmap failed: %w", err)
	}

	b.data = nil
	return firstError
}
