// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package proctable counts live processes and threads.
//
// Both implementations of [Counter] iterate a collection that other
// parties mutate while the count runs, and both accept an approximate
// answer in exchange for never observing a torn or freed entry:
//
//   - [Procfs] walks /proc/<pid>/task. Processes that exit mid-scan
//     simply disappear from the walk; a vanished task directory is
//     skipped, never an error.
//   - [Table] is an in-process table published as immutable snapshots.
//     Readers load the current snapshot with one atomic read and iterate
//     it without locks; writers copy, modify, and publish a new
//     snapshot under a writer-only mutex. Readers never block writers.
package proctable

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/prometheus/procfs"
)

// Counter counts live threads across all processes.
type Counter interface {
	CountThreads(ctx context.Context) (int64, error)
}

// Procfs counts threads from a procfs mount.
type Procfs struct {
	// Root is the procfs mount point. Empty means procfs.DefaultMountPoint.
	Root string
}

func (p Procfs) CountThreads(ctx context.Context) (int64, error) {
	root := p.Root
	if root == "" {
		root = procfs.DefaultMountPoint
	}
	filesystem, err := procfs.NewFS(root)
	if err != nil {
		return 0, fmt.Errorf("opening procfs at %s: %w", root, err)
	}

	processes, err := filesystem.AllProcs()
	if err != nil {
		return 0, fmt.Errorf("listing processes: %w", err)
	}

	var count int64
	for _, process := range processes {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		threads, err := filesystem.AllThreads(process.PID)
		if err != nil {
			// Exited after AllProcs listed it.
			continue
		}
		count += int64(len(threads))
	}
	return count, nil
}

// Entry is one process in a Table.
type Entry struct {
	PID     int
	Threads int
	Path    string
}

// Table is a concurrently mutated process table with lock-free reads.
// The zero value is empty and ready to use.
type Table struct {
	writer   sync.Mutex
	snapshot atomic.Pointer[[]Entry]
}

// Snapshot returns the current entries sorted by PID. The slice is
// shared and must not be modified.
func (t *Table) Snapshot() []Entry {
	current := t.snapshot.Load()
	if current == nil {
		return nil
	}
	return *current
}

// Add inserts or replaces the entry for entry.PID.
func (t *Table) Add(entry Entry) {
	t.writer.Lock()
	defer t.writer.Unlock()

	previous := t.Snapshot()
	next := make([]Entry, 0, len(previous)+1)
	for _, existing := range previous {
		if existing.PID != entry.PID {
			next = append(next, existing)
		}
	}
	next = append(next, entry)
	sort.Slice(next, func(i, j int) bool { return next[i].PID < next[j].PID })
	t.snapshot.Store(&next)
}

// Remove deletes the entry for pid. Removing an absent pid is a no-op.
func (t *Table) Remove(pid int) {
	t.writer.Lock()
	defer t.writer.Unlock()

	previous := t.Snapshot()
	next := make([]Entry, 0, len(previous))
	for _, existing := range previous {
		if existing.PID != pid {
			next = append(next, existing)
		}
	}
	t.snapshot.Store(&next)
}

// Len returns the number of processes in the current snapshot.
func (t *Table) Len() int { return len(t.Snapshot()) }

// CountThreads sums Threads over one snapshot. Entries with a
// non-positive thread count are counted as one thread.
func (t *Table) CountThreads(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var count int64
	for _, entry := range t.Snapshot() {
		if entry.Threads > 0 {
			count += int64(entry.Threads)
		} else {
			count++
		}
	}
	return count, nil
}
