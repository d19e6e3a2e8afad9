// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fsops is the filesystem collaborator of the file-management
// handler: create-or-truncate, path resolution to a pinned reference,
// and unlink under an exclusive lock on the parent directory.
//
// Every acquisition returns something with a release method (an
// [Entry] is released, a [Parent] is unlocked), and callers pair each
// acquisition with a defer, so no exit path leaks a descriptor or a
// lock.
package fsops

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

// Filesystem is the set of primitives the file handler needs.
type Filesystem interface {
	// Create opens path with O_CREAT|O_TRUNC and perm (masked to
	// permission bits), then closes it.
	Create(path string, perm fs.FileMode) error

	// Resolve follows symlinks in path and pins the resulting entry.
	// The caller must Release the entry.
	Resolve(path string) (Entry, error)
}

// Entry is a resolved, pinned directory entry.
type Entry interface {
	// Path is the resolved path.
	Path() string
	IsDir() bool

	// LockParent takes the containing directory for exclusive
	// modification. The caller must Unlock the returned Parent.
	LockParent() (Parent, error)

	Release() error
}

// Parent is a directory held for exclusive modification.
type Parent interface {
	// Unlink removes entry from this directory. It fails if the name no
	// longer refers to the entry that was resolved.
	Unlink(entry Entry) error

	Unlock() error
}

// Host operates on the local filesystem.
type Host struct{}

func (Host) Create(path string, perm fs.FileMode) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm&fs.ModePerm)
	if err != nil {
		return err
	}
	return file.Close()
}

func (Host) Resolve(path string) (Entry, error) {
	// EvalSymlinks resolves "" to the working directory.
	if path == "" {
		return nil, &os.PathError{Op: "resolve", Path: path, Err: unix.ENOENT}
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, err
	}

	descriptor, err := unix.Open(resolved, unix.O_PATH|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: resolved, Err: err}
	}

	var stat unix.Stat_t
	if err := unix.Fstat(descriptor, &stat); err != nil {
		unix.Close(descriptor)
		return nil, &os.PathError{Op: "stat", Path: resolved, Err: err}
	}

	return &hostEntry{path: resolved, descriptor: descriptor, stat: stat}, nil
}

type hostEntry struct {
	path        string
	descriptor  int
	stat        unix.Stat_t
	releaseOnce sync.Once
}

func (e *hostEntry) Path() string { return e.path }

func (e *hostEntry) IsDir() bool { return e.stat.Mode&unix.S_IFMT == unix.S_IFDIR }

func (e *hostEntry) LockParent() (Parent, error) {
	directory := filepath.Dir(e.path)
	descriptor, err := unix.Open(directory, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: directory, Err: err}
	}
	if err := unix.Flock(descriptor, unix.LOCK_EX); err != nil {
		unix.Close(descriptor)
		return nil, &os.PathError{Op: "flock", Path: directory, Err: err}
	}
	return &hostParent{path: directory, descriptor: descriptor}, nil
}

func (e *hostEntry) Release() error {
	var err error
	e.releaseOnce.Do(func() {
		if closeErr := unix.Close(e.descriptor); closeErr != nil {
			err = &os.PathError{Op: "close", Path: e.path, Err: closeErr}
		}
	})
	return err
}

type hostParent struct {
	path       string
	descriptor int
	unlockOnce sync.Once
}

func (p *hostParent) Unlink(entry Entry) error {
	pinned, ok := entry.(*hostEntry)
	if !ok {
		return fmt.Errorf("fsops: unlink of foreign entry %T", entry)
	}
	if filepath.Dir(pinned.path) != p.path {
		return fmt.Errorf("fsops: %s is not in locked directory %s", pinned.path, p.path)
	}
	name := filepath.Base(pinned.path)

	var current unix.Stat_t
	if err := unix.Fstatat(p.descriptor, name, &current, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		return &os.PathError{Op: "unlink", Path: pinned.path, Err: err}
	}
	if current.Dev != pinned.stat.Dev || current.Ino != pinned.stat.Ino {
		// Replaced between resolve and lock.
		return &os.PathError{Op: "unlink", Path: pinned.path, Err: unix.ENOENT}
	}
	if current.Mode&unix.S_IFMT == unix.S_IFDIR {
		return &os.PathError{Op: "unlink", Path: pinned.path, Err: unix.EISDIR}
	}

	if err := unix.Unlinkat(p.descriptor, name, 0); err != nil {
		return &os.PathError{Op: "unlink", Path: pinned.path, Err: err}
	}
	return nil
}

func (p *hostParent) Unlock() error {
	var err error
	p.unlockOnce.Do(func() {
		if unlockErr := unix.Flock(p.descriptor, unix.LOCK_UN); unlockErr != nil {
			err = &os.PathError{Op: "flock", Path: p.path, Err: unlockErr}
		}
		if closeErr := unix.Close(p.descriptor); closeErr != nil && err == nil {
			err = &os.PathError{Op: "close", Path: p.path, Err: closeErr}
		}
	})
	return err
}
