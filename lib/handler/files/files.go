// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package files handles ManageFiles goals: create-or-truncate and
// delete of Path1. Rename is reserved and rejected.
//
// Delete resolves the path (following symlinks), refuses directories,
// then unlinks under an exclusive lock on the parent. The resolved
// entry and the parent lock are released by defers, so every exit path
// gives them back.
package files

import (
	"context"
	"io/fs"

	"github.com/bureau-foundation/nexus/lib/fsops"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/status"
)

// Handler performs file operations through a Filesystem.
type Handler struct {
	Filesystem fsops.Filesystem
}

func (h *Handler) ManageFiles(ctx context.Context, params goal.FileOpParams) error {
	switch params.Operation {
	case goal.FileCreate:
		return h.Filesystem.Create(params.Path1.String(), fs.FileMode(params.Mode)&fs.ModePerm)
	case goal.FileDelete:
		return h.delete(params.Path1.String())
	}
	return status.Errorf(status.InvalidArgument, "manage files: operation %s not implemented", params.Operation)
}

func (h *Handler) delete(path string) error {
	entry, err := h.Filesystem.Resolve(path)
	if err != nil {
		return err
	}
	defer entry.Release()

	if entry.IsDir() {
		return status.Errorf(status.IsADirectory, "delete %s: is a directory", entry.Path())
	}

	parent, err := entry.LockParent()
	if err != nil {
		return err
	}
	defer parent.Unlock()

	return parent.Unlink(entry)
}
