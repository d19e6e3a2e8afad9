// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package brain binds the dispatcher to the daemon's socket actions.
//
// A submit request arrives carrying the caller's memory as segments.
// [Actions] mirrors those segments in a [usermem.Space], runs the
// dispatcher against it, and answers with the goal's status and every
// segment a handler wrote. The caller's bytes never leave the Space:
// the dispatcher copies the envelope into its own trusted buffer before
// looking at it.
package brain

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/nexus/lib/dispatch"
	"github.com/bureau-foundation/nexus/lib/ipc"
	"github.com/bureau-foundation/nexus/lib/proctable"
	"github.com/bureau-foundation/nexus/lib/service"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/usermem"
)

// Actions serves the submit and status actions.
type Actions struct {
	Dispatcher *dispatch.Dispatcher

	// Children is the launcher's table of unreaped programs, reported
	// by status. May be nil.
	Children *proctable.Table

	// Version and BinaryHash describe the running daemon for status.
	Version    string
	BinaryHash string
}

// Register installs the actions on server.
func (a *Actions) Register(server *service.SocketServer) {
	server.Handle(ipc.ActionSubmit, a.Submit)
	server.Handle(ipc.ActionStatus, a.Status)
}

// Submit dispatches the goal at request.GoalAddress.
func (a *Actions) Submit(ctx context.Context, request *ipc.Request) *ipc.Response {
	space, err := usermem.NewSpace(ipc.MemorySegments(request.Segments)...)
	if err != nil {
		return service.Failure(status.InvalidArgument, fmt.Errorf("caller memory layout: %w", err))
	}

	var response *ipc.Response
	if err := a.Dispatcher.Execute(ctx, space, request.GoalAddress); err != nil {
		response = service.Failure(status.FromError(err), err)
	} else {
		response = &ipc.Response{}
	}
	response.Segments = ipc.WireSegments(space.Written())
	return response
}

// Status describes the daemon.
func (a *Actions) Status(ctx context.Context, request *ipc.Request) *ipc.Response {
	response := &ipc.Response{
		Version:    a.Version,
		BinaryHash: a.BinaryHash,
	}
	if a.Children != nil {
		response.Children = a.Children.Len()
	}
	return response
}
