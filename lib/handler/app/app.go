// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package app handles ManageApplication goals.
//
// Start runs Path with argv [Path] or, when Args is non-empty,
// [Path, Args]. Args is passed as one argument, byte for byte: it is
// never split on whitespace.
package app

import (
	"context"

	"github.com/bureau-foundation/nexus/lib/dispatch"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/launch"
	"github.com/bureau-foundation/nexus/lib/status"
)

// Handler starts programs through a Launcher.
type Handler struct {
	Launcher launch.Launcher

	// Environment is the complete environment of started programs.
	// Nil means launch.DefaultEnvironment.
	Environment []string

	// Observer is told about every start and every failure. Nil means
	// dispatch.NopObserver.
	Observer dispatch.Observer
}

func (h *Handler) ManageApplication(ctx context.Context, params goal.AppOpParams) error {
	if params.Operation != goal.AppStart {
		return status.Errorf(status.InvalidArgument, "manage application: operation %s not implemented", params.Operation)
	}

	path := params.Path.String()
	if err := h.Launcher.Launch(ctx, Argv(params), h.environment()); err != nil {
		h.observer().LaunchFailed(path, err)
		return err
	}
	h.observer().LaunchStarted(path)
	return nil
}

// Argv builds the argument vector for a start goal.
func Argv(params goal.AppOpParams) []string {
	argv := []string{params.Path.String()}
	if !params.Args.Empty() {
		argv = append(argv, params.Args.String())
	}
	return argv
}

func (h *Handler) environment() []string {
	if h.Environment == nil {
		return launch.DefaultEnvironment
	}
	return h.Environment
}

func (h *Handler) observer() dispatch.Observer {
	if h.Observer == nil {
		return dispatch.NopObserver{}
	}
	return h.Observer
}
