// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/bureau-foundation/nexus/lib/config"
	"github.com/bureau-foundation/nexus/lib/dispatch"
	"github.com/bureau-foundation/nexus/lib/fsops"
	"github.com/bureau-foundation/nexus/lib/handler/app"
	"github.com/bureau-foundation/nexus/lib/handler/configure"
	"github.com/bureau-foundation/nexus/lib/handler/files"
	"github.com/bureau-foundation/nexus/lib/handler/sysinfo"
	"github.com/bureau-foundation/nexus/lib/hwinfo"
	"github.com/bureau-foundation/nexus/lib/launch"
	"github.com/bureau-foundation/nexus/lib/proctable"
	"github.com/bureau-foundation/nexus/lib/sysfs"
)

// daemon is the dispatcher and the launcher state it shares with the
// status action.
type daemon struct {
	dispatcher *dispatch.Dispatcher
	launcher   *launch.Exec
	children   *proctable.Table
}

// newDaemon wires every handler to its host collaborator.
func newDaemon(cfg *config.Config, observer dispatch.Observer) *daemon {
	children := &proctable.Table{}
	launcher := &launch.Exec{
		Children: children,
		OnExit:   observer.ProgramExited,
	}

	return &daemon{
		dispatcher: &dispatch.Dispatcher{
			Handlers: dispatch.Handlers{
				Info: &sysinfo.Handler{
					Memory:    hwinfo.Host{},
					Processes: proctable.Procfs{Root: cfg.Subsystems.ProcRoot},
				},
				Configure: &configure.Handler{
					Brightness: sysfs.File{Path: cfg.Subsystems.BrightnessPath},
				},
				Files: &files.Handler{
					Filesystem: fsops.Host{},
				},
				Apps: &app.Handler{
					Launcher:    launcher,
					Environment: cfg.Launch.Environment,
					Observer:    observer,
				},
			},
			Observer: observer,
		},
		launcher: launcher,
		children: children,
	}
}
