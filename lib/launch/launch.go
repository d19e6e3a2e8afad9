// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package launch starts external programs on behalf of the application
// handler.
//
// [Exec.Launch] returns once the child has exec'd (or failed to), not
// when it exits: os/exec's Start reports exec failures through a
// close-on-exec pipe, which gives exactly the wait-for-exec contract.
// The child is then reaped by a background goroutine so it never
// lingers as a zombie. Live children are tracked in a
// [proctable.Table] until reaped.
package launch

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/bureau-foundation/nexus/lib/proctable"
	"github.com/bureau-foundation/nexus/lib/status"
)

// DefaultEnvironment is the fixed environment given to launched
// programs.
var DefaultEnvironment = []string{
	"HOME=/",
	"TERM=linux",
	"PATH=/sbin:/bin:/usr/sbin:/usr/bin",
}

// Launcher starts a program and returns once it has exec'd.
type Launcher interface {
	Launch(ctx context.Context, argv []string, environment []string) error
}

// Exec launches programs with os/exec. The zero value is usable.
type Exec struct {
	// Children, if set, holds an entry for every launched process until
	// it is reaped.
	Children *proctable.Table

	// OnExit, if set, is called from the reaper goroutine with the
	// child's wait result.
	OnExit func(pid int, path string, err error)

	reapers sync.WaitGroup
}

// Launch executes argv[0] directly (no PATH search) with argv as its
// arguments and environment as its entire environment. The child gets
// its own session and /dev/null for stdio. Cancelling ctx after Launch
// returns does not affect the child.
func (e *Exec) Launch(ctx context.Context, argv []string, environment []string) error {
	if len(argv) == 0 || argv[0] == "" {
		return status.New(status.InvalidArgument, "launch: empty program path")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	command := &exec.Cmd{
		Path:        argv[0],
		Args:        argv,
		Env:         environment,
		SysProcAttr: &syscall.SysProcAttr{Setsid: true},
	}
	if err := command.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", argv[0], err)
	}

	pid := command.Process.Pid
	if e.Children != nil {
		e.Children.Add(proctable.Entry{PID: pid, Threads: 1, Path: argv[0]})
	}

	e.reapers.Add(1)
	go func() {
		defer e.reapers.Done()
		waitErr := command.Wait()
		if e.Children != nil {
			e.Children.Remove(pid)
		}
		if e.OnExit != nil {
			e.OnExit(pid, argv[0], waitErr)
		}
	}()
	return nil
}

// Wait blocks until every launched child has been reaped. The daemon
// never calls it, since launched programs outlive it; it exists so tests
// can observe OnExit deterministically.
func (e *Exec) Wait() {
	e.reapers.Wait()
}
