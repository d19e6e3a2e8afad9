// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/goal"
)

func appCommand(output *streams) *cli.Command {
	return &cli.Command{
		Name:    "app",
		Summary: "Start programs as the daemon",
		Subcommands: []*cli.Command{
			appStartCommand(output),
		},
	}
}

func appStartCommand(output *streams) *cli.Command {
	conn := newConnection(output)
	return &cli.Command{
		Name:    "start",
		Summary: "Start a program and return once it has exec'd",
		Description: `Start a program and return once it has exec'd.

PATH is executed directly, without a PATH search. ARGS, if given, is
passed as the program's single argument exactly as written: it is not
split on whitespace. The program runs in its own session with a fixed
environment and outlives this command.`,
		Usage: "nexus app start PATH [ARGS] [flags]",
		Flags: func() *pflag.FlagSet { return conn.flagSet("start") },
		Examples: []cli.Example{
			{Description: "Open a log viewer on one file", Command: "nexus app start /usr/bin/logview '/var/log/messages'"},
		},
		Run: func(args []string) error {
			if len(args) != 1 && len(args) != 2 {
				return fmt.Errorf("expected 1 or 2 arguments, got %d\n\nUsage: nexus app start PATH [ARGS]", len(args))
			}
			path, err := goal.NewPath(args[0])
			if err != nil {
				return err
			}
			params := goal.AppOpParams{Operation: goal.AppStart, Path: path}
			if len(args) == 2 {
				if params.Args, err = goal.NewArgs(args[1]); err != nil {
					return err
				}
			}

			result, err := conn.submit(params)
			if err != nil || result == nil {
				return err
			}
			return conn.done(params)
		},
	}
}
