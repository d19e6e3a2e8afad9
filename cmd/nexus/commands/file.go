// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/goal"
)

func fileCommand(output *streams) *cli.Command {
	return &cli.Command{
		Name:    "file",
		Summary: "Create or delete files as the daemon",
		Description: `Create or delete files with the daemon's privileges.

Relative paths resolve against the daemon's working directory, not the
caller's; pass absolute paths.`,
		Subcommands: []*cli.Command{
			fileCreateCommand(output),
			fileDeleteCommand(output),
		},
	}
}

func fileCreateCommand(output *streams) *cli.Command {
	conn := newConnection(output)
	var mode string
	return &cli.Command{
		Name:    "create",
		Summary: "Create a file, truncating it if it exists",
		Usage:   "nexus file create PATH [--mode MODE] [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := conn.flagSet("create")
			flagSet.StringVar(&mode, "mode", "0644", "permission bits (octal); bits above 0777 are ignored")
			return flagSet
		},
		Run: func(args []string) error {
			if err := cli.ExactArgs(args, 1, "nexus file create PATH"); err != nil {
				return err
			}
			permissions, err := strconv.ParseUint(mode, 8, 32)
			if err != nil {
				return fmt.Errorf("invalid --mode %q: %w", mode, err)
			}
			path, err := goal.NewPath(args[0])
			if err != nil {
				return err
			}

			params := goal.FileOpParams{Operation: goal.FileCreate, Path1: path, Mode: uint32(permissions)}
			result, err := conn.submit(params)
			if err != nil || result == nil {
				return err
			}
			return conn.done(params)
		},
	}
}

func fileDeleteCommand(output *streams) *cli.Command {
	conn := newConnection(output)
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a file (never a directory)",
		Usage:   "nexus file delete PATH [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("delete") },
		Run: func(args []string) error {
			if err := cli.ExactArgs(args, 1, "nexus file delete PATH"); err != nil {
				return err
			}
			path, err := goal.NewPath(args[0])
			if err != nil {
				return err
			}

			params := goal.FileOpParams{Operation: goal.FileDelete, Path1: path}
			result, err := conn.submit(params)
			if err != nil || result == nil {
				return err
			}
			return conn.done(params)
		},
	}
}
