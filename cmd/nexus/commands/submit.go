// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/goalfile"
)

func submitCommand(output *streams) *cli.Command {
	conn := newConnection(output)
	return &cli.Command{
		Name:    "submit",
		Summary: "Submit a goal described in a JSONC file",
		Description: `Submit a goal described in a JSONC file.

The file names the goal and its parameters using the same words as the
other commands (comments and trailing commas are allowed):

    {
        "goal": "manage-files",
        "operation": "create",
        "path": "/var/lib/kiosk/ready",
        "mode": "0640",
    }

Reserved operations such as rename are accepted here so the daemon's
rejection of them can be observed.`,
		Usage: "nexus submit FILE [flags]",
		Flags: func() *pflag.FlagSet { return conn.flagSet("submit") },
		Run: func(args []string) error {
			if err := cli.ExactArgs(args, 1, "nexus submit FILE"); err != nil {
				return err
			}
			g, err := goalfile.ReadFile(args[0])
			if err != nil {
				return err
			}

			result, err := conn.submit(g)
			if err != nil || result == nil {
				return err
			}
			if info, ok := g.(goal.GetInfoParams); ok {
				return conn.printInfo(info.Subsystem, result.Output)
			}
			return conn.done(g)
		},
	}
}
