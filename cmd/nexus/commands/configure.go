// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/handler/configure"
)

func configureCommand(output *streams) *cli.Command {
	conn := newConnection(output)
	return &cli.Command{
		Name:    "configure",
		Summary: "Set a subsystem value",
		Description: fmt.Sprintf(`Set a subsystem value.

The only configurable subsystem is brightness, which takes a value from
%d to %d. The daemon validates the range; out-of-range values exit
with EINVAL.`, configure.MinBrightness, configure.MaxBrightness),
		Usage: "nexus configure SUBSYSTEM VALUE [flags]",
		Flags: func() *pflag.FlagSet { return conn.flagSet("configure") },
		Examples: []cli.Example{
			{Description: "Dim the panel", Command: "nexus configure brightness 20"},
		},
		Run: func(args []string) error {
			if err := cli.ExactArgs(args, 2, "nexus configure SUBSYSTEM VALUE"); err != nil {
				return err
			}
			subsystem, err := goal.ParseSubsystem(args[0])
			if err != nil {
				return err
			}
			value, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			params := goal.ConfigureParams{Subsystem: subsystem, Value: value}
			result, err := conn.submit(params)
			if err != nil || result == nil {
				return err
			}
			return conn.done(params)
		},
	}
}
