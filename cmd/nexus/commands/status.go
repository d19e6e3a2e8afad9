// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/version"
)

type statusReport struct {
	Version    string `json:"version"`
	BinaryHash string `json:"binary_hash,omitempty"`
	Children   int    `json:"children"`
}

func statusCommand(output *streams) *cli.Command {
	conn := newConnection(output)
	return &cli.Command{
		Name:    "status",
		Summary: "Show the daemon's version and launched programs",
		Usage:   "nexus status [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet("status") },
		Run: func(args []string) error {
			if err := cli.ExactArgs(args, 0, "nexus status"); err != nil {
				return err
			}
			client, ctx, cancel, err := conn.client()
			if err != nil {
				return err
			}
			defer cancel()

			response, err := client.Status(ctx)
			if err != nil {
				return err
			}
			if response.Status != 0 {
				return fmt.Errorf("daemon status: %s (%s)", response.Error, status.FromErrno(int(response.Status)))
			}

			report := statusReport{
				Version:    response.Version,
				BinaryHash: response.BinaryHash,
				Children:   response.Children,
			}
			if conn.jsonOutput {
				return cli.WriteJSON(conn.stdout, report)
			}
			fmt.Fprintf(conn.stdout, "version:  %s\n", report.Version)
			if report.BinaryHash != "" {
				fmt.Fprintf(conn.stdout, "blake3:   %s\n", report.BinaryHash)
			}
			fmt.Fprintf(conn.stdout, "programs: %d running\n", report.Children)
			return nil
		},
	}
}

func versionCommand(output *streams) *cli.Command {
	var verbose bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVarP(&verbose, "verbose", "v", false, "also print the binary's path and BLAKE3 digest")
			return flagSet
		},
		Run: func(args []string) error {
			fmt.Fprintf(output.stdout, "nexus %s\n", version.Full())
			if !verbose {
				return nil
			}
			digest, executable, err := version.SelfDigest()
			if err != nil {
				return err
			}
			fmt.Fprintf(output.stdout, "  Binary: %s\n  BLAKE3: %s\n", executable, digest)
			return nil
		},
	}
}
