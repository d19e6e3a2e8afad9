// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Nexus is the operator CLI for nexus-brain. It builds goals from
// flags or JSONC files and submits them over the daemon's socket.
package main

import (
	"fmt"
	"os"

	"github.com/bureau-foundation/nexus/cmd/nexus/commands"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		// Rejected goals have already printed the daemon's message and
		// exit with the goal's errno.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
