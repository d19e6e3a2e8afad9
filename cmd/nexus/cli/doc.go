// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the nexus CLI.
//
// The central type is [Command]: a named subcommand with optional
// nested [Command.Subcommands], a [pflag.FlagSet] factory, and a Run
// function. [Command.Execute] handles flag parsing, subcommand routing,
// and help output with examples. Unknown subcommands and flags get a
// suggestion when one is within edit distance 3 of a known name.
//
// [ExitError] lets a command choose its exit code after printing its
// own diagnostics; [NewCommandLogger] picks text or JSON logging based
// on whether stderr is a terminal.
package cli
