// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the nexus CLI command tree.
//
// Every goal command shares the connection flags (--socket, --config,
// --timeout, --json, --dump-request, --verbose). A goal that the daemon
// rejects prints the daemon's message and exits with the positive
// errno of its status, so scripts can tell EINVAL (22) from EACCES
// (13) without parsing text.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/codec"
	"github.com/bureau-foundation/nexus/lib/config"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/goalclient"
	"github.com/bureau-foundation/nexus/lib/ipc"
	"github.com/bureau-foundation/nexus/lib/status"
)

// Root builds the complete nexus command tree writing to the process's
// stdout and stderr.
func Root() *cli.Command {
	return newRoot(os.Stdout, os.Stderr)
}

func newRoot(stdout, stderr io.Writer) *cli.Command {
	output := &streams{stdout: stdout, stderr: stderr}
	return &cli.Command{
		Name: "nexus",
		Description: `Nexus: submit goals to the privileged nexus-brain daemon.

Each command builds one goal, sends it over the daemon's Unix socket,
and prints the result. The socket path comes from --socket, else from
daemon.socket_path in the config file (--config or $NEXUS_CONFIG),
else the built-in default.`,
		Subcommands: []*cli.Command{
			infoCommand(output),
			configureCommand(output),
			fileCommand(output),
			appCommand(output),
			submitCommand(output),
			statusCommand(output),
			versionCommand(output),
		},
		Examples: []cli.Example{
			{
				Description: "Show the memory summary",
				Command:     "nexus info memory",
			},
			{
				Description: "Set the panel to half brightness",
				Command:     "nexus configure brightness 50",
			},
			{
				Description: "Submit a goal described in a JSONC file",
				Command:     "nexus submit night-shift.jsonc",
			},
		},
	}
}

type streams struct {
	stdout io.Writer
	stderr io.Writer
}

// connection holds the flags shared by every command that talks to the
// daemon.
type connection struct {
	*streams

	socketPath  string
	configPath  string
	timeout     time.Duration
	jsonOutput  bool
	dumpRequest bool
	verbose     bool
}

func newConnection(output *streams) *connection {
	return &connection{streams: output}
}

// flagSet returns a flag set named name with the connection flags
// registered.
func (c *connection) flagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&c.socketPath, "socket", "", "daemon socket path (default: daemon.socket_path from config)")
	flagSet.StringVar(&c.configPath, "config", "", "path to nexus.yaml (default: $NEXUS_CONFIG)")
	flagSet.DurationVar(&c.timeout, "timeout", 30*time.Second, "how long to wait for the daemon")
	flagSet.BoolVar(&c.jsonOutput, "json", false, "output as JSON")
	flagSet.BoolVar(&c.dumpRequest, "dump-request", false, "print the request in CBOR diagnostic notation instead of sending it")
	flagSet.BoolVarP(&c.verbose, "verbose", "v", false, "log connection details to stderr")
	return flagSet
}

func (c *connection) logger() *slog.Logger {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	return cli.NewCommandLogger(level)
}

// resolveSocket picks the daemon socket: the flag, then the config
// file, then the default configuration.
func (c *connection) resolveSocket() (string, error) {
	if c.socketPath != "" {
		return c.socketPath, nil
	}

	var cfg *config.Config
	var err error
	switch {
	case c.configPath != "":
		cfg, err = config.LoadFile(c.configPath)
	case os.Getenv("NEXUS_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return "", fmt.Errorf("loading config: %w", err)
	}
	return cfg.Daemon.SocketPath, nil
}

// client returns a client for the resolved socket and a context
// bounded by --timeout.
func (c *connection) client() (*goalclient.Client, context.Context, context.CancelFunc, error) {
	socketPath, err := c.resolveSocket()
	if err != nil {
		return nil, nil, nil, err
	}
	c.logger().Debug("connecting to daemon", "socket", socketPath, "timeout", c.timeout)
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	return goalclient.New(socketPath), ctx, cancel, nil
}

// submit sends g and returns its successful result. With
// --dump-request it prints the request instead and returns nil. A
// rejected goal prints the daemon's message and returns an
// *cli.ExitError carrying the errno.
func (c *connection) submit(g goal.Goal) (*goalclient.Result, error) {
	request := goalclient.NewRequest(g)
	if c.dumpRequest {
		return nil, c.dump(&request)
	}

	client, ctx, cancel, err := c.client()
	if err != nil {
		return nil, err
	}
	defer cancel()

	result, err := client.SubmitRequest(ctx, &request)
	if err != nil {
		return nil, err
	}
	c.logger().Debug("goal completed", "goal", g.ID().String(), "status", result.Code.String())

	if result.Code != status.OK {
		fmt.Fprintf(c.stderr, "error: %s: %s\n", g.ID(), describeFailure(result))
		return nil, &cli.ExitError{Code: -result.Code.Errno()}
	}
	return result, nil
}

func describeFailure(result *goalclient.Result) string {
	if result.Message == "" {
		return result.Code.String()
	}
	return fmt.Sprintf("%s (%s)", result.Message, result.Code)
}

func (c *connection) dump(request *ipc.Request) error {
	encoded, err := codec.Marshal(request)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	diagnostic, err := codec.Diagnose(encoded)
	if err != nil {
		return fmt.Errorf("rendering request: %w", err)
	}
	_, err = fmt.Fprintln(c.stdout, diagnostic)
	return err
}

// done reports success for goals that produce no output.
func (c *connection) done(g goal.Goal) error {
	if c.jsonOutput {
		return cli.WriteJSON(c.stdout, map[string]string{"goal": g.ID().String(), "status": status.OK.String()})
	}
	fmt.Fprintf(c.stdout, "%s: ok\n", g.ID())
	return nil
}
