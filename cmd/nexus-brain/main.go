// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Nexus-brain is the privileged half of Nexus. It owns the system
// resources that goals act on (the backlight control file, the process
// table, the filesystem, program launch) and serves goals submitted by
// unprivileged callers over a Unix socket.
//
// On startup:
//  1. Loads configuration from --config or NEXUS_CONFIG.
//  2. Builds the four goal handlers over host collaborators.
//  3. Listens on daemon.socket_path with daemon.socket_mode.
//  4. Serves one goal per connection until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/lib/brain"
	"github.com/bureau-foundation/nexus/lib/config"
	"github.com/bureau-foundation/nexus/lib/dispatch"
	"github.com/bureau-foundation/nexus/lib/process"
	"github.com/bureau-foundation/nexus/lib/service"
	"github.com/bureau-foundation/nexus/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)

	flags := pflag.NewFlagSet("nexus-brain", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "path to nexus.yaml (default: $NEXUS_CONFIG)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showVersion {
		fmt.Printf("nexus-brain %s\n", version.Info())
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Validate has already checked these conversions.
	level, _ := cfg.LogLevel()
	socketMode, _ := cfg.SocketMode()
	requestTimeout, _ := cfg.RequestTimeout()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	digest, executable, err := version.SelfDigest()
	if err != nil {
		// Status reports an empty hash; serving goals does not depend on it.
		logger.Warn("hashing own binary failed", "error", err)
	}
	var binaryHash string
	if err == nil {
		binaryHash = digest.String()
	}

	logger.Info("starting nexus-brain",
		"version", version.Info(),
		"environment", cfg.Environment,
		"binary", executable,
		"binary_hash", binaryHash,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	observer := dispatch.NewLogObserver(logger)
	daemon := newDaemon(cfg, observer)

	server := service.NewSocketServer(cfg.Daemon.SocketPath, socketMode, requestTimeout, logger)
	actions := &brain.Actions{
		Dispatcher: daemon.dispatcher,
		Children:   daemon.children,
		Version:    version.Short(),
		BinaryHash: binaryHash,
	}
	actions.Register(server)

	if err := server.Serve(ctx); err != nil {
		return err
	}

	// Launched programs run in their own sessions and outlive the daemon.
	logger.Info("shutdown complete", "unreaped_programs", daemon.children.Len())
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
