// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"log/slog"
	"time"

	"github.com/bureau-foundation/nexus/lib/binhash"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/status"
)

// Observer receives operability events from the dispatcher, the
// application handler, and the launcher's reaper. Implementations must
// be safe for concurrent use and must not block: events are delivered
// on the goal's own goroutine.
type Observer interface {
	// GoalReceived is called once the envelope is in trusted memory.
	// fingerprint is the BLAKE3 digest of the envelope as copied in.
	GoalReceived(id goal.ID, fingerprint binhash.Digest)

	// GoalCompleted is called exactly once per Submit. err is nil when
	// code is status.OK.
	GoalCompleted(id goal.ID, code status.Code, err error, elapsed time.Duration)

	// LaunchStarted is called when a program has exec'd.
	LaunchStarted(path string)

	// LaunchFailed is called when a program could not be started. The
	// error is also returned to the caller.
	LaunchFailed(path string, err error)

	// ProgramExited is called when a launched program is reaped.
	ProgramExited(pid int, path string, err error)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) GoalReceived(goal.ID, binhash.Digest)                     {}
func (NopObserver) GoalCompleted(goal.ID, status.Code, error, time.Duration) {}
func (NopObserver) LaunchStarted(string)                                     {}
func (NopObserver) LaunchFailed(string, error)                               {}
func (NopObserver) ProgramExited(int, string, error)                         {}

// LogObserver writes events to a structured logger. Successful goals
// log at debug so a busy daemon's info stream shows only failures and
// launches.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer that logs to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) GoalReceived(id goal.ID, fingerprint binhash.Digest) {
	o.logger.Debug("goal received", "goal", id.String(), "fingerprint", fingerprint.Short())
}

func (o *LogObserver) GoalCompleted(id goal.ID, code status.Code, err error, elapsed time.Duration) {
	if code == status.OK {
		o.logger.Debug("goal completed", "goal", id.String(), "elapsed", elapsed)
		return
	}
	o.logger.Warn("goal failed",
		"goal", id.String(),
		"status", code.String(),
		"errno", code.Errno(),
		"error", err,
		"elapsed", elapsed,
	)
}

func (o *LogObserver) LaunchStarted(path string) {
	o.logger.Info("program launched", "path", path)
}

func (o *LogObserver) LaunchFailed(path string, err error) {
	o.logger.Error("program launch failed", "path", path, "error", err)
}

func (o *LogObserver) ProgramExited(pid int, path string, err error) {
	if err != nil {
		o.logger.Info("launched program exited", "pid", pid, "path", path, "error", err)
		return
	}
	o.logger.Debug("launched program exited", "pid", pid, "path", path)
}
