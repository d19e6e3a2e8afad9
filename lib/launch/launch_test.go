// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package launch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bureau-foundation/nexus/lib/proctable"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/testutil"
)

// writeRecorderScript writes a shell script that records its argument
// count, arguments, and environment into directory.
func writeRecorderScript(t *testing.T, directory string) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	script := filepath.Join(directory, "record")
	content := "#!/bin/sh\n" +
		"printf '%s\\n' \"$#\" \"$@\" > " + filepath.Join(directory, "argv") + "\n" +
		"env > " + filepath.Join(directory, "env") + "\n"
	if err := os.WriteFile(script, []byte(content), 0755); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return script
}

func TestLaunchPassesArgvAndEnvironment(t *testing.T) {
	directory := t.TempDir()
	script := writeRecorderScript(t, directory)

	exits := make(chan error, 1)
	launcher := &Exec{OnExit: func(pid int, path string, err error) { exits <- err }}
	err := launcher.Launch(context.Background(), []string{script, "one blob with spaces"}, DefaultEnvironment)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if exitErr := testutil.RequireReceive(t, exits, 10*time.Second, "waiting for child exit"); exitErr != nil {
		t.Fatalf("child exited with %v", exitErr)
	}

	argv, err := os.ReadFile(filepath.Join(directory, "argv"))
	if err != nil {
		t.Fatalf("reading argv: %v", err)
	}
	if got, want := string(argv), "1\none blob with spaces\n"; got != want {
		t.Errorf("recorded argv = %q, want %q", got, want)
	}

	environment, err := os.ReadFile(filepath.Join(directory, "env"))
	if err != nil {
		t.Fatalf("reading env: %v", err)
	}
	for _, variable := range DefaultEnvironment {
		if !strings.Contains(string(environment), variable+"\n") {
			t.Errorf("child environment missing %q", variable)
		}
	}
}

func TestLaunchTracksChildrenUntilReaped(t *testing.T) {
	directory := t.TempDir()
	script := writeRecorderScript(t, directory)

	var children proctable.Table
	var mu sync.Mutex
	var reaped []int
	launcher := &Exec{
		Children: &children,
		OnExit: func(pid int, path string, err error) {
			mu.Lock()
			reaped = append(reaped, pid)
			mu.Unlock()
		},
	}
	for range 3 {
		if err := launcher.Launch(context.Background(), []string{script}, nil); err != nil {
			t.Fatalf("Launch: %v", err)
		}
	}
	launcher.Wait()

	if children.Len() != 0 {
		t.Errorf("%d children still tracked after Wait", children.Len())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(reaped) != 3 {
		t.Errorf("reaped %d children, want 3", len(reaped))
	}
}

func TestLaunchFailures(t *testing.T) {
	directory := t.TempDir()
	notExecutable := filepath.Join(directory, "plain")
	if err := os.WriteFile(notExecutable, []byte("#!/bin/sh\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name string
		argv []string
		want status.Code
	}{
		{"empty argv", nil, status.InvalidArgument},
		{"empty path", []string{""}, status.InvalidArgument},
		{"missing program", []string{filepath.Join(directory, "absent")}, status.NotFound},
		{"not executable", []string{notExecutable}, status.PermissionDenied},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			launcher := &Exec{}
			err := launcher.Launch(context.Background(), test.argv, DefaultEnvironment)
			if got := status.FromError(err); got != test.want {
				t.Errorf("Launch error = %v (%v), want %v", err, got, test.want)
			}
		})
	}
}

func TestLaunchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	launcher := &Exec{}
	if err := launcher.Launch(ctx, []string{"/bin/true"}, nil); err == nil {
		t.Error("Launch with a cancelled context succeeded")
	}
}
