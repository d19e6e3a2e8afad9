// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package goalfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/nexus/lib/goal"
)

func TestParseEachGoal(t *testing.T) {
	tests := []struct {
		name     string
		document string
		check    func(t *testing.T, parsed goal.Goal)
	}{
		{
			name: "memory info",
			document: `{
				// Ask for the memory summary.
				"goal": "get-system-info",
				"subsystem": "memory",
				"output_capacity": 112,
			}`,
			check: func(t *testing.T, parsed goal.Goal) {
				params := parsed.(goal.GetInfoParams)
				if params.Subsystem != goal.SubsystemMemory || params.OutputCapacity != 112 {
					t.Errorf("got %+v", params)
				}
			},
		},
		{
			name:     "brightness",
			document: `{"goal": "configure-subsystem", "subsystem": "brightness", "value": 0}`,
			check: func(t *testing.T, parsed goal.Goal) {
				params := parsed.(goal.ConfigureParams)
				if params.Subsystem != goal.SubsystemBrightness || params.Value != 0 {
					t.Errorf("got %+v", params)
				}
			},
		},
		{
			name: "file create",
			document: `{
				"goal": "manage-files",
				"operation": "create",
				"path": "/tmp/report", /* created empty */
				"mode": "0640",
			}`,
			check: func(t *testing.T, parsed goal.Goal) {
				params := parsed.(goal.FileOpParams)
				if params.Operation != goal.FileCreate || params.Path1.String() != "/tmp/report" || params.Mode != 0o640 {
					t.Errorf("got operation %s path %q mode %o", params.Operation, params.Path1, params.Mode)
				}
			},
		},
		{
			name:     "reserved rename",
			document: `{"goal": "manage-files", "operation": "rename", "path": "/a", "path2": "/b"}`,
			check: func(t *testing.T, parsed goal.Goal) {
				params := parsed.(goal.FileOpParams)
				if params.Operation != goal.FileRename || params.Path2.String() != "/b" {
					t.Errorf("got %s %q", params.Operation, params.Path2)
				}
			},
		},
		{
			name:     "app start",
			document: `{"goal": "manage-application", "operation": "start", "path": "/usr/bin/env", "args": "-i FOO=bar"}`,
			check: func(t *testing.T, parsed goal.Goal) {
				params := parsed.(goal.AppOpParams)
				if params.Operation != goal.AppStart || params.Path.String() != "/usr/bin/env" || params.Args.String() != "-i FOO=bar" {
					t.Errorf("got %s %q %q", params.Operation, params.Path, params.Args)
				}
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, err := Parse([]byte(test.document))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			test.check(t, parsed)
		})
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     string
	}{
		{"unknown goal", `{"goal": "reboot"}`, "unknown goal"},
		{"unspecified goal", `{"goal": "unspecified"}`, "unknown goal"},
		{"unknown field", `{"goal": "get-system-info", "subsystem": "memory", "colour": 1}`, "unknown field"},
		{"unknown subsystem", `{"goal": "get-system-info", "subsystem": "gpu"}`, "unknown subsystem"},
		{"missing value", `{"goal": "configure-subsystem", "subsystem": "brightness"}`, "value"},
		{"unknown file operation", `{"goal": "manage-files", "operation": "chmod", "path": "/x"}`, "unknown file operation"},
		{"bad mode", `{"goal": "manage-files", "operation": "create", "path": "/x", "mode": "rw-r--r--"}`, "octal"},
		{"path too long", `{"goal": "manage-files", "operation": "delete", "path": "` + strings.Repeat("p", goal.PathCapacity) + `"}`, "capacity"},
		{"args too long", `{"goal": "manage-application", "operation": "start", "path": "/x", "args": "` + strings.Repeat("a", goal.ArgsCapacity) + `"}`, "capacity"},
		{"not json", `goal = brightness`, "parsing goal"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.document))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("Parse error %q does not mention %q", err, test.want)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processes.jsonc")
	document := "// count threads\n{\"goal\": \"get-system-info\", \"subsystem\": \"processes\", \"output_capacity\": 8}\n"
	if err := os.WriteFile(path, []byte(document), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	parsed, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if params := parsed.(goal.GetInfoParams); params.Subsystem != goal.SubsystemProcesses {
		t.Errorf("subsystem = %s, want processes", params.Subsystem)
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.jsonc")); err == nil {
		t.Error("ReadFile of a missing file succeeded")
	}
}
