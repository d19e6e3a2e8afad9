// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package configure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/sysfs"
)

type recordingEndpoint struct {
	writes [][]byte
	err    error
}

func (r *recordingEndpoint) Write(value []byte) error {
	r.writes = append(r.writes, append([]byte(nil), value...))
	return r.err
}

// brightnessFile creates an existing, empty brightness attribute.
func brightnessFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brightness")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestBrightnessWritesDecimalValue(t *testing.T) {
	path := brightnessFile(t)
	handler := &Handler{Brightness: sysfs.File{Path: path}}

	err := handler.Configure(context.Background(), goal.ConfigureParams{Subsystem: goal.SubsystemBrightness, Value: 50})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "50\n" {
		t.Errorf("endpoint contains %q, want %q", content, "50\n")
	}
}

func TestBrightnessRange(t *testing.T) {
	tests := []struct {
		value int64
		want  status.Code
		write string
	}{
		{-1, status.InvalidArgument, ""},
		{101, status.InvalidArgument, ""},
		{-9223372036854775808, status.InvalidArgument, ""},
		{9223372036854775807, status.InvalidArgument, ""},
		{0, status.OK, "0\n"},
		{100, status.OK, "100\n"},
	}
	for _, test := range tests {
		endpoint := &recordingEndpoint{}
		handler := &Handler{Brightness: endpoint}

		err := handler.Configure(context.Background(), goal.ConfigureParams{Subsystem: goal.SubsystemBrightness, Value: test.value})
		if got := status.FromError(err); got != test.want {
			t.Errorf("Configure(%d) = %v (%v), want %v", test.value, got, err, test.want)
		}
		if test.write == "" {
			if len(endpoint.writes) != 0 {
				t.Errorf("Configure(%d) wrote %q to the endpoint", test.value, endpoint.writes)
			}
			continue
		}
		if len(endpoint.writes) != 1 || string(endpoint.writes[0]) != test.write {
			t.Errorf("Configure(%d) wrote %q, want %q", test.value, endpoint.writes, test.write)
		}
	}
}

func TestOtherSubsystemsNotSupported(t *testing.T) {
	for _, subsystem := range []goal.Subsystem{
		goal.SubsystemUnspecified,
		goal.SubsystemKernel,
		goal.SubsystemMemory,
		goal.SubsystemCPU,
		goal.SubsystemProcesses,
		goal.SubsystemFilesystem,
		goal.SubsystemNetwork,
		goal.Subsystem(1000),
	} {
		endpoint := &recordingEndpoint{}
		handler := &Handler{Brightness: endpoint}

		err := handler.Configure(context.Background(), goal.ConfigureParams{Subsystem: subsystem, Value: 50})
		if status.FromError(err) != status.NotSupported {
			t.Errorf("Configure(%s) error = %v, want NotSupported", subsystem, err)
		}
		if len(endpoint.writes) != 0 {
			t.Errorf("Configure(%s) touched the brightness endpoint", subsystem)
		}
	}
}

func TestEndpointFailuresSurfaceResourceErrors(t *testing.T) {
	directory := t.TempDir()
	tests := []struct {
		name string
		path string
		want status.Code
	}{
		{"missing endpoint", filepath.Join(directory, "absent"), status.NotFound},
		{"directory endpoint", directory, status.IsADirectory},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			handler := &Handler{Brightness: sysfs.File{Path: test.path}}
			err := handler.Configure(context.Background(), goal.ConfigureParams{Subsystem: goal.SubsystemBrightness, Value: 10})
			if got := status.FromError(err); got != test.want {
				t.Errorf("Configure error = %v (%v), want %v", err, got, test.want)
			}
		})
	}
}

func TestWriteFailureIsIOError(t *testing.T) {
	endpoint := &recordingEndpoint{err: status.New(status.IOError, "short write")}
	handler := &Handler{Brightness: endpoint}

	err := handler.Configure(context.Background(), goal.ConfigureParams{Subsystem: goal.SubsystemBrightness, Value: 10})
	if status.FromError(err) != status.IOError {
		t.Errorf("Configure error = %v, want IOError", err)
	}
}

func TestFormatValue(t *testing.T) {
	if got := string(FormatValue(7)); got != "7\n" {
		t.Errorf("FormatValue(7) = %q", got)
	}
}
