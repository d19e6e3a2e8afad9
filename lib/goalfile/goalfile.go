// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package goalfile reads goals authored as JSONC documents (JSON with
// comments and trailing commas) for `nexus submit`:
//
//	{
//	    // Dim the panel for the night shift.
//	    "goal": "configure-subsystem",
//	    "subsystem": "brightness",
//	    "value": 20,
//	}
//
// Names are the String forms of the goal package's enums. Reserved
// operations (rename, terminate) parse so that the daemon's rejection
// of them can be exercised end to end.
package goalfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/nexus/lib/goal"
)

// Document is the on-disk form of one goal. Which fields apply depends
// on Goal.
type Document struct {
	Goal string `json:"goal"`

	// get-system-info and configure-subsystem
	Subsystem string `json:"subsystem,omitempty"`

	// get-system-info: bytes the caller sets aside for the reading.
	OutputCapacity uint32 `json:"output_capacity,omitempty"`

	// configure-subsystem
	Value *int64 `json:"value,omitempty"`

	// manage-files and manage-application
	Operation string `json:"operation,omitempty"`
	Path      string `json:"path,omitempty"`

	// manage-files
	Path2 string `json:"path2,omitempty"`
	// Mode is an octal string such as "0644".
	Mode string `json:"mode,omitempty"`

	// manage-application
	Args string `json:"args,omitempty"`
}

// Parse strips JSONC comments and trailing commas from data and builds
// the goal it describes. Unknown fields are rejected.
func Parse(data []byte) (goal.Goal, error) {
	var document Document
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("parsing goal: %w", err)
	}
	return document.Build()
}

// ReadFile reads and parses a JSONC goal file.
func ReadFile(path string) (goal.Goal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}

// Build validates the document and returns its goal. String fields
// that do not fit the wire capacities are errors, never truncated.
func (d *Document) Build() (goal.Goal, error) {
	id, err := lookup(d.Goal, "goal", []goal.ID{
		goal.GetSystemInfo, goal.ConfigureSubsystem, goal.ManageFiles, goal.ManageApplication,
	})
	if err != nil {
		return nil, err
	}

	switch id {
	case goal.GetSystemInfo:
		subsystem, err := goal.ParseSubsystem(d.Subsystem)
		if err != nil {
			return nil, err
		}
		return goal.GetInfoParams{Subsystem: subsystem, OutputCapacity: d.OutputCapacity}, nil

	case goal.ConfigureSubsystem:
		subsystem, err := goal.ParseSubsystem(d.Subsystem)
		if err != nil {
			return nil, err
		}
		if d.Value == nil {
			return nil, fmt.Errorf("configure-subsystem requires \"value\"")
		}
		return goal.ConfigureParams{Subsystem: subsystem, Value: *d.Value}, nil

	case goal.ManageFiles:
		operation, err := lookup(d.Operation, "file operation", []goal.FileOp{
			goal.FileCreate, goal.FileDelete, goal.FileRename,
		})
		if err != nil {
			return nil, err
		}
		params := goal.FileOpParams{Operation: operation}
		if params.Path1, err = goal.NewPath(d.Path); err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}
		if params.Path2, err = goal.NewPath(d.Path2); err != nil {
			return nil, fmt.Errorf("path2: %w", err)
		}
		if d.Mode != "" {
			mode, err := strconv.ParseUint(d.Mode, 8, 32)
			if err != nil {
				return nil, fmt.Errorf("mode %q is not an octal number", d.Mode)
			}
			params.Mode = uint32(mode)
		}
		return params, nil

	default:
		operation, err := lookup(d.Operation, "application operation", []goal.AppOp{
			goal.AppStart, goal.AppTerminate,
		})
		if err != nil {
			return nil, err
		}
		params := goal.AppOpParams{Operation: operation}
		if params.Path, err = goal.NewPath(d.Path); err != nil {
			return nil, fmt.Errorf("path: %w", err)
		}
		if params.Args, err = goal.NewArgs(d.Args); err != nil {
			return nil, fmt.Errorf("args: %w", err)
		}
		return params, nil
	}
}

func lookup[T fmt.Stringer](name, kind string, candidates []T) (T, error) {
	for _, candidate := range candidates {
		if candidate.String() == name {
			return candidate, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s %q", kind, name)
}
