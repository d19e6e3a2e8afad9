// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package goal

import (
	"fmt"
	"strings"
)

// ID is the envelope discriminant. It selects the parameter shape and
// the handler.
type ID uint32

const (
	Unspecified        ID = 0
	GetSystemInfo      ID = 1
	ConfigureSubsystem ID = 2
	ManageFiles        ID = 3
	ManageApplication  ID = 4
)

func (id ID) String() string {
	switch id {
	case Unspecified:
		return "unspecified"
	case GetSystemInfo:
		return "get-system-info"
	case ConfigureSubsystem:
		return "configure-subsystem"
	case ManageFiles:
		return "manage-files"
	case ManageApplication:
		return "manage-application"
	}
	return fmt.Sprintf("goal(%d)", uint32(id))
}

// Subsystem names the target of GetSystemInfo and ConfigureSubsystem.
type Subsystem uint32

const (
	SubsystemUnspecified Subsystem = 0
	SubsystemKernel      Subsystem = 1
	SubsystemMemory      Subsystem = 2
	SubsystemCPU         Subsystem = 3
	SubsystemProcesses   Subsystem = 4
	SubsystemFilesystem  Subsystem = 5
	SubsystemNetwork     Subsystem = 6
	SubsystemBrightness  Subsystem = 7
)

var subsystemNames = map[Subsystem]string{
	SubsystemUnspecified: "unspecified",
	SubsystemKernel:      "kernel",
	SubsystemMemory:      "memory",
	SubsystemCPU:         "cpu",
	SubsystemProcesses:   "processes",
	SubsystemFilesystem:  "filesystem",
	SubsystemNetwork:     "network",
	SubsystemBrightness:  "brightness",
}

func (s Subsystem) String() string {
	if name, ok := subsystemNames[s]; ok {
		return name
	}
	return fmt.Sprintf("subsystem(%d)", uint32(s))
}

// ParseSubsystem accepts the lower-case names printed by String.
func ParseSubsystem(name string) (Subsystem, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for subsystem, candidate := range subsystemNames {
		if candidate == name && subsystem != SubsystemUnspecified {
			return subsystem, nil
		}
	}
	return SubsystemUnspecified, fmt.Errorf("unknown subsystem %q", name)
}

// FileOp is the ManageFiles operation.
type FileOp uint32

const (
	FileUnspecified FileOp = 0
	FileCreate      FileOp = 1
	FileDelete      FileOp = 2
	// FileRename is reserved; handlers reject it.
	FileRename FileOp = 3
)

func (op FileOp) String() string {
	switch op {
	case FileUnspecified:
		return "unspecified"
	case FileCreate:
		return "create"
	case FileDelete:
		return "delete"
	case FileRename:
		return "rename"
	}
	return fmt.Sprintf("file-op(%d)", uint32(op))
}

// AppOp is the ManageApplication operation.
type AppOp uint32

const (
	AppUnspecified AppOp = 0
	AppStart       AppOp = 1
	// AppTerminate is reserved; handlers reject it.
	AppTerminate AppOp = 2
)

func (op AppOp) String() string {
	switch op {
	case AppUnspecified:
		return "unspecified"
	case AppStart:
		return "start"
	case AppTerminate:
		return "terminate"
	}
	return fmt.Sprintf("app-op(%d)", uint32(op))
}
