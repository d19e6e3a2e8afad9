// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package goal

// Goal is one validated request. The parameter structs in this package
// are the only implementations; a type switch over them is the complete
// set of shapes.
type Goal interface {
	// ID returns the discriminant that selects this shape.
	ID() ID

	isGoal()
}

// GetInfoParams asks for a subsystem reading. OutputLocation is an
// address in the caller's memory; the daemon writes to it only through
// a checked copy-out, and only after OutputCapacity has been compared
// against the size of the record.
type GetInfoParams struct {
	Subsystem      Subsystem
	OutputLocation uint64
	OutputCapacity uint32
}

// ConfigureParams sets a subsystem value.
type ConfigureParams struct {
	Subsystem Subsystem
	Value     int64
}

// FileOpParams creates or deletes Path1. Path2 is reserved for rename.
type FileOpParams struct {
	Operation FileOp
	Path1     Path
	Path2     Path
	// Mode holds permission bits for create; bits above 0o777 are
	// ignored.
	Mode uint32
}

// AppOpParams starts the program at Path. Args, when non-empty, becomes
// the program's single argument.
type AppOpParams struct {
	Operation AppOp
	Path      Path
	Args      Args
}

func (GetInfoParams) ID() ID   { return GetSystemInfo }
func (ConfigureParams) ID() ID { return ConfigureSubsystem }
func (FileOpParams) ID() ID    { return ManageFiles }
func (AppOpParams) ID() ID     { return ManageApplication }

func (GetInfoParams) isGoal()   {}
func (ConfigureParams) isGoal() {}
func (FileOpParams) isGoal()    {}
func (AppOpParams) isGoal()     {}
