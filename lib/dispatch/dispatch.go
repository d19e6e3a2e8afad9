// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"

	"github.com/bureau-foundation/nexus/lib/binhash"
	"github.com/bureau-foundation/nexus/lib/clock"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/trusted"
	"github.com/bureau-foundation/nexus/lib/usermem"
)

// SystemInfo handles GetSystemInfo goals. It writes its result into
// caller memory at params.OutputLocation.
type SystemInfo interface {
	GetInfo(ctx context.Context, memory usermem.Memory, params goal.GetInfoParams) error
}

// Configurator handles ConfigureSubsystem goals.
type Configurator interface {
	Configure(ctx context.Context, params goal.ConfigureParams) error
}

// FileManager handles ManageFiles goals.
type FileManager interface {
	ManageFiles(ctx context.Context, params goal.FileOpParams) error
}

// ApplicationManager handles ManageApplication goals.
type ApplicationManager interface {
	ManageApplication(ctx context.Context, params goal.AppOpParams) error
}

// Handlers is the closed set of goal handlers, one per shape.
type Handlers struct {
	Info      SystemInfo
	Configure Configurator
	Files     FileManager
	Apps      ApplicationManager
}

// Dispatcher validates and routes goals. A Dispatcher holds no
// per-call state and is safe for concurrent use: every Submit owns its
// own trusted buffer.
type Dispatcher struct {
	Handlers Handlers

	// Observer receives operability events. Nil means NopObserver.
	Observer Observer

	// Clock times each goal. Nil means clock.Real().
	Clock clock.Clock

	// Allocate returns the trusted buffer for one envelope. Nil means
	// trusted.New.
	Allocate func(size int) (*trusted.Buffer, error)
}

// Submit handles the goal envelope at address in memory and returns
// its status.
func (d *Dispatcher) Submit(ctx context.Context, memory usermem.Memory, address uint64) status.Code {
	return status.FromError(d.Execute(ctx, memory, address))
}

// Execute is Submit returning the error that ended the goal instead of
// its code. The transport uses it to give the caller a message along
// with the status.
func (d *Dispatcher) Execute(ctx context.Context, memory usermem.Memory, address uint64) error {
	clk := d.Clock
	if clk == nil {
		clk = clock.Real()
	}
	started := clk.Now()

	id, err := d.submit(ctx, memory, address)
	d.observer().GoalCompleted(id, status.FromError(err), err, clk.Now().Sub(started))
	return err
}

// submit returns the goal's discriminant (Unspecified if it was never
// read) and the error, if any, that ends the call.
func (d *Dispatcher) submit(ctx context.Context, memory usermem.Memory, address uint64) (goal.ID, error) {
	allocate := d.Allocate
	if allocate == nil {
		allocate = trusted.New
	}
	buffer, err := allocate(goal.EnvelopeSize)
	if err != nil {
		return goal.Unspecified, status.Errorf(status.OutOfMemory, "allocating goal buffer: %w", err)
	}
	defer buffer.Close()

	if err := buffer.ReadFrom(memory, address); err != nil {
		return goal.Unspecified, err
	}

	envelope, err := goal.DecodeEnvelope(buffer.Bytes())
	if err != nil {
		return goal.Unspecified, status.Errorf(status.InvalidArgument, "decoding goal: %w", err)
	}
	envelope.Terminate()
	d.observer().GoalReceived(envelope.ID, binhash.Sum(buffer.Bytes()))

	selected, err := envelope.Goal()
	if err != nil {
		return envelope.ID, err
	}
	return envelope.ID, d.route(ctx, memory, selected)
}

func (d *Dispatcher) route(ctx context.Context, memory usermem.Memory, selected goal.Goal) error {
	switch params := selected.(type) {
	case goal.GetInfoParams:
		if d.Handlers.Info == nil {
			return missingHandler(params)
		}
		return d.Handlers.Info.GetInfo(ctx, memory, params)

	case goal.ConfigureParams:
		if d.Handlers.Configure == nil {
			return missingHandler(params)
		}
		return d.Handlers.Configure.Configure(ctx, params)

	case goal.FileOpParams:
		if d.Handlers.Files == nil {
			return missingHandler(params)
		}
		return d.Handlers.Files.ManageFiles(ctx, params)

	case goal.AppOpParams:
		if d.Handlers.Apps == nil {
			return missingHandler(params)
		}
		return d.Handlers.Apps.ManageApplication(ctx, params)

	default:
		return status.Errorf(status.InvalidArgument, "unroutable goal %T", selected)
	}
}

func missingHandler(selected goal.Goal) error {
	return status.Errorf(status.NotSupported, "no handler configured for %s", selected.ID())
}

func (d *Dispatcher) observer() Observer {
	if d.Observer == nil {
		return NopObserver{}
	}
	return d.Observer
}
