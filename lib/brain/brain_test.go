// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package brain

import (
	"bytes"
	"context"
	"testing"

	"github.com/bureau-foundation/nexus/lib/dispatch"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/handler/sysinfo"
	"github.com/bureau-foundation/nexus/lib/hwinfo"
	"github.com/bureau-foundation/nexus/lib/ipc"
	"github.com/bureau-foundation/nexus/lib/proctable"
	"github.com/bureau-foundation/nexus/lib/status"
)

const (
	envelopeAddress = 0x1000
	outputAddress   = 0x8000
)

type fixedMemory hwinfo.MemorySummary

func (f fixedMemory) MemorySummary() (hwinfo.MemorySummary, error) {
	return hwinfo.MemorySummary(f), nil
}

func testActions() *Actions {
	return &Actions{
		Dispatcher: &dispatch.Dispatcher{
			Handlers: dispatch.Handlers{
				Info: &sysinfo.Handler{
					Memory: fixedMemory{TotalRAM: 4096, FreeRAM: 1024, MemUnit: 1},
				},
			},
		},
	}
}

func submitRequest(g goal.Goal, outputSize int) *ipc.Request {
	request := &ipc.Request{
		Action:      ipc.ActionSubmit,
		GoalAddress: envelopeAddress,
		Segments:    []ipc.Segment{{Address: envelopeAddress, Data: goal.Encode(g)}},
	}
	if outputSize > 0 {
		request.Segments = append(request.Segments, ipc.Segment{
			Address: outputAddress,
			Data:    make([]byte, outputSize),
		})
	}
	return request
}

func TestSubmitReturnsWrittenSegments(t *testing.T) {
	request := submitRequest(goal.GetInfoParams{
		Subsystem:      goal.SubsystemMemory,
		OutputLocation: outputAddress,
		OutputCapacity: hwinfo.MemorySummarySize,
	}, hwinfo.MemorySummarySize)

	response := testActions().Submit(context.Background(), request)
	if response.Status != 0 {
		t.Fatalf("status = %d (%s), want 0", response.Status, response.Error)
	}
	if len(response.Segments) != 1 {
		t.Fatalf("returned %d segments, want only the output buffer", len(response.Segments))
	}
	segment := response.Segments[0]
	if segment.Address != outputAddress {
		t.Errorf("returned segment at %#x, want %#x", segment.Address, outputAddress)
	}
	want := hwinfo.MemorySummary{TotalRAM: 4096, FreeRAM: 1024, MemUnit: 1}.Encode()
	if !bytes.Equal(segment.Data, want) {
		t.Errorf("output = %x, want %x", segment.Data, want)
	}
}

func TestSubmitFailureCarriesErrnoAndMessage(t *testing.T) {
	request := submitRequest(goal.GetInfoParams{
		Subsystem:      goal.SubsystemMemory,
		OutputLocation: outputAddress,
		OutputCapacity: hwinfo.MemorySummarySize - 1,
	}, hwinfo.MemorySummarySize)

	response := testActions().Submit(context.Background(), request)
	if got := status.FromErrno(int(response.Status)); got != status.InvalidArgument {
		t.Errorf("status = %v, want InvalidArgument", got)
	}
	if response.Error == "" {
		t.Error("failure response has no message")
	}
	if len(response.Segments) != 0 {
		t.Errorf("failed goal returned %d written segments", len(response.Segments))
	}
}

func TestSubmitOverlappingSegments(t *testing.T) {
	request := &ipc.Request{
		Action:      ipc.ActionSubmit,
		GoalAddress: envelopeAddress,
		Segments: []ipc.Segment{
			{Address: envelopeAddress, Data: make([]byte, goal.EnvelopeSize)},
			{Address: envelopeAddress + 8, Data: make([]byte, 8)},
		},
	}
	response := testActions().Submit(context.Background(), request)
	if got := status.FromErrno(int(response.Status)); got != status.InvalidArgument {
		t.Errorf("status = %v (%s), want InvalidArgument", got, response.Error)
	}
}

func TestSubmitTruncatedEnvelope(t *testing.T) {
	request := &ipc.Request{
		Action:      ipc.ActionSubmit,
		GoalAddress: envelopeAddress,
		Segments:    []ipc.Segment{{Address: envelopeAddress, Data: make([]byte, goal.EnvelopeSize-1)}},
	}
	response := testActions().Submit(context.Background(), request)
	if got := status.FromErrno(int(response.Status)); got != status.BadAddress {
		t.Errorf("status = %v (%s), want BadAddress", got, response.Error)
	}
}

func TestStatusReportsChildren(t *testing.T) {
	var children proctable.Table
	children.Add(proctable.Entry{PID: 100, Threads: 1, Path: "/bin/true"})

	actions := &Actions{Children: &children, Version: "1.2.3", BinaryHash: "abc"}
	response := actions.Status(context.Background(), &ipc.Request{Action: ipc.ActionStatus})
	if response.Version != "1.2.3" || response.BinaryHash != "abc" || response.Children != 1 {
		t.Errorf("status response = %+v", response)
	}
}
