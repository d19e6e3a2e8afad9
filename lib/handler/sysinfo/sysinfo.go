// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sysinfo handles GetSystemInfo goals.
//
// Every reading is written to caller memory with a single checked
// copy-out, after the declared output capacity has been compared with
// the record size. A failing collaborator or a short capacity means
// nothing is written.
package sysinfo

import (
	"context"
	"encoding/binary"

	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/hwinfo"
	"github.com/bureau-foundation/nexus/lib/proctable"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/usermem"
)

// ProcessCountSize is the size of the process count record: one
// little-endian signed 64-bit integer.
const ProcessCountSize = 8

// Handler answers memory and process queries.
type Handler struct {
	Memory    hwinfo.MemorySource
	Processes proctable.Counter
}

func (h *Handler) GetInfo(ctx context.Context, memory usermem.Memory, params goal.GetInfoParams) error {
	switch params.Subsystem {
	case goal.SubsystemMemory:
		return h.memorySummary(memory, params)
	case goal.SubsystemProcesses:
		return h.processCount(ctx, memory, params)
	}
	return status.Errorf(status.NotSupported, "get info: subsystem %s not supported", params.Subsystem)
}

func (h *Handler) memorySummary(memory usermem.Memory, params goal.GetInfoParams) error {
	if err := checkCapacity(params, hwinfo.MemorySummarySize); err != nil {
		return err
	}
	summary, err := h.Memory.MemorySummary()
	if err != nil {
		return err
	}
	return memory.CopyOut(params.OutputLocation, summary.Encode())
}

func (h *Handler) processCount(ctx context.Context, memory usermem.Memory, params goal.GetInfoParams) error {
	if err := checkCapacity(params, ProcessCountSize); err != nil {
		return err
	}
	count, err := h.Processes.CountThreads(ctx)
	if err != nil {
		return err
	}
	record := make([]byte, ProcessCountSize)
	binary.LittleEndian.PutUint64(record, uint64(count))
	return memory.CopyOut(params.OutputLocation, record)
}

func checkCapacity(params goal.GetInfoParams, required int) error {
	if uint64(params.OutputCapacity) < uint64(required) {
		return status.Errorf(status.InvalidArgument,
			"get info %s: output capacity %d is smaller than the %d-byte record",
			params.Subsystem, params.OutputCapacity, required)
	}
	return nil
}
