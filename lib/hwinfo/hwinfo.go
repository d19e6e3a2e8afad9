// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"encoding/binary"
	"fmt"
)

// MemorySummarySize is the encoded size of a MemorySummary.
const MemorySummarySize = 112

// MemorySummary is a sysinfo(2) reading. Memory fields count units of
// MemUnit bytes.
type MemorySummary struct {
	Uptime    int64
	Loads     [3]uint64
	TotalRAM  uint64
	FreeRAM   uint64
	SharedRAM uint64
	BufferRAM uint64
	TotalSwap uint64
	FreeSwap  uint64
	Procs     uint16
	TotalHigh uint64
	FreeHigh  uint64
	MemUnit   uint32
}

// MemorySource produces memory summaries.
type MemorySource interface {
	MemorySummary() (MemorySummary, error)
}

var byteOrder = binary.LittleEndian

// Encode returns the MemorySummarySize-byte record. Padding is zero.
func (m MemorySummary) Encode() []byte {
	record := make([]byte, MemorySummarySize)
	byteOrder.PutUint64(record[0:], uint64(m.Uptime))
	for index, load := range m.Loads {
		byteOrder.PutUint64(record[8+8*index:], load)
	}
	byteOrder.PutUint64(record[32:], m.TotalRAM)
	byteOrder.PutUint64(record[40:], m.FreeRAM)
	byteOrder.PutUint64(record[48:], m.SharedRAM)
	byteOrder.PutUint64(record[56:], m.BufferRAM)
	byteOrder.PutUint64(record[64:], m.TotalSwap)
	byteOrder.PutUint64(record[72:], m.FreeSwap)
	byteOrder.PutUint16(record[80:], m.Procs)
	byteOrder.PutUint64(record[88:], m.TotalHigh)
	byteOrder.PutUint64(record[96:], m.FreeHigh)
	byteOrder.PutUint32(record[104:], m.MemUnit)
	return record
}

// DecodeMemorySummary parses a record produced by Encode.
func DecodeMemorySummary(record []byte) (MemorySummary, error) {
	if len(record) < MemorySummarySize {
		return MemorySummary{}, fmt.Errorf("memory summary is %d bytes, want %d", len(record), MemorySummarySize)
	}
	summary := MemorySummary{
		Uptime:    int64(byteOrder.Uint64(record[0:])),
		TotalRAM:  byteOrder.Uint64(record[32:]),
		FreeRAM:   byteOrder.Uint64(record[40:]),
		SharedRAM: byteOrder.Uint64(record[48:]),
		BufferRAM: byteOrder.Uint64(record[56:]),
		TotalSwap: byteOrder.Uint64(record[64:]),
		FreeSwap:  byteOrder.Uint64(record[72:]),
		Procs:     byteOrder.Uint16(record[80:]),
		TotalHigh: byteOrder.Uint64(record[88:]),
		FreeHigh:  byteOrder.Uint64(record[96:]),
		MemUnit:   byteOrder.Uint32(record[104:]),
	}
	for index := range summary.Loads {
		summary.Loads[index] = byteOrder.Uint64(record[8+8*index:])
	}
	return summary, nil
}

// TotalBytes returns total RAM in bytes.
func (m MemorySummary) TotalBytes() uint64 { return m.TotalRAM * uint64(m.MemUnit) }

// FreeBytes returns free RAM in bytes.
func (m MemorySummary) FreeBytes() uint64 { return m.FreeRAM * uint64(m.MemUnit) }
