// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Host reads the running kernel's memory state via sysinfo(2).
type Host struct{}

func (Host) MemorySummary() (MemorySummary, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return MemorySummary{}, fmt.Errorf("sysinfo: %w", err)
	}

	summary := MemorySummary{
		Uptime:    int64(info.Uptime),
		TotalRAM:  uint64(info.Totalram),
		FreeRAM:   uint64(info.Freeram),
		SharedRAM: uint64(info.Sharedram),
		BufferRAM: uint64(info.Bufferram),
		TotalSwap: uint64(info.Totalswap),
		FreeSwap:  uint64(info.Freeswap),
		Procs:     info.Procs,
		TotalHigh: uint64(info.Totalhigh),
		FreeHigh:  uint64(info.Freehigh),
		MemUnit:   info.Unit,
	}
	for index := range summary.Loads {
		summary.Loads[index] = uint64(info.Loads[index])
	}
	return summary, nil
}
