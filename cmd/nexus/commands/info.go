// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/nexus/cmd/nexus/cli"
	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/handler/sysinfo"
	"github.com/bureau-foundation/nexus/lib/hwinfo"
)

// loadScale is the fixed-point scale of sysinfo(2) load averages.
const loadScale = 1 << 16

func infoCommand(output *streams) *cli.Command {
	return &cli.Command{
		Name:    "info",
		Summary: "Read a subsystem (memory, processes)",
		Subcommands: []*cli.Command{
			infoSubcommand(output, goal.SubsystemMemory, hwinfo.MemorySummarySize,
				"Show the kernel's memory summary"),
			infoSubcommand(output, goal.SubsystemProcesses, sysinfo.ProcessCountSize,
				"Count live threads across all processes"),
		},
	}
}

func infoSubcommand(output *streams, subsystem goal.Subsystem, capacity int, summary string) *cli.Command {
	conn := newConnection(output)
	name := subsystem.String()
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Usage:   "nexus info " + name + " [flags]",
		Flags:   func() *pflag.FlagSet { return conn.flagSet(name) },
		Run: func(args []string) error {
			if err := cli.ExactArgs(args, 0, "nexus info "+name); err != nil {
				return err
			}
			params := goal.GetInfoParams{Subsystem: subsystem, OutputCapacity: uint32(capacity)}
			result, err := conn.submit(params)
			if err != nil || result == nil {
				return err
			}
			return conn.printInfo(subsystem, result.Output)
		},
	}
}

// printInfo renders the record a GetSystemInfo goal wrote.
func (c *connection) printInfo(subsystem goal.Subsystem, record []byte) error {
	switch subsystem {
	case goal.SubsystemMemory:
		summary, err := hwinfo.DecodeMemorySummary(record)
		if err != nil {
			return err
		}
		return c.printMemory(summary)

	case goal.SubsystemProcesses:
		if len(record) < sysinfo.ProcessCountSize {
			return fmt.Errorf("process count is %d bytes, want %d", len(record), sysinfo.ProcessCountSize)
		}
		count := int64(binary.LittleEndian.Uint64(record))
		if c.jsonOutput {
			return cli.WriteJSON(c.stdout, map[string]int64{"threads": count})
		}
		fmt.Fprintf(c.stdout, "%d\n", count)
		return nil
	}

	if c.jsonOutput {
		return cli.WriteJSON(c.stdout, map[string][]byte{"output": record})
	}
	fmt.Fprintf(c.stdout, "%x\n", record)
	return nil
}

type memoryReport struct {
	UptimeSeconds  int64      `json:"uptime_seconds"`
	Loads          [3]float64 `json:"loads"`
	TotalBytes     uint64     `json:"total_bytes"`
	FreeBytes      uint64     `json:"free_bytes"`
	SharedBytes    uint64     `json:"shared_bytes"`
	BufferBytes    uint64     `json:"buffer_bytes"`
	TotalSwapBytes uint64     `json:"total_swap_bytes"`
	FreeSwapBytes  uint64     `json:"free_swap_bytes"`
	Processes      uint16     `json:"processes"`
}

func (c *connection) printMemory(summary hwinfo.MemorySummary) error {
	unit := uint64(summary.MemUnit)
	report := memoryReport{
		UptimeSeconds:  summary.Uptime,
		TotalBytes:     summary.TotalBytes(),
		FreeBytes:      summary.FreeBytes(),
		SharedBytes:    summary.SharedRAM * unit,
		BufferBytes:    summary.BufferRAM * unit,
		TotalSwapBytes: summary.TotalSwap * unit,
		FreeSwapBytes:  summary.FreeSwap * unit,
		Processes:      summary.Procs,
	}
	for index, load := range summary.Loads {
		report.Loads[index] = float64(load) / loadScale
	}

	if c.jsonOutput {
		return cli.WriteJSON(c.stdout, report)
	}
	fmt.Fprintf(c.stdout, "uptime:    %s\n", time.Duration(report.UptimeSeconds)*time.Second)
	fmt.Fprintf(c.stdout, "load:      %.2f %.2f %.2f\n", report.Loads[0], report.Loads[1], report.Loads[2])
	fmt.Fprintf(c.stdout, "memory:    %s total, %s free, %s shared, %s buffers\n",
		formatBytes(report.TotalBytes), formatBytes(report.FreeBytes),
		formatBytes(report.SharedBytes), formatBytes(report.BufferBytes))
	fmt.Fprintf(c.stdout, "swap:      %s total, %s free\n",
		formatBytes(report.TotalSwapBytes), formatBytes(report.FreeSwapBytes))
	fmt.Fprintf(c.stdout, "processes: %d\n", report.Processes)
	return nil
}

// formatBytes renders n with a binary unit suffix.
func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	divisor, exponent := uint64(unit), 0
	for quotient := n / unit; quotient >= unit; quotient /= unit {
		divisor *= unit
		exponent++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(divisor), "KMGTPE"[exponent])
}
