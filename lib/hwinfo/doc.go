// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hwinfo reads host memory state for the system-info handler.
//
// The reading is a [MemorySummary], the same fields sysinfo(2) reports,
// and it crosses the boundary as a fixed 112-byte little-endian record
// laid out like 64-bit struct sysinfo ([MemorySummarySize],
// [MemorySummary.Encode]). Clients decode it with
// [DecodeMemorySummary].
//
// [Host] is the production source. Handlers depend on the
// [MemorySource] interface so tests can substitute fixed readings.
package hwinfo
