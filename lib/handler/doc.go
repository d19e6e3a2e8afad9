// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package handler groups the four goal handlers. Each subpackage
// implements one of the dispatch handler interfaces, validates its own
// parameters before touching anything, and reaches the host only
// through an injected collaborator:
//
//   - sysinfo: memory summary and process count, via hwinfo and
//     proctable
//   - configure: backlight brightness, via sysfs
//   - files: create and delete, via fsops
//   - app: program start, via launch
package handler
