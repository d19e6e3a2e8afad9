// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package configure handles ConfigureSubsystem goals. Brightness is
// the only configurable subsystem.
package configure

import (
	"context"
	"strconv"

	"github.com/bureau-foundation/nexus/lib/goal"
	"github.com/bureau-foundation/nexus/lib/status"
	"github.com/bureau-foundation/nexus/lib/sysfs"
)

// Brightness bounds, in percent.
const (
	MinBrightness = 0
	MaxBrightness = 100
)

// Handler writes subsystem values to their endpoints.
type Handler struct {
	// Brightness is the backlight control endpoint.
	Brightness sysfs.Endpoint
}

func (h *Handler) Configure(ctx context.Context, params goal.ConfigureParams) error {
	if params.Subsystem != goal.SubsystemBrightness {
		return status.Errorf(status.NotSupported, "configure: subsystem %s not supported", params.Subsystem)
	}
	if params.Value < MinBrightness || params.Value > MaxBrightness {
		return status.Errorf(status.InvalidArgument,
			"configure brightness: %d outside [%d, %d]", params.Value, MinBrightness, MaxBrightness)
	}
	return h.Brightness.Write(FormatValue(params.Value))
}

// FormatValue renders value the way sysfs attributes expect it:
// decimal with a trailing newline.
func FormatValue(value int64) []byte {
	return append(strconv.AppendInt(nil, value, 10), '\n')
}
