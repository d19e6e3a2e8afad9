// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for Nexus.
//
// Configuration is loaded from a single file specified by either the
// NEXUS_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no file search and no fallback.
//
// The file supports environment-specific sections (development,
// staging, production) that override base values when
// [Config].Environment matches. Production without an explicit section
// logs at warn.
//
// Path fields expand ${HOME}, ${NEXUS_RUN}, and ${VAR:-default} after
// loading. No other environment variables override config values.
//
// This package depends on no other Nexus packages.
package config
