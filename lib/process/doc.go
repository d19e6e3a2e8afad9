// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for Nexus binaries.
//
// [Fatal] is the one place a binary writes raw text to stderr: errors
// from run() that may occur before the structured logger exists.
package process
