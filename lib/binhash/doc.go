// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes BLAKE3 digests of goal envelopes and binaries.
//
// The dispatcher logs [Sum] of each copied-in envelope so a submission
// can be traced from the CLI (which logs the same digest before
// sending) to the daemon. [HashFile] identifies the running binary in
// verbose version output.
package binhash
