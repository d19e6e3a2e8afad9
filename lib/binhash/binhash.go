// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// Sum returns the BLAKE3 digest of data.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// HashFile computes the BLAKE3 digest of the file at path, streaming
// its contents so memory use does not grow with file size.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := blake3.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// String returns the full hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 8 bytes of the digest in hex. Log lines use
// this form to correlate a goal across the client and the daemon.
func (d Digest) Short() string {
	return hex.EncodeToString(d[:8])
}
