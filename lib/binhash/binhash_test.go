// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
)

func TestHashFileMatchesSum(t *testing.T) {
	content := []byte("hello, nexus")
	path := filepath.Join(t.TempDir(), "test-binary")
	if err := os.WriteFile(path, content, 0755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := Sum(content); got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
	if want := Digest(blake3.Sum256(content)); got != want {
		t.Errorf("HashFile = %s, want BLAKE3 %s", got, want)
	}
}

func TestHashFileLarge(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "large")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := Sum(content); got != want {
		t.Errorf("HashFile(large) = %s, want %s", got, want)
	}
}

func TestHashFileNonexistent(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("HashFile should fail for nonexistent file")
	}
}

func TestSumDistinguishesContent(t *testing.T) {
	if Sum([]byte("a")) == Sum([]byte("b")) {
		t.Error("different inputs produced the same digest")
	}
}

func TestDigestFormatting(t *testing.T) {
	digest := Sum([]byte("test"))
	if length := len(digest.String()); length != 64 {
		t.Errorf("String length = %d, want 64", length)
	}
	if length := len(digest.Short()); length != 16 {
		t.Errorf("Short length = %d, want 16", length)
	}
	if digest.String()[:16] != digest.Short() {
		t.Errorf("Short %q is not a prefix of %q", digest.Short(), digest.String())
	}
}
