// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestContentDeterministic(t *testing.T) {
	a := Content([]byte("hello"))
	b := Content([]byte("hello"))
	if a != b {
		t.Fatal("same input produced different digests")
	}
	if a == Content([]byte("hello!")) {
		t.Fatal("different inputs produced the same digest")
	}
}

func TestFileMatchesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.md")
	data := []byte("---\ntitle: T\n---\nbody\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	fromFile, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if fromFile != Content(data) {
		t.Error("File and Content disagree on identical bytes")
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "absent.md")); err == nil {
		t.Fatal("File on a missing path succeeded")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	digest := Content([]byte("round trip"))
	parsed, err := Parse(digest.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed != digest {
		t.Error("Parse(String()) changed the digest")
	}

	if _, err := Parse("zz"); err == nil {
		t.Error("Parse accepted non-hex input")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Error("Parse accepted a short digest")
	}
}
