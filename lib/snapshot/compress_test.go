// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
)

func TestCompressRoundtrip(t *testing.T) {
	// Repetitive text compresses under both algorithms.
	data := []byte(strings.Repeat("let view = Text(\"Hello, world!\")\n", 200))

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		t.Run(tag.String(), func(t *testing.T) {
			compressed, err := compress(data, tag)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if len(compressed) >= len(data) {
				t.Fatalf("no size reduction: %d >= %d", len(compressed), len(data))
			}
			restored, err := decompress(compressed, tag, len(data))
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !bytes.Equal(restored, data) {
				t.Error("roundtrip mismatch")
			}
		})
	}
}

func TestCompressIncompressible(t *testing.T) {
	data := make([]byte, 4096)
	if _, err := rand.Read(data); err != nil {
		t.Fatal(err)
	}

	for _, tag := range []CompressionTag{CompressionLZ4, CompressionZstd} {
		if _, err := compress(data, tag); err != errIncompressible {
			t.Errorf("%s: err = %v, want errIncompressible", tag, err)
		}
	}
}

func TestCompressNonePassthrough(t *testing.T) {
	data := []byte("unchanged")
	compressed, err := compress(data, CompressionNone)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !bytes.Equal(compressed, data) {
		t.Error("CompressionNone altered the data")
	}

	if _, err := decompress(data, CompressionNone, len(data)+1); err == nil {
		t.Error("size mismatch accepted")
	}
}

func TestCompressionTagStrings(t *testing.T) {
	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompressionTag(tag.String())
		if err != nil {
			t.Fatalf("ParseCompressionTag(%q): %v", tag.String(), err)
		}
		if parsed != tag {
			t.Errorf("roundtrip: %v != %v", parsed, tag)
		}
	}
	if _, err := ParseCompressionTag("brotli"); err == nil {
		t.Error("unknown tag accepted")
	}
}
