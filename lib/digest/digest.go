// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of article content. The cache
// uses digests to detect modified files without reparsing; snapshots
// use them to diff two corpus states.
type Digest [32]byte

// articleDomainKey is the BLAKE3 key for article-content hashing.
// Domain separation keeps these digests distinct from any other hash
// of the same bytes. The value is the ASCII domain name zero-padded
// to 32 bytes, readable in hex dumps; BLAKE3 keyed mode treats it as
// an opaque key.
var articleDomainKey = [32]byte{
	'q', 'u', 'i', 'l', 'l', '.', 'a', 'r', 't', 'i', 'c', 'l', 'e', '.',
	'c', 'o', 'n', 't', 'e', 'n', 't', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Content computes the article-domain digest of raw document bytes.
func Content(data []byte) Digest {
	hasher, err := blake3.NewKeyed(articleDomainKey[:])
	if err != nil {
		// NewKeyed fails only on wrong key length; the key is a
		// compile-time constant of the right size.
		panic("digest: keyed hasher init: " + err.Error())
	}
	_, _ = hasher.Write(data)

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// File computes the article-domain digest of the file at path,
// streaming through the hasher so memory stays constant regardless
// of file size.
func File(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher, err := blake3.NewKeyed(articleDomainKey[:])
	if err != nil {
		panic("digest: keyed hasher init: " + err.Error())
	}
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// String returns the hex encoding, the canonical form stored in the
// cache and in snapshot records.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText implements encoding.TextMarshaler. Digests travel as
// hex text in every serialized form (cache rows, snapshot records)
// so dumps stay greppable.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Parse decodes a hex-encoded digest string.
func Parse(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
