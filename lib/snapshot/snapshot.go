// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/quill-foundation/quill/lib/codec"
	"github.com/quill-foundation/quill/lib/digest"
	"github.com/quill-foundation/quill/lib/schema"
)

// magic identifies a snapshot container file.
var magic = [4]byte{'Q', 'S', 'N', 'P'}

// formatVersion is the container format version. Bumped on any
// incompatible change to the header or payload schema.
const formatVersion = 1

// headerSize is the fixed container header: magic (4), version (1),
// compression tag (1), uncompressed payload size (8, little-endian).
const headerSize = 14

// Record is one article's captured state. The digest is the identity
// used by Diff; the header fields are carried so a snapshot can be
// inspected without the corpus it came from.
type Record struct {
	Slug   string        `cbor:"slug"`
	Path   string        `cbor:"path"`
	Date   string        `cbor:"date,omitempty"`
	Draft  bool          `cbor:"draft,omitempty"`
	Digest digest.Digest `cbor:"digest"`
	Title  string        `cbor:"title,omitempty"`
	Tags   []string      `cbor:"tags,omitempty"`
	Author string        `cbor:"author,omitempty"`
	Layout string        `cbor:"layout,omitempty"`
}

// Snapshot is a captured corpus state: one record per article, sorted
// by slug.
type Snapshot struct {
	CreatedAt time.Time `cbor:"created_at"`
	Records   []Record  `cbor:"records"`
}

// Capture builds a snapshot from loaded articles. Records are sorted
// by slug so the deterministic payload encoding is independent of
// load order.
func Capture(articles []schema.Article, createdAt time.Time) Snapshot {
	records := make([]Record, 0, len(articles))
	for _, article := range articles {
		record := Record{
			Slug:   article.Slug,
			Path:   article.Path,
			Draft:  article.IsDraft,
			Digest: article.Digest,
			Title:  article.Content.Title,
			Tags:   article.Content.Tags,
			Author: article.Content.Author,
			Layout: article.Content.Layout,
		}
		if !article.Date.IsZero() {
			record.Date = article.Date.Format(schema.DateLayout)
		}
		records = append(records, record)
	}
	slices.SortFunc(records, func(a, b Record) int {
		return strings.Compare(a.Slug, b.Slug)
	})
	return Snapshot{CreatedAt: createdAt.UTC().Truncate(time.Second), Records: records}
}

// Encode writes the snapshot container to w. The payload is
// zstd-compressed unless compression would not shrink it, in which
// case it is stored raw with CompressionNone.
func (s *Snapshot) Encode(w io.Writer) error {
	return s.EncodeWith(w, CompressionZstd)
}

// EncodeWith writes the snapshot container with a specific
// compression algorithm. An incompressible payload falls back to
// CompressionNone regardless of the requested tag.
func (s *Snapshot) EncodeWith(w io.Writer, tag CompressionTag) error {
	payload, err := codec.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding snapshot payload: %w", err)
	}

	compressed, err := compress(payload, tag)
	if err != nil {
		if err != errIncompressible {
			return err
		}
		tag = CompressionNone
		compressed = payload
	}

	header := make([]byte, headerSize)
	copy(header, magic[:])
	header[4] = formatVersion
	header[5] = byte(tag)
	binary.LittleEndian.PutUint64(header[6:], uint64(len(payload)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing snapshot header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("writing snapshot payload: %w", err)
	}
	return nil
}

// Decode reads a snapshot container from r.
func Decode(r io.Reader) (Snapshot, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot header: %w", err)
	}
	if !bytes.Equal(header[:4], magic[:]) {
		return Snapshot{}, fmt.Errorf("not a snapshot file (bad magic %q)", header[:4])
	}
	if header[4] != formatVersion {
		return Snapshot{}, fmt.Errorf("unsupported snapshot format version %d (this build reads version %d)",
			header[4], formatVersion)
	}
	tag := CompressionTag(header[5])
	payloadSize := binary.LittleEndian.Uint64(header[6:])

	compressed, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot payload: %w", err)
	}
	payload, err := decompress(compressed, tag, int(payloadSize))
	if err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot payload: %w", err)
	}
	return snapshot, nil
}

// WriteFile captures the snapshot to a file, replacing any existing
// file atomically (write to a temp file in the same directory, then
// rename).
func (s *Snapshot) WriteFile(path string) error {
	return s.WriteFileWith(path, CompressionZstd)
}

// WriteFileWith is WriteFile with an explicit compression algorithm.
func (s *Snapshot) WriteFileWith(path string, tag CompressionTag) error {
	temp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	defer os.Remove(temp.Name())

	if err := s.EncodeWith(temp, tag); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}
	if err := os.Rename(temp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a snapshot container from a file.
func ReadFile(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer file.Close()

	snapshot, err := Decode(file)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

// Diff is the difference between two snapshots, keyed by slug. Each
// slice is sorted.
type Diff struct {
	// Added lists slugs present only in the newer snapshot.
	Added []string `json:"added"`

	// Removed lists slugs present only in the older snapshot.
	Removed []string `json:"removed"`

	// Changed lists slugs present in both with different digests.
	Changed []string `json:"changed"`
}

// Empty reports whether the two snapshots describe the same corpus
// state.
func (d *Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare diffs two snapshots: what appeared, disappeared, or changed
// content between before and after.
func Compare(before, after *Snapshot) Diff {
	beforeDigests := make(map[string]digest.Digest, len(before.Records))
	for _, record := range before.Records {
		beforeDigests[record.Slug] = record.Digest
	}

	var diff Diff
	afterSlugs := make(map[string]struct{}, len(after.Records))
	for _, record := range after.Records {
		afterSlugs[record.Slug] = struct{}{}
		beforeDigest, existed := beforeDigests[record.Slug]
		switch {
		case !existed:
			diff.Added = append(diff.Added, record.Slug)
		case beforeDigest != record.Digest:
			diff.Changed = append(diff.Changed, record.Slug)
		}
	}
	for _, record := range before.Records {
		if _, survives := afterSlugs[record.Slug]; !survives {
			diff.Removed = append(diff.Removed, record.Slug)
		}
	}

	slices.Sort(diff.Added)
	slices.Sort(diff.Removed)
	slices.Sort(diff.Changed)
	return diff
}
