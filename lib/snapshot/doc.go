// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot captures the state of a corpus — every article's
// slug, path, header metadata, and content digest — in a single
// compressed file, and diffs two captures to show what changed
// between them.
//
// The on-disk container is a fixed header (magic, format version,
// compression tag, uncompressed payload size) followed by the
// compressed CBOR payload. The payload uses deterministic encoding,
// so two captures of the same corpus state are byte-identical after
// decompression.
package snapshot
