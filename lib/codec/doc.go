// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Quill's standard CBOR encoding: Core
// Deterministic Encoding on the way out, lenient decoding on the way
// in. Snapshot payloads are the main consumer — deterministic bytes
// mean identical corpus states produce identical snapshot files.
package codec
