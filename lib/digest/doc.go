// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes BLAKE3 content digests for article files.
// The cache and snapshot layers compare digests instead of bytes or
// mtimes: mtimes lie across checkouts and syncs, digests do not.
package digest
