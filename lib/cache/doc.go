// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package cache persists parsed articles in SQLite so repeated CLI
// invocations skip reparsing an unchanged corpus. The markdown files
// remain the source of truth; the cache is a materialized view keyed
// by slug and invalidated per-article via content digests.
//
// Sync compares the digest of every loaded article against the stored
// row and writes only what changed, all in one IMMEDIATE transaction.
// Load rebuilds the full article set from the cache without touching
// the markdown tree.
package cache
