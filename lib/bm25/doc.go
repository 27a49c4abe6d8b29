// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package bm25 implements Okapi BM25 ranking over documents with
// weighted text fields. The article index builds one BM25 index over
// the whole corpus (title, tags, body as separate weighted fields)
// and rebuilds it lazily after mutations.
//
// The index is immutable after construction and safe for concurrent
// reads. Construction is O(total tokens) — sub-millisecond for a
// corpus of a few hundred articles.
package bm25
