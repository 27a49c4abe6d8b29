// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package article provides an in-memory index over a corpus of
// parsed articles. It maintains secondary indexes over
// [schema.Article] values for fast filtered queries and a lazily
// rebuilt BM25 index for full-text search.
//
// The index is a pure data structure with no filesystem access and
// no concurrency control. The CLI populates it from the store (or
// the sqlite cache) and queries it to serve commands.
//
// # Lifecycle
//
// Create an index with [NewIndex] and call [Index.Put] for each
// loaded article. Put replaces any existing article with the same
// slug; [Index.Remove] drops one. Queries never mutate.
//
// # Ordering
//
// Every query that returns multiple articles sorts them
// reverse-chronologically (newest first), with the slug as a
// deterministic tiebreaker. That is the one display-ordering rule
// the article corpus has. Drafts carry no date and are excluded
// unless a filter asks for them.
//
// # Concurrency
//
// Index is not safe for concurrent use. Wrap it with a mutex if a
// future server embeds it.
package article
