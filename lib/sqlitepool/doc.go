// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitepool provides Quill's standard SQLite connection
// pool. The article cache is the main consumer; anything else that
// needs local structured storage opens its database through here so
// the whole toolkit shares one dependency, one set of pragmas, and
// one pool pattern.
//
// The pool wraps zombiezen.com/go/sqlite with production defaults:
// WAL journal mode, NORMAL synchronous (transactions survive process
// crashes; the markdown files remain the source of truth either way),
// busy timeout instead of immediate SQLITE_BUSY, and memory-mapped
// reads.
//
// Callers [Pool.Take] a connection, do their work, and [Pool.Put] it
// back. Connections are not safe for concurrent use — each goroutine
// holds its own for the duration of its work.
//
// The package is intentionally thin: no query builder, no ORM.
// Consumers write SQL and use sqlitex.Execute directly.
package sqlitepool
