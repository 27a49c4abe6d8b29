// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package store loads a directory of article files into parsed
// [schema.Article] values. Loading is all-or-nothing per file, never
// per corpus: a malformed article is reported alongside the articles
// that did parse, so one bad header cannot take down listing, search,
// or lint over the rest of the corpus.
package store
