// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package lint checks articles against the corpus conventions: every
// document carries a complete front matter header, fenced code blocks
// are closed, relative image references resolve to files on disk, and
// filenames follow the dated naming scheme.
//
// The typical flow:
//
//  1. ReadRuleset (or DefaultRuleset): configure rules from a JSONC file
//  2. LoadDirectory: content root → []Document
//  3. Linter.Corpus: per-file checks plus cross-file slug uniqueness
//  4. HasErrors: decide the exit code from the findings
//
// Each finding names the rule that produced it, so a ruleset can
// disable individual rules or downgrade them to warnings.
package lint
