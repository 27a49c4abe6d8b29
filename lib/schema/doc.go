// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the article document contract: the front
// matter header every article carries and the canonical parse/format
// operations over whole documents.
//
// An article is a Markdown file with a YAML header delimited by "---"
// lines, followed by a prose body. The header controls display:
// title, tags, layout (the name of an external template), author
// attribution, and whether an author bio block is rendered. The body
// is opaque to this package — lint and preview tooling parse it
// separately.
//
// Articles are dated documents. The date and URL slug are not header
// fields; they derive from the filename (YYYY-MM-DD-slug.md), the
// convention the external renderers this toolkit targets all share.
// [ParseFilename] implements that derivation.
//
// # Compatibility
//
// Headers written by hand over many years are messy. Two concessions
// keep old articles parseable without modification:
//
//   - Tags accept both a YAML sequence and the legacy comma-separated
//     scalar form ("tags: swift, ios, debugging").
//   - Unknown header fields are ignored, not rejected. A future
//     renderer may add fields; this toolkit must not break on them.
//
// This package depends only on yaml.v3 and lib/digest (for the
// content digest carried by [Article]). It performs no I/O.
package schema
