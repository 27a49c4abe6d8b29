// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package mdterm renders article markdown as styled terminal text.
//
// The renderer walks the goldmark AST directly instead of using
// goldmark's HTML-oriented renderer interface: terminal output needs
// accumulate-then-wrap semantics, where a paragraph's inline content
// collects in a buffer and is word-wrapped as a unit when the
// paragraph closes. Soft line breaks become spaces so hard-wrapped
// article source reflows cleanly at any terminal width; fenced code
// blocks keep their lines verbatim and are syntax-highlighted with
// chroma.
//
// Output is plain text with ANSI escapes, suitable both for direct
// printing and for embedding in a bubbletea viewport.
package mdterm
