// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package articleui is the interactive terminal browser for an
// article corpus. Two panes: a reverse-chronological article list on
// the left, and the selected article rendered by mdterm in a
// scrollable viewport on the right. A substring filter (activated
// with /) narrows the list across title, slug, tags, and author.
//
// The package exposes a bubbletea Model; the quill browse command
// wraps it in a Program with the alt screen enabled.
package articleui
