// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete quill CLI command tree. The
// quill binary is a thin wrapper around [Root].
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quill-foundation/quill/cmd/quill/cli"
)

// version is the quill release version, overridden at link time via
// -ldflags "-X .../commands.version=...".
var version = "dev"

// Root builds and returns the complete quill CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "quill",
		Description: `Quill: a reader, search engine, and linter for markdown article
corpora. Points at a directory of front-matter articles (a Jekyll-style
blog tree) and provides listing, full-text search, related-article
discovery, terminal rendering, corpus linting, and snapshot diffs.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			searchCommand(),
			relatedCommand(),
			tagsCommand(),
			statsCommand(),
			lintCommand(),
			cacheCommand(),
			snapshotCommand(),
			browseCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Printf("quill %s\n", version)
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "List the ten newest articles",
				Command:     "quill list --limit 10",
			},
			{
				Description: "Search the corpus",
				Command:     "quill search view transitions",
			},
			{
				Description: "Read an article in the terminal",
				Command:     "quill show floating-action-button",
			},
			{
				Description: "Lint every article (non-zero exit on errors)",
				Command:     "quill lint",
			},
			{
				Description: "Browse interactively",
				Command:     "quill browse",
			},
		},
	}
}
