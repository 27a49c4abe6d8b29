// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/quill-foundation/quill/cmd/quill/cli"
	"github.com/quill-foundation/quill/lib/article"
	"github.com/quill-foundation/quill/lib/articleui"
)

type browseParams struct {
	configFlag
	Tag    string `flag:"tag,t"    desc:"only articles carrying this tag"`
	Author string `flag:"author,a" desc:"only articles by this author"`
	Drafts bool   `flag:"drafts"   desc:"include undated drafts"`
}

func browseCommand() *cli.Command {
	var params browseParams

	return &cli.Command{
		Name:    "browse",
		Summary: "Interactive two-pane article browser",
		Description: `Full-screen terminal browser: article list on the left, rendered
reading pane on the right. j/k move, tab switches panes, / filters
by title, tag, or author, q quits.`,
		Usage: "quill browse [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("browse", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("browse takes no positional arguments")
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			index, err := loadIndex(cfg, logger)
			if err != nil {
				return err
			}

			articles := index.List(article.Filter{
				Tag:           params.Tag,
				Author:        params.Author,
				IncludeDrafts: params.Drafts,
			})
			if len(articles) == 0 {
				return fmt.Errorf("no articles to browse in %s", cfg.ContentRoot)
			}

			model := articleui.NewModel(articles, displayTheme(cfg))
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("browser: %w", err)
			}
			return nil
		},
	}
}
