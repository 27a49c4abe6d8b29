// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/quill-foundation/quill/cmd/quill/cli"
	"github.com/quill-foundation/quill/lib/mdterm"
	"github.com/quill-foundation/quill/lib/schema"
	"github.com/quill-foundation/quill/lib/store"
)

type showParams struct {
	cli.JSONOutput
	configFlag
	File  string `flag:"file,f" desc:"render a specific markdown file instead of a corpus slug"`
	Raw   bool   `flag:"raw"    desc:"print the reconstructed source document instead of rendering"`
	Width int    `flag:"width,w" desc:"render width (0 = terminal width, capped at 100)"`
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Render one article in the terminal",
		Description: `Render an article's markdown as styled terminal text: reflowed
paragraphs, syntax-highlighted code blocks, and image placeholders
that keep the reference path visible.

The article is addressed by slug (quill list shows slugs). With
--file, an arbitrary markdown document outside the corpus is rendered
instead.`,
		Usage: "quill show <slug> [flags]",
		Examples: []cli.Example{
			{
				Description: "Read an article",
				Command:     "quill show floating-action-button",
			},
			{
				Description: "Print the source document",
				Command:     "quill show floating-action-button --raw",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}

			var selected schema.Article
			switch {
			case params.File != "":
				if len(args) > 0 {
					return fmt.Errorf("--file and a slug argument are mutually exclusive")
				}
				selected, err = store.LoadFile(params.File)
				if err != nil {
					return err
				}
			case len(args) == 1:
				index, err := loadIndex(cfg, logger)
				if err != nil {
					return err
				}
				var exists bool
				selected, exists = index.Get(args[0])
				if !exists {
					return fmt.Errorf("no article with slug %q (try 'quill list' or 'quill search %s')",
						args[0], args[0])
				}
			default:
				return fmt.Errorf("expected exactly one slug argument\n\nusage: quill show <slug> [flags]")
			}

			if done, err := params.EmitJSON(articleDetail(selected)); done {
				return err
			}

			if params.Raw {
				_, err := os.Stdout.Write(schema.FormatDocument(selected.Content))
				return err
			}

			width := params.Width
			if width <= 0 {
				width = renderWidth()
			}

			theme := displayTheme(cfg)
			fmt.Println(renderArticleHeading(selected, theme, width))
			fmt.Println()
			fmt.Println(mdterm.Render(selected.Content.Body, theme, width))
			return nil
		},
	}
}

// articleDetail is the JSON shape of a single article, body included.
func articleDetail(selected schema.Article) map[string]any {
	date := ""
	if !selected.IsDraft {
		date = selected.Date.Format(schema.DateLayout)
	}
	return map[string]any{
		"slug":                selected.Slug,
		"date":                date,
		"draft":               selected.IsDraft,
		"path":                selected.Path,
		"digest":              selected.Digest.String(),
		"title":               selected.Content.Title,
		"tags":                []string(selected.Content.Tags),
		"layout":              selected.Content.Layout,
		"author":              selected.Content.Author,
		"show_author_profile": selected.Content.ShowAuthorProfile,
		"body":                selected.Content.Body,
	}
}

// renderArticleHeading formats the title/metadata block above the
// rendered body, mirroring the browser's reading pane header.
func renderArticleHeading(selected schema.Article, theme mdterm.Theme, width int) string {
	var heading strings.Builder
	heading.WriteString(selected.Content.Title)
	heading.WriteString("\n")

	var meta []string
	if selected.IsDraft {
		meta = append(meta, "draft")
	} else {
		meta = append(meta, selected.Date.Format(schema.DateLayout))
	}
	if selected.Content.Author != "" {
		meta = append(meta, selected.Content.Author)
	}
	if len(selected.Content.Tags) > 0 {
		meta = append(meta, "#"+strings.Join(selected.Content.Tags, " #"))
	}
	heading.WriteString(strings.Join(meta, " · "))
	heading.WriteString("\n")
	heading.WriteString(strings.Repeat("─", min(width, 60)))
	return heading.String()
}

// renderWidth picks a render width from the terminal, capped at 100
// columns for readable line lengths on wide displays. Falls back to
// 80 when stdout is not a terminal.
func renderWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	if width > 100 {
		return 100
	}
	return width
}
