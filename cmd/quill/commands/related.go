// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/quill-foundation/quill/cmd/quill/cli"
)

type relatedParams struct {
	cli.JSONOutput
	configFlag
	Limit int `flag:"limit,n" desc:"maximum related articles" default:"5"`
}

type relatedHit struct {
	Slug       string `json:"slug"`
	Date       string `json:"date,omitempty"`
	Title      string `json:"title"`
	SharedTags int    `json:"shared_tags"`
}

func relatedCommand() *cli.Command {
	var params relatedParams

	return &cli.Command{
		Name:    "related",
		Summary: "Articles sharing tags with a given one",
		Description: `Rank articles by how many tags they share with the reference
article, ties broken by recency. Useful for "read next" suggestions
and for spotting tag clusters in the corpus.`,
		Usage: "quill related <slug> [flags]",
		Examples: []cli.Example{
			{
				Command: "quill related floating-action-button",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("related", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one slug argument\n\nusage: quill related <slug> [flags]")
			}

			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			index, err := loadIndex(cfg, logger)
			if err != nil {
				return err
			}
			if _, exists := index.Get(args[0]); !exists {
				return fmt.Errorf("no article with slug %q", args[0])
			}

			related := index.RelatedTo(args[0], params.Limit)

			hits := make([]relatedHit, 0, len(related))
			for _, entry := range related {
				hits = append(hits, relatedHit{
					Slug:       entry.Article.Slug,
					Date:       formatDate(entry.Article),
					Title:      entry.Article.Content.Title,
					SharedTags: entry.SharedTags,
				})
			}

			if done, err := params.EmitJSON(hits); done {
				return err
			}

			if len(hits) == 0 {
				fmt.Fprintf(os.Stderr, "nothing shares a tag with %q\n", args[0])
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "SHARED\tDATE\tSLUG\tTITLE\n")
			for _, hit := range hits {
				date := hit.Date
				if date == "" {
					date = "draft"
				}
				fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", hit.SharedTags, date, hit.Slug, hit.Title)
			}
			return writer.Flush()
		},
	}
}
