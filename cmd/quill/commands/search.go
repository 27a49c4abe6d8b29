// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/quill-foundation/quill/cmd/quill/cli"
	"github.com/quill-foundation/quill/lib/article"
	"github.com/quill-foundation/quill/lib/schema"
)

type searchParams struct {
	cli.JSONOutput
	configFlag
	Tag    string `flag:"tag,t"   desc:"restrict results to this tag"`
	Author string `flag:"author,a" desc:"restrict results to this author"`
	Drafts bool   `flag:"drafts"  desc:"include undated drafts"`
	Limit  int    `flag:"limit,n" desc:"maximum results" default:"10"`
	Grep   bool   `flag:"grep"    desc:"regex match over titles and bodies instead of ranked search"`
}

type searchHit struct {
	Slug  string  `json:"slug"`
	Date  string  `json:"date,omitempty"`
	Title string  `json:"title"`
	Score float64 `json:"score,omitempty"`
}

func searchCommand() *cli.Command {
	var params searchParams

	return &cli.Command{
		Name:    "search",
		Summary: "Full-text search across the corpus",
		Description: `BM25-ranked full-text search over titles, tags, and bodies. Titles
weigh most, tags next, body prose least. A query token that names an
article slug pins that article to the top and boosts articles sharing
its tags — "more like floating-action-button" is just a search for
the slug.

With --grep, the query is treated as a Go regular expression matched
against titles and bodies, newest match first, unranked.`,
		Usage: "quill search <query...> [flags]",
		Examples: []cli.Example{
			{
				Description: "Ranked search",
				Command:     "quill search custom view transitions",
			},
			{
				Description: "Regex over bodies",
				Command:     "quill search --grep 'UIViewController(Animated)?Transitioning'",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("search", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("search needs a query\n\nusage: quill search <query...> [flags]")
			}
			query := strings.Join(args, " ")

			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			index, err := loadIndex(cfg, logger)
			if err != nil {
				return err
			}

			var hits []searchHit
			if params.Grep {
				matches, err := index.Grep(query)
				if err != nil {
					return err
				}
				if params.Limit > 0 && len(matches) > params.Limit {
					matches = matches[:params.Limit]
				}
				for _, match := range matches {
					hits = append(hits, searchHit{
						Slug:  match.Slug,
						Date:  formatDate(match),
						Title: match.Content.Title,
					})
				}
			} else {
				results := index.Search(query, article.Filter{
					Tag:           params.Tag,
					Author:        params.Author,
					IncludeDrafts: params.Drafts,
				}, params.Limit)
				for _, result := range results {
					hits = append(hits, searchHit{
						Slug:  result.Article.Slug,
						Date:  formatDate(result.Article),
						Title: result.Article.Content.Title,
						Score: result.Score,
					})
				}
			}

			if done, err := params.EmitJSON(hits); done {
				return err
			}

			if len(hits) == 0 {
				fmt.Fprintf(os.Stderr, "no results for %q\n", query)
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "DATE\tSLUG\tTITLE\n")
			for _, hit := range hits {
				date := hit.Date
				if date == "" {
					date = "draft"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\n", date, hit.Slug, hit.Title)
			}
			return writer.Flush()
		},
	}
}

func formatDate(entry schema.Article) string {
	if entry.IsDraft {
		return ""
	}
	return entry.Date.Format(schema.DateLayout)
}
