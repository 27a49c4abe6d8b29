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

type listParams struct {
	cli.JSONOutput
	configFlag
	Tag    string `flag:"tag,t"    desc:"only articles carrying this tag"`
	Author string `flag:"author,a" desc:"only articles by this author"`
	Layout string `flag:"layout"   desc:"only articles with this layout"`
	Year   int    `flag:"year,y"   desc:"only articles published in this year"`
	Drafts bool   `flag:"drafts"   desc:"include undated drafts"`
	Limit  int    `flag:"limit,n"  desc:"maximum articles to show (0 = config default)"`
}

// listEntry is the JSON shape of one listed article.
type listEntry struct {
	Slug   string   `json:"slug"`
	Date   string   `json:"date,omitempty"`
	Draft  bool     `json:"draft,omitempty"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Tags   []string `json:"tags"`
	Path   string   `json:"path"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List articles, newest first",
		Description: `List articles in reverse-chronological order. Filters compose with
AND semantics: --tag swift --year 2019 shows 2019 articles tagged
swift. Drafts (files without a date prefix) are hidden unless
--drafts is given; they sort after all dated articles.`,
		Usage: "quill list [flags]",
		Examples: []cli.Example{
			{
				Description: "The five newest articles",
				Command:     "quill list -n 5",
			},
			{
				Description: "Everything tagged swiftui, as JSON",
				Command:     "quill list --tag swiftui --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("list takes no positional arguments")
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
				Layout:        params.Layout,
				Year:          params.Year,
				IncludeDrafts: params.Drafts,
			})

			limit := params.Limit
			if limit == 0 {
				limit = cfg.Display.ListLimit
			}
			if limit > 0 && len(articles) > limit {
				articles = articles[:limit]
			}

			if done, err := params.EmitJSON(listEntries(articles)); done {
				return err
			}

			if len(articles) == 0 {
				fmt.Fprintln(os.Stderr, "no articles match")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "DATE\tSLUG\tTITLE\tTAGS\n")
			for _, entry := range articles {
				date := "draft"
				if !entry.IsDraft {
					date = entry.Date.Format(schema.DateLayout)
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					date, entry.Slug, entry.Content.Title,
					strings.Join(entry.Content.Tags, ","))
			}
			return writer.Flush()
		},
	}
}

func listEntries(articles []schema.Article) []listEntry {
	entries := make([]listEntry, 0, len(articles))
	for _, entry := range articles {
		date := ""
		if !entry.IsDraft {
			date = entry.Date.Format(schema.DateLayout)
		}
		entries = append(entries, listEntry{
			Slug:   entry.Slug,
			Date:   date,
			Draft:  entry.IsDraft,
			Title:  entry.Content.Title,
			Author: entry.Content.Author,
			Tags:   entry.Content.Tags,
			Path:   entry.Path,
		})
	}
	return entries
}
