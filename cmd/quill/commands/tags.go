// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/quill-foundation/quill/cmd/quill/cli"
)

type tagsParams struct {
	cli.JSONOutput
	configFlag
}

type tagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

func tagsCommand() *cli.Command {
	var params tagsParams

	return &cli.Command{
		Name:    "tags",
		Summary: "Tag usage across the corpus",
		Description: `List every tag with the number of articles carrying it, most used
first. Ties sort alphabetically so the output is stable.`,
		Usage: "quill tags [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("tags", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("tags takes no positional arguments")
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			index, err := loadIndex(cfg, logger)
			if err != nil {
				return err
			}

			counts := index.Tags()
			rows := make([]tagCount, 0, len(counts))
			for tag, count := range counts {
				rows = append(rows, tagCount{Tag: tag, Count: count})
			}
			sort.Slice(rows, func(i, j int) bool {
				if rows[i].Count != rows[j].Count {
					return rows[i].Count > rows[j].Count
				}
				return rows[i].Tag < rows[j].Tag
			})

			if done, err := params.EmitJSON(rows); done {
				return err
			}

			if len(rows) == 0 {
				fmt.Fprintln(os.Stderr, "no tags in the corpus")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "COUNT\tTAG\n")
			for _, row := range rows {
				fmt.Fprintf(writer, "%d\t%s\n", row.Count, row.Tag)
			}
			return writer.Flush()
		},
	}
}
