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

type statsParams struct {
	cli.JSONOutput
	configFlag
	Top int `flag:"top" desc:"rows per ranking section" default:"10"`
}

func statsCommand() *cli.Command {
	var params statsParams

	return &cli.Command{
		Name:    "stats",
		Summary: "Aggregate corpus statistics",
		Description: `Corpus totals plus per-year, per-tag, and per-author breakdowns.
The ranked sections show the --top most frequent entries; --json
emits the full breakdown.`,
		Usage: "quill stats [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("stats", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("stats takes no positional arguments")
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			index, err := loadIndex(cfg, logger)
			if err != nil {
				return err
			}

			stats := index.Stats()

			if done, err := params.EmitJSON(stats); done {
				return err
			}

			fmt.Printf("%d articles (%d drafts)\n\n", stats.Total, stats.Drafts)

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)

			years := make([]int, 0, len(stats.ByYear))
			for year := range stats.ByYear {
				years = append(years, year)
			}
			sort.Sort(sort.Reverse(sort.IntSlice(years)))
			fmt.Fprintf(writer, "YEAR\tARTICLES\n")
			for _, year := range years {
				fmt.Fprintf(writer, "%d\t%d\n", year, stats.ByYear[year])
			}
			fmt.Fprintln(writer)

			fmt.Fprintf(writer, "TAG\tARTICLES\n")
			for _, row := range topCounts(stats.ByTag, params.Top) {
				fmt.Fprintf(writer, "%s\t%d\n", row.key, row.count)
			}
			fmt.Fprintln(writer)

			fmt.Fprintf(writer, "AUTHOR\tARTICLES\n")
			for _, row := range topCounts(stats.ByAuthor, params.Top) {
				fmt.Fprintf(writer, "%s\t%d\n", row.key, row.count)
			}
			return writer.Flush()
		},
	}
}

type countedKey struct {
	key   string
	count int
}

// topCounts returns the n highest-count entries, ties broken
// alphabetically.
func topCounts(counts map[string]int, n int) []countedKey {
	rows := make([]countedKey, 0, len(counts))
	for key, count := range counts {
		rows = append(rows, countedKey{key: key, count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].key < rows[j].key
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
