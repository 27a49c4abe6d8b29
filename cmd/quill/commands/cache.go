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
	"github.com/quill-foundation/quill/lib/cache"
	"github.com/quill-foundation/quill/lib/config"
	"github.com/quill-foundation/quill/lib/digest"
	"github.com/quill-foundation/quill/lib/schema"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:    "cache",
		Summary: "Manage the SQLite article cache",
		Description: `The cache mirrors the parsed corpus into a SQLite database keyed by
content digest, so other tooling can query articles without walking
and re-parsing the markdown tree.`,
		Subcommands: []*cli.Command{
			cacheSyncCommand(),
			cacheStatusCommand(),
		},
	}
}

type cacheSyncParams struct {
	cli.JSONOutput
	configFlag
}

func cacheSyncCommand() *cli.Command {
	var params cacheSyncParams

	return &cli.Command{
		Name:    "sync",
		Summary: "Reconcile the cache with the content root",
		Description: `Parse the corpus and bring the cache database in line with it:
insert new articles, rewrite articles whose digest changed, delete
rows for articles that no longer exist. Unchanged articles are left
alone, so repeated syncs are cheap.`,
		Usage: "quill cache sync [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sync", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("cache sync takes no positional arguments")
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			articles, err := loadCorpus(cfg, logger)
			if err != nil {
				return err
			}

			articleCache, err := openCache(cfg, logger)
			if err != nil {
				return err
			}
			defer articleCache.Close()

			stats, err := articleCache.Sync(ctx, articles)
			if err != nil {
				return err
			}

			if done, err := params.EmitJSON(stats); done {
				return err
			}

			fmt.Printf("%d inserted, %d updated, %d deleted, %d unchanged\n",
				stats.Inserted, stats.Updated, stats.Deleted, stats.Unchanged)
			return nil
		},
	}
}

type cacheStatusParams struct {
	cli.JSONOutput
	configFlag
}

// cacheStatus is the JSON shape of a staleness report.
type cacheStatus struct {
	Cached   int      `json:"cached"`
	Corpus   int      `json:"corpus"`
	Missing  []string `json:"missing"`
	Stale    []string `json:"stale"`
	Orphaned []string `json:"orphaned"`
}

func cacheStatusCommand() *cli.Command {
	var params cacheStatusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Compare the cache against the content root",
		Description: `Report which articles are missing from the cache, cached under a
stale digest, or cached but gone from the corpus. A clean report
means 'quill cache sync' would be a no-op.`,
		Usage: "quill cache status [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("status", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("cache status takes no positional arguments")
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			articles, err := loadCorpus(cfg, logger)
			if err != nil {
				return err
			}

			articleCache, err := openCache(cfg, logger)
			if err != nil {
				return err
			}
			defer articleCache.Close()

			cached, err := articleCache.Digests(ctx)
			if err != nil {
				return err
			}

			status := compareDigests(articles, cached)

			if done, err := params.EmitJSON(status); done {
				return err
			}

			fmt.Printf("%d cached, %d in corpus\n", status.Cached, status.Corpus)
			if len(status.Missing)+len(status.Stale)+len(status.Orphaned) == 0 {
				fmt.Println("cache is up to date")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			for _, slug := range status.Missing {
				fmt.Fprintf(writer, "missing\t%s\n", slug)
			}
			for _, slug := range status.Stale {
				fmt.Fprintf(writer, "stale\t%s\n", slug)
			}
			for _, slug := range status.Orphaned {
				fmt.Fprintf(writer, "orphaned\t%s\n", slug)
			}
			if err := writer.Flush(); err != nil {
				return err
			}
			fmt.Println("\nrun 'quill cache sync' to reconcile")
			return nil
		},
	}
}

// openCache opens the configured cache database, creating its parent
// directory first.
func openCache(cfg *config.Config, logger *slog.Logger) (*cache.Cache, error) {
	if err := cfg.EnsurePaths(); err != nil {
		return nil, err
	}
	return cache.Open(cache.Config{
		Path:     cfg.Cache.Path,
		PoolSize: cfg.Cache.PoolSize,
		Logger:   logger,
	})
}

// compareDigests classifies every slug on either side of the cache
// boundary. Slices come back sorted and non-nil for stable JSON.
func compareDigests(articles []schema.Article, cached map[string]digest.Digest) cacheStatus {
	status := cacheStatus{
		Cached:   len(cached),
		Corpus:   len(articles),
		Missing:  []string{},
		Stale:    []string{},
		Orphaned: []string{},
	}
	inCorpus := make(map[string]struct{}, len(articles))
	for _, entry := range articles {
		inCorpus[entry.Slug] = struct{}{}
		stored, ok := cached[entry.Slug]
		switch {
		case !ok:
			status.Missing = append(status.Missing, entry.Slug)
		case stored != entry.Digest:
			status.Stale = append(status.Stale, entry.Slug)
		}
	}
	for slug := range cached {
		if _, ok := inCorpus[slug]; !ok {
			status.Orphaned = append(status.Orphaned, slug)
		}
	}
	sort.Strings(status.Missing)
	sort.Strings(status.Stale)
	sort.Strings(status.Orphaned)
	return status
}
