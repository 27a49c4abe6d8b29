// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/quill-foundation/quill/cmd/quill/cli"
	"github.com/quill-foundation/quill/lib/snapshot"
)

func snapshotCommand() *cli.Command {
	return &cli.Command{
		Name:    "snapshot",
		Summary: "Capture and compare corpus states",
		Description: `A snapshot records every article's slug, header fields, and content
digest in a single compressed file. Diffing two snapshots — or a
snapshot against the live corpus — shows what was published, removed,
or edited in between.`,
		Subcommands: []*cli.Command{
			snapshotCreateCommand(),
			snapshotDiffCommand(),
			snapshotListCommand(),
		},
	}
}

type snapshotCreateParams struct {
	cli.JSONOutput
	configFlag
	Output      string `flag:"output,o" desc:"write to this path instead of the snapshot directory"`
	Compression string `flag:"compression" desc:"payload compression: zstd, lz4, or none" default:"zstd"`
}

func snapshotCreateCommand() *cli.Command {
	var params snapshotCreateParams

	return &cli.Command{
		Name:    "create",
		Summary: "Snapshot the current corpus",
		Usage:   "quill snapshot create [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("snapshot create takes no positional arguments")
			}
			tag, err := snapshot.ParseCompressionTag(params.Compression)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}
			articles, err := loadCorpus(cfg, logger)
			if err != nil {
				return err
			}

			captured := snapshot.Capture(articles, time.Now())

			path := params.Output
			if path == "" {
				if err := cfg.EnsurePaths(); err != nil {
					return err
				}
				name := captured.CreatedAt.Format("20060102-150405") + ".qsnp"
				path = filepath.Join(cfg.Snapshot.Dir, name)
			}
			if err := captured.WriteFileWith(path, tag); err != nil {
				return err
			}

			if done, err := params.EmitJSON(map[string]any{
				"path":     path,
				"articles": len(captured.Records),
				"created":  captured.CreatedAt.Format(time.RFC3339),
			}); done {
				return err
			}

			fmt.Printf("wrote %s (%d articles)\n", path, len(captured.Records))
			return nil
		},
	}
}

type snapshotDiffParams struct {
	cli.JSONOutput
	configFlag
}

func snapshotDiffCommand() *cli.Command {
	var params snapshotDiffParams

	return &cli.Command{
		Name:    "diff",
		Summary: "Compare two snapshots, or a snapshot against the corpus",
		Description: `With one argument, compare that snapshot against the live corpus.
With two, compare the first (older) against the second (newer).`,
		Usage: "quill snapshot diff <before> [after] [flags]",
		Examples: []cli.Example{
			{
				Description: "What changed since last week's snapshot",
				Command:     "quill snapshot diff snapshots/20260816-090000.qsnp",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("diff", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 || len(args) > 2 {
				return fmt.Errorf("expected one or two snapshot paths\n\nusage: quill snapshot diff <before> [after]")
			}

			before, err := snapshot.ReadFile(args[0])
			if err != nil {
				return err
			}

			var after snapshot.Snapshot
			if len(args) == 2 {
				after, err = snapshot.ReadFile(args[1])
				if err != nil {
					return err
				}
			} else {
				cfg, err := loadConfig(params.configFlag)
				if err != nil {
					return err
				}
				articles, err := loadCorpus(cfg, logger)
				if err != nil {
					return err
				}
				after = snapshot.Capture(articles, time.Now())
			}

			diff := snapshot.Compare(&before, &after)

			if done, err := params.EmitJSON(diff); done {
				return err
			}

			if diff.Empty() {
				fmt.Println("no changes")
				return nil
			}
			for _, slug := range diff.Added {
				fmt.Printf("+ %s\n", slug)
			}
			for _, slug := range diff.Removed {
				fmt.Printf("- %s\n", slug)
			}
			for _, slug := range diff.Changed {
				fmt.Printf("~ %s\n", slug)
			}
			return nil
		},
	}
}

type snapshotListParams struct {
	cli.JSONOutput
	configFlag
}

type snapshotInfo struct {
	Path     string `json:"path"`
	Created  string `json:"created"`
	Articles int    `json:"articles"`
}

func snapshotListCommand() *cli.Command {
	var params snapshotListParams

	return &cli.Command{
		Name:    "list",
		Summary: "List snapshots in the snapshot directory",
		Usage:   "quill snapshot list [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("snapshot list takes no positional arguments")
			}
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(cfg.Snapshot.Dir)
			if err != nil {
				if os.IsNotExist(err) {
					entries = nil
				} else {
					return err
				}
			}

			var infos []snapshotInfo
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".qsnp") {
					continue
				}
				path := filepath.Join(cfg.Snapshot.Dir, entry.Name())
				snap, err := snapshot.ReadFile(path)
				if err != nil {
					logger.Warn("skipping unreadable snapshot", "path", path, "error", err)
					continue
				}
				infos = append(infos, snapshotInfo{
					Path:     path,
					Created:  snap.CreatedAt.Format(time.RFC3339),
					Articles: len(snap.Records),
				})
			}
			sort.Slice(infos, func(i, j int) bool {
				return infos[i].Created > infos[j].Created
			})

			if done, err := params.EmitJSON(infos); done {
				return err
			}

			if len(infos) == 0 {
				fmt.Fprintln(os.Stderr, "no snapshots")
				return nil
			}
			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "CREATED\tARTICLES\tPATH\n")
			for _, info := range infos {
				fmt.Fprintf(writer, "%s\t%d\t%s\n", info.Created, info.Articles, info.Path)
			}
			return writer.Flush()
		},
	}
}
