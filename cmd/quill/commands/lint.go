// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/quill-foundation/quill/cmd/quill/cli"
	"github.com/quill-foundation/quill/lib/lint"
)

type lintParams struct {
	cli.JSONOutput
	configFlag
	Ruleset string `flag:"ruleset" desc:"path to a JSONC ruleset (overrides the configured one)"`
	Quiet   bool   `flag:"quiet,q" desc:"suppress warnings, report errors only"`
}

func lintCommand() *cli.Command {
	var params lintParams

	return &cli.Command{
		Name:    "lint",
		Summary: "Check articles for structural problems",
		Description: `Run the article linter over the whole content root, or over the
files given as arguments. Rules cover header completeness, tag
hygiene, filename dates, unclosed code fences, fence language tags,
and image references that escape the repository or point nowhere.

Findings print in compiler format (path:line: severity: rule:
message). The exit code is 1 when any error-severity finding fires;
warnings alone exit 0.`,
		Usage: "quill lint [files...] [flags]",
		Examples: []cli.Example{
			{
				Description: "Lint the whole corpus",
				Command:     "quill lint",
			},
			{
				Description: "Lint one file with a custom ruleset",
				Command:     "quill lint _posts/2021-03-10-matched-geometry.md --ruleset lint.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("lint", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := loadConfig(params.configFlag)
			if err != nil {
				return err
			}

			rules := lint.DefaultRuleset()
			rulesetPath := params.Ruleset
			if rulesetPath == "" {
				rulesetPath = cfg.Lint.Ruleset
			}
			if rulesetPath != "" {
				rules, err = lint.ReadRuleset(rulesetPath)
				if err != nil {
					return err
				}
			}

			var docs []lint.Document
			if len(args) > 0 {
				for _, path := range args {
					raw, err := os.ReadFile(path)
					if err != nil {
						return err
					}
					relative, relErr := filepath.Rel(cfg.ContentRoot, path)
					if relErr != nil || !filepath.IsLocal(relative) {
						relative = path
					}
					docs = append(docs, lint.Document{Path: filepath.ToSlash(relative), Raw: raw})
				}
			} else {
				docs, err = lint.LoadDirectory(cfg.ContentRoot)
				if err != nil {
					return err
				}
			}

			linter := &lint.Linter{Rules: rules, Root: cfg.ContentRoot}
			findings := linter.Corpus(docs)

			if params.Quiet {
				errorsOnly := findings[:0]
				for _, finding := range findings {
					if finding.Severity == lint.SeverityError {
						errorsOnly = append(errorsOnly, finding)
					}
				}
				findings = errorsOnly
			}

			if done, err := params.EmitJSON(findings); done {
				if err != nil {
					return err
				}
				if lint.HasErrors(findings) {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}

			for _, finding := range findings {
				fmt.Println(finding.String())
			}
			if len(findings) == 0 {
				logger.Info("lint clean", "documents", len(docs))
			}
			if lint.HasErrors(findings) {
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}
