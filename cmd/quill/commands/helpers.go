// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"log/slog"

	"github.com/quill-foundation/quill/lib/article"
	"github.com/quill-foundation/quill/lib/config"
	"github.com/quill-foundation/quill/lib/mdterm"
	"github.com/quill-foundation/quill/lib/schema"
	"github.com/quill-foundation/quill/lib/store"
)

// loadConfig loads and validates the configuration, honoring an
// explicit --config path over the QUILL_CONFIG environment variable,
// and a --content flag over the configured content root.
func loadConfig(flags configFlag) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.ConfigPath != "" {
		cfg, err = config.LoadFile(flags.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if flags.ContentRoot != "" {
		cfg.ContentRoot = flags.ContentRoot
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadCorpus walks the content root and returns the parsed articles.
// Files that fail to parse are logged as warnings and skipped; the
// linter is the tool for digging into them.
func loadCorpus(cfg *config.Config, logger *slog.Logger) ([]schema.Article, error) {
	contentStore := &store.Store{Root: cfg.ContentRoot}
	result, err := contentStore.Load()
	if err != nil {
		return nil, err
	}
	for _, loadError := range result.Errors {
		logger.Warn("skipping unparseable article",
			"path", loadError.Path, "error", loadError.Err)
	}
	return result.Articles, nil
}

// loadIndex builds the in-memory article index from the content root.
func loadIndex(cfg *config.Config, logger *slog.Logger) (*article.Index, error) {
	articles, err := loadCorpus(cfg, logger)
	if err != nil {
		return nil, err
	}
	return article.Fill(articles), nil
}

// displayTheme resolves the configured theme name and code style into
// an mdterm palette.
func displayTheme(cfg *config.Config) mdterm.Theme {
	theme := mdterm.Named(cfg.Display.Theme)
	if cfg.Display.CodeStyle != "" {
		theme.CodeStyle = cfg.Display.CodeStyle
	}
	return theme
}

// configFlag is embedded by every parameter struct so each command
// accepts --config and --content.
type configFlag struct {
	ConfigPath  string `flag:"config"  desc:"path to a quill config file (default: $QUILL_CONFIG)"`
	ContentRoot string `flag:"content" desc:"override the configured content root"`
}
