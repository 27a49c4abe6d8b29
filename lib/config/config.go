// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for the quill CLI.
type Config struct {
	// ContentRoot is the directory holding the article markdown
	// tree. Required.
	ContentRoot string `yaml:"content_root"`

	// Cache configures the SQLite article cache.
	Cache CacheConfig `yaml:"cache"`

	// Lint configures the linter.
	Lint LintConfig `yaml:"lint"`

	// Snapshot configures corpus snapshots.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Display configures terminal rendering.
	Display DisplayConfig `yaml:"display"`
}

// CacheConfig configures the SQLite article cache.
type CacheConfig struct {
	// Path is the cache database file.
	// Default: ${HOME}/.cache/quill/articles.db
	Path string `yaml:"path"`

	// PoolSize is the connection pool size. Default: 4.
	PoolSize int `yaml:"pool_size"`
}

// LintConfig configures the linter.
type LintConfig struct {
	// Ruleset is the path to a JSONC ruleset file. Empty means the
	// built-in defaults: every rule enabled at default severity.
	Ruleset string `yaml:"ruleset"`
}

// SnapshotConfig configures corpus snapshots.
type SnapshotConfig struct {
	// Dir is where snapshot files are written.
	// Default: ${HOME}/.cache/quill/snapshots
	Dir string `yaml:"dir"`
}

// DisplayConfig configures terminal rendering.
type DisplayConfig struct {
	// Theme selects the color palette: "auto" follows the terminal
	// background, "dark" and "light" force one. Default: auto.
	Theme string `yaml:"theme"`

	// CodeStyle is the chroma style name for highlighted code
	// blocks. Default: monokai.
	CodeStyle string `yaml:"code_style"`

	// ListLimit is the default number of articles shown by listing
	// commands. Zero means no limit.
	ListLimit int `yaml:"list_limit"`
}

// Default returns the default configuration. These defaults are the
// base that a config file merges over; a missing file section keeps
// its default.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	stateDir := filepath.Join(homeDir, ".cache", "quill")

	return &Config{
		ContentRoot: ".",
		Cache: CacheConfig{
			Path:     filepath.Join(stateDir, "articles.db"),
			PoolSize: 4,
		},
		Snapshot: SnapshotConfig{
			Dir: filepath.Join(stateDir, "snapshots"),
		},
		Display: DisplayConfig{
			Theme:     "auto",
			CodeStyle: "monokai",
		},
	}
}

// Load loads configuration from the QUILL_CONFIG environment
// variable. When the variable is unset, the defaults are returned —
// quill works out of the box inside a content tree.
func Load() (*Config, error) {
	configPath := os.Getenv("QUILL_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging
// over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// paths. QUILL_ROOT refers to the (already expanded) content root so
// dependent paths can live inside it.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.ContentRoot = expandVars(c.ContentRoot, vars)
	vars["QUILL_ROOT"] = c.ContentRoot

	c.Cache.Path = expandVars(c.Cache.Path, vars)
	c.Lint.Ruleset = expandVars(c.Lint.Ruleset, vars)
	c.Snapshot.Dir = expandVars(c.Snapshot.Dir, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// themes are the accepted display.theme values.
var themes = []string{"auto", "dark", "light"}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.ContentRoot == "" {
		errs = append(errs, fmt.Errorf("content_root is required"))
	}
	if c.Cache.Path == "" {
		errs = append(errs, fmt.Errorf("cache.path is required"))
	}
	if c.Cache.PoolSize < 0 {
		errs = append(errs, fmt.Errorf("cache.pool_size must not be negative"))
	}
	if !slices.Contains(themes, c.Display.Theme) {
		errs = append(errs, fmt.Errorf("display.theme must be one of: %v", themes))
	}
	if c.Display.ListLimit < 0 {
		errs = append(errs, fmt.Errorf("display.list_limit must not be negative"))
	}

	return errors.Join(errs...)
}

// EnsurePaths creates the state directories (cache parent, snapshot
// dir) if they don't exist. The content root is never created — a
// missing corpus is an error, not something to silently invent.
func (c *Config) EnsurePaths() error {
	paths := []string{
		filepath.Dir(c.Cache.Path),
		c.Snapshot.Dir,
	}
	for _, path := range paths {
		if path == "" || path == "." {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
