// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quill-foundation/quill/lib/digest"
	"github.com/quill-foundation/quill/lib/schema"
)

// Store loads articles from a content directory. It is a stateless
// reader: every Load walks the directory fresh. Callers that need
// repeated access without reparsing use lib/cache on top.
type Store struct {
	// Root is the content directory. Subdirectories are walked too —
	// some corpora group articles by year.
	Root string
}

// LoadError records a file that failed to parse. A bad article never
// aborts the corpus load; the caller decides whether partial results
// are acceptable (the linter wants exactly these errors, the index
// wants everything that did parse).
type LoadError struct {
	// Path is relative to the store root.
	Path string
	Err  error
}

func (e LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e LoadError) Unwrap() error { return e.Err }

// Result is the outcome of a corpus load: the articles that parsed
// and the per-file errors for those that did not.
type Result struct {
	Articles []schema.Article
	Errors   []LoadError
}

// Load walks the content directory and parses every Markdown file.
// Articles come back sorted by path for determinism; ordering for
// display is the index's job. Returns an error only when the root
// itself cannot be read.
func (store *Store) Load() (Result, error) {
	var result Result

	err := filepath.WalkDir(store.Root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Surface the root error; skip unreadable subtrees.
			if path == store.Root {
				return walkErr
			}
			result.Errors = append(result.Errors, LoadError{Path: store.relative(path), Err: walkErr})
			return fs.SkipDir
		}
		if entry.IsDir() {
			// Hidden directories (.git, .obsidian) are not content.
			if path != store.Root && strings.HasPrefix(entry.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !isMarkdown(entry.Name()) {
			return nil
		}

		article, err := store.loadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, LoadError{Path: store.relative(path), Err: err})
			return nil
		}
		result.Articles = append(result.Articles, article)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("walking %s: %w", store.Root, err)
	}

	sort.Slice(result.Articles, func(a, b int) bool {
		return result.Articles[a].Path < result.Articles[b].Path
	})
	sort.Slice(result.Errors, func(a, b int) bool {
		return result.Errors[a].Path < result.Errors[b].Path
	})
	return result, nil
}

// LoadFile parses a single article by path (absolute or relative to
// the process working directory, not the store root). Used by the
// linter's explicit-paths mode and by `quill show --file`.
func LoadFile(path string) (schema.Article, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Article{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return parseArticle(path, filepath.Base(path), raw)
}

// loadFile reads and parses one file inside the store root.
func (store *Store) loadFile(path string) (schema.Article, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return schema.Article{}, fmt.Errorf("reading: %w", err)
	}
	return parseArticle(store.relative(path), filepath.Base(path), raw)
}

// parseArticle builds a schema.Article from raw bytes. Filename
// identity (slug, date) is derived first; files without a date
// prefix become drafts with the bare filename as slug.
func parseArticle(displayPath, base string, raw []byte) (schema.Article, error) {
	content, err := schema.ParseDocument(raw)
	if err != nil {
		return schema.Article{}, err
	}

	article := schema.Article{
		Path:    displayPath,
		Content: content,
		Digest:  digest.Content(raw),
	}

	slug, date, err := schema.ParseFilename(base)
	if err != nil {
		// Draft: no date prefix. Slug falls back to the filename
		// without extension so the article is still addressable.
		article.IsDraft = true
		article.Slug = strings.TrimSuffix(strings.TrimSuffix(base, ".markdown"), ".md")
		return article, nil
	}
	article.Slug = slug
	article.Date = date
	return article, nil
}

// relative rewrites an absolute walk path as root-relative for
// display and for stable cache keys.
func (store *Store) relative(path string) string {
	relative, err := filepath.Rel(store.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(relative)
}

// isMarkdown reports whether a filename has a Markdown extension.
func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}
