// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quill-foundation/quill/lib/digest"
)

// writeArticle creates an article file under root with a minimal
// valid header. Returns the full path.
func writeArticle(t *testing.T, root, name, title string) string {
	t.Helper()
	document := "---\ntitle: " + title + "\ntags: [swift]\nlayout: post\nauthor: jane\n---\nbody of " + title + "\n"
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeArticle(t, root, "2016-05-20-floating-action-button.md", "FAB")
	writeArticle(t, root, "2017-01-03-compact-map.markdown", "compactMap")
	writeArticle(t, root, "2018/2018-06-01-nested.md", "Nested")

	// Non-markdown and hidden content must be skipped.
	if err := os.WriteFile(filepath.Join(root, "image.png"), []byte{0x89}, 0o644); err != nil {
		t.Fatal(err)
	}
	writeArticle(t, root, ".drafts/2019-01-01-hidden.md", "Hidden")

	result, err := (&Store{Root: root}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Load errors: %v", result.Errors)
	}
	if len(result.Articles) != 3 {
		t.Fatalf("loaded %d articles, want 3", len(result.Articles))
	}

	// Sorted by path: 2016..., 2017..., 2018/...
	if result.Articles[0].Slug != "floating-action-button" {
		t.Errorf("Articles[0].Slug = %q", result.Articles[0].Slug)
	}
	if result.Articles[0].Date.Year() != 2016 {
		t.Errorf("Articles[0].Date = %v", result.Articles[0].Date)
	}
	if result.Articles[2].Path != "2018/2018-06-01-nested.md" {
		t.Errorf("Articles[2].Path = %q", result.Articles[2].Path)
	}

	if result.Articles[0].Digest == (digest.Digest{}) {
		t.Error("loaded article has a zero digest")
	}
}

func TestLoadCollectsParseErrors(t *testing.T) {
	root := t.TempDir()
	writeArticle(t, root, "2020-02-02-good.md", "Good")
	if err := os.WriteFile(filepath.Join(root, "2020-03-03-bad.md"), []byte("no front matter here\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := (&Store{Root: root}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Articles) != 1 || result.Articles[0].Slug != "good" {
		t.Fatalf("Articles = %+v, want just the good one", result.Articles)
	}
	if len(result.Errors) != 1 || result.Errors[0].Path != "2020-03-03-bad.md" {
		t.Fatalf("Errors = %v, want one for the bad file", result.Errors)
	}
}

func TestLoadDrafts(t *testing.T) {
	root := t.TempDir()
	writeArticle(t, root, "work-in-progress.md", "WIP")

	result, err := (&Store{Root: root}).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(result.Articles) != 1 {
		t.Fatalf("loaded %d articles, want 1", len(result.Articles))
	}
	draft := result.Articles[0]
	if !draft.IsDraft {
		t.Error("undated file not marked as draft")
	}
	if draft.Slug != "work-in-progress" {
		t.Errorf("draft Slug = %q", draft.Slug)
	}
	if !draft.Date.IsZero() {
		t.Errorf("draft Date = %v, want zero", draft.Date)
	}
}

func TestLoadMissingRoot(t *testing.T) {
	if _, err := (&Store{Root: filepath.Join(t.TempDir(), "absent")}).Load(); err == nil {
		t.Fatal("Load on a missing root succeeded")
	}
}

func TestLoadFile(t *testing.T) {
	root := t.TempDir()
	path := writeArticle(t, root, "2021-07-09-single.md", "Single")

	article, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if article.Slug != "single" || article.Content.Title != "Single" {
		t.Errorf("article = %+v", article)
	}
}
