// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package article

import (
	"testing"

	"github.com/quill-foundation/quill/lib/schema"
)

func searchCorpus() *Index {
	fab := makeArticle("floating-action-button", "2016-05-20", "swiftui", "animation")
	fab.Content.Title = "Building a Floating Action Button in SwiftUI"
	fab.Content.Body = "A floating action button hovers above content and exposes the primary action."

	maps := makeArticle("swift-map-compactmap-flatmap", "2017-02-10", "swift", "functional")
	maps.Content.Title = "map, compactMap and flatMap"
	maps.Content.Body = "compactMap drops nil results; flatMap flattens nested collections."

	debug := makeArticle("debugging-view-hierarchies", "2018-09-01", "debugging", "xcode")
	debug.Content.Title = "Debugging View Hierarchies"
	debug.Content.Body = "Capture the view hierarchy in Xcode to inspect each layer."

	transitions := makeArticle("swiftui-transitions", "2019-04-01", "swiftui", "animation")
	transitions.Content.Title = "Custom Transitions in SwiftUI"
	transitions.Content.Body = "Transitions animate view insertion and removal."

	return Fill([]schema.Article{fab, maps, debug, transitions})
}

func TestSearchRelevance(t *testing.T) {
	idx := searchCorpus()

	results := idx.Search("floating action button", Filter{}, 0)
	if len(results) == 0 {
		t.Fatal("no results")
	}
	if results[0].Article.Slug != "floating-action-button" {
		t.Errorf("top result = %q", results[0].Article.Slug)
	}

	results = idx.Search("compactMap nil", Filter{}, 0)
	if len(results) == 0 || results[0].Article.Slug != "swift-map-compactmap-flatmap" {
		t.Errorf("compactMap query top result wrong")
	}
}

func TestSearchSlugBoost(t *testing.T) {
	idx := searchCorpus()

	// Naming a slug ranks that article first even when the query's
	// other terms favor something else.
	results := idx.Search("debugging-view-hierarchies animation swiftui", Filter{}, 0)
	if len(results) == 0 || results[0].Article.Slug != "debugging-view-hierarchies" {
		t.Fatalf("slug mention not boosted: %v", resultSlugs(results))
	}
}

func TestSearchTagNeighborBoost(t *testing.T) {
	idx := searchCorpus()

	// An exact slug mention pulls in tag neighbors right behind it:
	// swiftui-transitions shares swiftui+animation with the FAB
	// article and must outrank pure-BM25 hits.
	results := idx.Search("floating-action-button", Filter{}, 0)
	if len(results) < 2 {
		t.Fatalf("results = %v", resultSlugs(results))
	}
	if results[0].Article.Slug != "floating-action-button" {
		t.Errorf("top = %q", results[0].Article.Slug)
	}
	if results[1].Article.Slug != "swiftui-transitions" {
		t.Errorf("second = %q, want the tag neighbor", results[1].Article.Slug)
	}
}

func TestSearchFilterApplies(t *testing.T) {
	idx := searchCorpus()

	results := idx.Search("swiftui", Filter{Tag: "animation"}, 0)
	for _, result := range results {
		found := false
		for _, tag := range result.Article.Content.Tags {
			if tag == "animation" {
				found = true
			}
		}
		if !found {
			t.Errorf("%q escaped the tag filter", result.Article.Slug)
		}
	}
}

func TestSearchLimit(t *testing.T) {
	idx := searchCorpus()
	results := idx.Search("view swiftui", Filter{}, 1)
	if len(results) != 1 {
		t.Errorf("len = %d, want 1", len(results))
	}
}

func TestSearchRebuildAfterMutation(t *testing.T) {
	idx := searchCorpus()

	// Prime the lazy index, then mutate.
	_ = idx.Search("swiftui", Filter{}, 0)
	fresh := makeArticle("property-wrappers", "2020-01-01", "swift")
	fresh.Content.Title = "Understanding Property Wrappers"
	idx.Put(fresh)

	results := idx.Search("property wrappers", Filter{}, 0)
	if len(results) == 0 || results[0].Article.Slug != "property-wrappers" {
		t.Errorf("search index not rebuilt after Put: %v", resultSlugs(results))
	}

	idx.Remove("property-wrappers")
	results = idx.Search("property wrappers", Filter{}, 0)
	for _, result := range results {
		if result.Article.Slug == "property-wrappers" {
			t.Error("removed article still in search results")
		}
	}
}

func resultSlugs(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, result := range results {
		out[i] = result.Article.Slug
	}
	return out
}
