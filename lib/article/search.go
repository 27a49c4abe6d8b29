// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package article

import (
	"slices"
	"strings"

	"github.com/quill-foundation/quill/lib/bm25"
	"github.com/quill-foundation/quill/lib/schema"
)

// BM25 field weights for article documents. The title is the
// highest-signal field (a curated summary), tags are categorical
// terms, the body is the full prose.
const (
	weightTitle = 5
	weightTags  = 3
	weightBody  = 2
)

// Score boost magnitudes, separated by orders of magnitude from BM25
// scores (0-20 for typical corpora) so the tiers never interleave:
// exact slug match > tag neighbor of an exact match > BM25-only.
const (
	boostExactSlug   = 1e6
	boostTagNeighbor = 1000
)

// SearchResult pairs an article with its relevance score.
type SearchResult struct {
	Article schema.Article
	Score   float64
}

// Search performs BM25-ranked full-text search with exact-match
// boosting for slugs. When a query token (or hyphenated token run)
// names an article slug, that article ranks first and articles
// sharing a tag with it get a neighbor boost — "more like
// floating-action-button" falls out of the same query path.
//
// Filter narrows results with the same AND semantics as [Index.List].
// Limit caps the result count (0 means no limit). Ordering is score
// descending, then newest first, then slug.
func (idx *Index) Search(query string, filter Filter, limit int) []SearchResult {
	if idx.searchDirty || idx.searchIndex == nil {
		idx.rebuildSearch()
	}

	boosts := make(map[string]float64)
	for _, slug := range idx.slugMentions(query) {
		boosts[slug] = boostExactSlug
		for _, tag := range idx.articles[slug].Content.Tags {
			for neighbor := range idx.byTag[tag] {
				if neighbor == slug {
					continue
				}
				if boostTagNeighbor > boosts[neighbor] {
					boosts[neighbor] = boostTagNeighbor
				}
			}
		}
	}

	// BM25 over the whole corpus; filtering happens afterward so
	// the filter cannot starve boosted results.
	bm25Results := idx.searchIndex.Search(query, 0)

	scored := make(map[string]float64, len(bm25Results)+len(boosts))
	for _, result := range bm25Results {
		scored[result.Name] = result.Score + boosts[result.Name]
	}
	for slug, boost := range boosts {
		if _, hasBM25 := scored[slug]; !hasBM25 {
			scored[slug] = boost
		}
	}

	var results []SearchResult
	for slug, score := range scored {
		article, exists := idx.articles[slug]
		if !exists {
			continue
		}
		if !matchesFilter(&article, &filter) {
			continue
		}
		results = append(results, SearchResult{Article: article, Score: score})
	}

	slices.SortFunc(results, func(a, b SearchResult) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return compareArticles(&a.Article, &b.Article)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// rebuildSearch constructs a fresh BM25 index from all articles.
// Called lazily on the first Search after any Put/Remove.
func (idx *Index) rebuildSearch() {
	documents := make([]bm25.Document, 0, len(idx.articles))
	for slug, article := range idx.articles {
		documents = append(documents, articleDocument(slug, &article))
	}
	idx.searchIndex = bm25.New(documents)
	idx.searchDirty = false
}

// articleDocument converts an article into a weighted BM25 document
// named by its slug.
func articleDocument(slug string, article *schema.Article) bm25.Document {
	fields := []bm25.Field{
		{Text: article.Content.Title, Weight: weightTitle},
		{Text: article.Content.Body, Weight: weightBody},
	}
	if len(article.Content.Tags) > 0 {
		fields = append(fields, bm25.Field{
			Text:   strings.Join(article.Content.Tags, " "),
			Weight: weightTags,
		})
	}
	return bm25.Document{Name: slug, Fields: fields}
}

// slugMentions returns the slugs of indexed articles mentioned
// verbatim in the query. Slugs are hyphenated lowercase tokens, so a
// whitespace split suffices; matching is case-insensitive.
func (idx *Index) slugMentions(query string) []string {
	var mentions []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(strings.ToLower(query)) {
		token = strings.Trim(token, `"'.,;:!?()`)
		if _, exists := idx.articles[token]; !exists {
			continue
		}
		if _, duplicate := seen[token]; duplicate {
			continue
		}
		seen[token] = struct{}{}
		mentions = append(mentions, token)
	}
	return mentions
}
