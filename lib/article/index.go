// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package article

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/quill-foundation/quill/lib/bm25"
	"github.com/quill-foundation/quill/lib/schema"
)

// Filter controls which articles [Index.List] returns. Zero-value
// fields mean "no filter" for that dimension; all non-zero fields
// must match (AND semantics).
type Filter struct {
	// Tag matches articles whose tag list contains this tag.
	Tag string

	// Author matches articles with this exact author.
	Author string

	// Layout matches articles with this exact layout.
	Layout string

	// Year matches articles published in this year. Zero means no
	// filter (drafts have year 0 but are gated by IncludeDrafts,
	// never matched by Year).
	Year int

	// IncludeDrafts also returns undated articles. Drafts sort
	// after all dated articles.
	IncludeDrafts bool
}

// Stats holds aggregate counts across the corpus.
type Stats struct {
	Total    int            `json:"total"`
	Drafts   int            `json:"drafts"`
	ByTag    map[string]int `json:"by_tag"`
	ByAuthor map[string]int `json:"by_author"`
	ByLayout map[string]int `json:"by_layout"`
	ByYear   map[int]int    `json:"by_year"`
}

// Related pairs an article with its relatedness rank relative to a
// reference article. SharedTags is the number of tags the two
// articles have in common.
type Related struct {
	Article    schema.Article
	SharedTags int
}

// Index is the in-memory article index. Construct with [NewIndex].
// Not safe for concurrent use.
type Index struct {
	articles map[string]schema.Article

	// Secondary indexes: dimension value → set of slugs.
	byTag    map[string]map[string]struct{}
	byAuthor map[string]map[string]struct{}
	byLayout map[string]map[string]struct{}
	byYear   map[int]map[string]struct{}

	// Full-text search index, rebuilt lazily after mutations.
	searchIndex *bm25.Index
	searchDirty bool
}

// NewIndex returns an empty index ready for use.
func NewIndex() *Index {
	return &Index{
		articles: make(map[string]schema.Article),
		byTag:    make(map[string]map[string]struct{}),
		byAuthor: make(map[string]map[string]struct{}),
		byLayout: make(map[string]map[string]struct{}),
		byYear:   make(map[int]map[string]struct{}),
	}
}

// Fill is a convenience constructor: a new index populated from a
// slice of loaded articles.
func Fill(articles []schema.Article) *Index {
	index := NewIndex()
	for _, article := range articles {
		index.Put(article)
	}
	return index
}

// Len returns the number of articles in the index.
func (idx *Index) Len() int {
	return len(idx.articles)
}

// Put adds or replaces an article, keyed by slug. All secondary
// indexes are updated. The article's tag slice is cloned at the
// storage boundary so later caller mutations cannot corrupt index
// maintenance.
func (idx *Index) Put(article schema.Article) {
	if old, exists := idx.articles[article.Slug]; exists {
		idx.updateIndexes(&old, removeFromStringIndex, removeFromIntIndex)
	}

	if len(article.Content.Tags) > 0 {
		article.Content.Tags = append(schema.TagList(nil), article.Content.Tags...)
	}

	idx.articles[article.Slug] = article
	idx.updateIndexes(&article, addToStringIndex, addToIntIndex)
	idx.searchDirty = true
}

// Remove deletes an article by slug and cleans up all secondary
// indexes. No-op if the slug is not present.
func (idx *Index) Remove(slug string) {
	old, exists := idx.articles[slug]
	if !exists {
		return
	}
	idx.updateIndexes(&old, removeFromStringIndex, removeFromIntIndex)
	delete(idx.articles, slug)
	idx.searchDirty = true
}

// Get returns a single article by slug. The second return value is
// false if the slug is unknown.
func (idx *Index) Get(slug string) (schema.Article, bool) {
	article, exists := idx.articles[slug]
	return article, exists
}

// List returns articles matching the filter, newest first. An empty
// filter returns all dated articles.
func (idx *Index) List(filter Filter) []schema.Article {
	var result []schema.Article
	for _, article := range idx.articles {
		if matchesFilter(&article, &filter) {
			result = append(result, article)
		}
	}
	sortArticles(result)
	return result
}

// Recent returns the n newest dated articles. n <= 0 returns nil.
func (idx *Index) Recent(n int) []schema.Article {
	if n <= 0 {
		return nil
	}
	result := idx.List(Filter{})
	if len(result) > n {
		result = result[:n]
	}
	return result
}

// Grep searches titles and bodies for a regex pattern. Returns
// matches newest first, or an error for invalid patterns.
func (idx *Index) Grep(pattern string) ([]schema.Article, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid grep pattern: %w", err)
	}

	var result []schema.Article
	for _, article := range idx.articles {
		if re.MatchString(article.Content.Title) || re.MatchString(article.Content.Body) {
			result = append(result, article)
		}
	}
	sortArticles(result)
	return result, nil
}

// Tags returns every tag in the corpus with its article count.
func (idx *Index) Tags() map[string]int {
	counts := make(map[string]int, len(idx.byTag))
	for tag, slugs := range idx.byTag {
		counts[tag] = len(slugs)
	}
	return counts
}

// Stats returns aggregate counts across all articles, drafts
// included.
func (idx *Index) Stats() Stats {
	stats := Stats{
		Total:    len(idx.articles),
		ByTag:    make(map[string]int),
		ByAuthor: make(map[string]int),
		ByLayout: make(map[string]int),
		ByYear:   make(map[int]int),
	}
	for _, article := range idx.articles {
		if article.IsDraft {
			stats.Drafts++
		} else {
			stats.ByYear[article.Year()]++
		}
		for _, tag := range article.Content.Tags {
			stats.ByTag[tag]++
		}
		if article.Content.Author != "" {
			stats.ByAuthor[article.Content.Author]++
		}
		if article.Content.Layout != "" {
			stats.ByLayout[article.Content.Layout]++
		}
	}
	return stats
}

// RelatedTo returns up to limit articles related to the given slug,
// ranked by shared-tag count (descending) then recency. The
// reference article itself is excluded. Returns nil for unknown
// slugs or articles with no tags in common with anything.
func (idx *Index) RelatedTo(slug string, limit int) []Related {
	reference, exists := idx.articles[slug]
	if !exists {
		return nil
	}

	// Count shared tags through the byTag index rather than
	// scanning every article: corpora have few tags per article.
	shared := make(map[string]int)
	for _, tag := range reference.Content.Tags {
		for other := range idx.byTag[tag] {
			if other != slug {
				shared[other]++
			}
		}
	}
	if len(shared) == 0 {
		return nil
	}

	result := make([]Related, 0, len(shared))
	for other, count := range shared {
		result = append(result, Related{
			Article:    idx.articles[other],
			SharedTags: count,
		})
	}
	slices.SortFunc(result, func(a, b Related) int {
		if a.SharedTags != b.SharedTags {
			return b.SharedTags - a.SharedTags
		}
		return compareArticles(&a.Article, &b.Article)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// --- Internal helpers ---

// updateIndexes applies a string-keyed and an int-keyed index
// operation to every secondary index for the article. Put passes the
// add pair, Remove the remove pair.
func (idx *Index) updateIndexes(
	article *schema.Article,
	stringOp func(map[string]map[string]struct{}, string, string),
	intOp func(map[int]map[string]struct{}, int, string),
) {
	for _, tag := range article.Content.Tags {
		stringOp(idx.byTag, tag, article.Slug)
	}
	if article.Content.Author != "" {
		stringOp(idx.byAuthor, article.Content.Author, article.Slug)
	}
	if article.Content.Layout != "" {
		stringOp(idx.byLayout, article.Content.Layout, article.Slug)
	}
	if !article.IsDraft {
		intOp(idx.byYear, article.Year(), article.Slug)
	}
}

func matchesFilter(article *schema.Article, filter *Filter) bool {
	if article.IsDraft && !filter.IncludeDrafts {
		return false
	}
	if filter.Tag != "" && !slices.Contains(article.Content.Tags, filter.Tag) {
		return false
	}
	if filter.Author != "" && article.Content.Author != filter.Author {
		return false
	}
	if filter.Layout != "" && article.Content.Layout != filter.Layout {
		return false
	}
	if filter.Year != 0 && (article.IsDraft || article.Year() != filter.Year) {
		return false
	}
	return true
}

// compareArticles orders newest first, drafts last, slug ascending
// as tiebreaker.
func compareArticles(a, b *schema.Article) int {
	switch {
	case a.IsDraft && !b.IsDraft:
		return 1
	case !a.IsDraft && b.IsDraft:
		return -1
	}
	if !a.Date.Equal(b.Date) {
		if a.Date.After(b.Date) {
			return -1
		}
		return 1
	}
	return strings.Compare(a.Slug, b.Slug)
}

// sortArticles sorts reverse-chronologically, newest first.
func sortArticles(articles []schema.Article) {
	sort.Slice(articles, func(a, b int) bool {
		return compareArticles(&articles[a], &articles[b]) < 0
	})
}

func addToStringIndex(index map[string]map[string]struct{}, key, slug string) {
	set, exists := index[key]
	if !exists {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[slug] = struct{}{}
}

func removeFromStringIndex(index map[string]map[string]struct{}, key, slug string) {
	set, exists := index[key]
	if !exists {
		return
	}
	delete(set, slug)
	if len(set) == 0 {
		delete(index, key)
	}
}

func addToIntIndex(index map[int]map[string]struct{}, key int, slug string) {
	set, exists := index[key]
	if !exists {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[slug] = struct{}{}
}

func removeFromIntIndex(index map[int]map[string]struct{}, key int, slug string) {
	set, exists := index[key]
	if !exists {
		return
	}
	delete(set, slug)
	if len(set) == 0 {
		delete(index, key)
	}
}
