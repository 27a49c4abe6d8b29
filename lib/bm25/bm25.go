// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package bm25

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// Okapi BM25 parameters, standard values.
const (
	paramK1      = 1.2
	paramB       = 0.75
	paramEpsilon = 0.25
)

// tokenPattern splits text into lowercase alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Field is one weighted text field of a document. Weight controls
// how many times the field's tokens repeat in the composite document
// (higher = more influence on ranking). Zero or negative weight
// skips the field.
type Field struct {
	Text   string
	Weight int
}

// Document is a named collection of weighted fields. Name identifies
// the document in results (for articles, the slug); it is not scored
// unless also included as a Field.
type Document struct {
	Name   string
	Fields []Field
}

// Result is a single hit with its relevance score.
type Result struct {
	Name string

	// Score is unbounded; typical corpora produce values in the
	// 0-20 range. Higher is more relevant.
	Score float64
}

// Index is an immutable BM25 index built at construction time. Safe
// for concurrent reads.
type Index struct {
	documents []Document

	// termFrequencies[i][term] is the term count in document i's
	// composite token stream.
	termFrequencies []map[string]int

	// lengths[i] is the composite token count of document i.
	lengths []int

	averageLength float64

	// idf[term] is the precomputed inverse document frequency.
	idf map[string]float64
}

// New builds a BM25 index over the given documents.
func New(documents []Document) *Index {
	index := &Index{
		documents:       documents,
		termFrequencies: make([]map[string]int, len(documents)),
		lengths:         make([]int, len(documents)),
		idf:             make(map[string]float64),
	}

	// documentFrequency[term] = number of documents containing term.
	documentFrequency := make(map[string]int)

	var totalLength int
	for i, document := range documents {
		tokens := compositeTokens(document)
		index.lengths[i] = len(tokens)
		totalLength += len(tokens)

		frequency := make(map[string]int)
		seen := make(map[string]bool)
		for _, token := range tokens {
			frequency[token]++
			if !seen[token] {
				seen[token] = true
				documentFrequency[token]++
			}
		}
		index.termFrequencies[i] = frequency
	}

	if len(documents) > 0 {
		index.averageLength = float64(totalLength) / float64(len(documents))
	}

	// Terms appearing in (nearly) every document would get zero or
	// negative IDF; clamp to a small positive epsilon so they still
	// contribute a sliver of ranking signal.
	documentCount := float64(len(documents))
	for term, frequency := range documentFrequency {
		idf := math.Log(1 + (documentCount-float64(frequency)+0.5)/(float64(frequency)+0.5))
		if idf < 0 {
			idf = paramEpsilon
		}
		index.idf[term] = idf
	}

	return index
}

// Search returns up to limit documents ranked by relevance to the
// query. A limit of 0 means no limit. Returns nil when the query
// produces no tokens or matches nothing.
func (index *Index) Search(query string, limit int) []Result {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	type scored struct {
		index int
		score float64
	}
	var hits []scored

	for i := range index.documents {
		score := index.score(i, queryTokens)
		if score > 0 {
			hits = append(hits, scored{index: i, score: score})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = Result{
			Name:  index.documents[hit.index].Name,
			Score: hit.score,
		}
	}
	return results
}

// score computes the BM25 score of one document against the query.
func (index *Index) score(documentIndex int, queryTokens []string) float64 {
	frequencies := index.termFrequencies[documentIndex]
	length := float64(index.lengths[documentIndex])

	var score float64
	for _, token := range queryTokens {
		idf, exists := index.idf[token]
		if !exists {
			continue
		}
		frequency := float64(frequencies[token])
		if frequency == 0 {
			continue
		}

		// IDF * (tf * (k1 + 1)) / (tf + k1 * (1 - b + b * dl/avgdl))
		numerator := frequency * (paramK1 + 1)
		denominator := frequency + paramK1*(1-paramB+paramB*length/index.averageLength)
		score += idf * numerator / denominator
	}
	return score
}

// compositeTokens flattens a document into one token stream, with
// each field repeated Weight times. A simple alternative to
// per-field BM25 variants that behaves well on small corpora.
func compositeTokens(document Document) []string {
	var tokens []string
	for _, field := range document.Fields {
		if field.Weight <= 0 {
			continue
		}
		fieldTokens := Tokenize(field.Text)
		for i := 0; i < field.Weight; i++ {
			tokens = append(tokens, fieldTokens...)
		}
	}
	return tokens
}

// Tokenize lowercases text and splits it into alphanumeric tokens,
// dropping single-character tokens ("a", "I") that carry no ranking
// signal.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	matches := tokenPattern.FindAllString(lower, -1)

	tokens := matches[:0]
	for _, match := range matches {
		if len(match) >= 2 {
			tokens = append(tokens, match)
		}
	}
	return tokens
}
