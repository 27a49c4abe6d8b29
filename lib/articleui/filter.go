// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package articleui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quill-foundation/quill/lib/mdterm"
	"github.com/quill-foundation/quill/lib/schema"
)

// FilterModel is a substring filter over the article list. Matching
// is case-insensitive against title, slug, tags, and author — if any
// field contains the query, the article stays visible.
type FilterModel struct {
	// Input is the current filter query text.
	Input string

	// Active is true while the filter input has keyboard focus.
	Active bool
}

// Matches reports whether an article matches the current filter. An
// empty filter matches everything.
func (filter *FilterModel) Matches(article schema.Article) bool {
	if filter.Input == "" {
		return true
	}
	query := strings.ToLower(filter.Input)

	if strings.Contains(strings.ToLower(article.Content.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(article.Slug), query) {
		return true
	}
	for _, tag := range article.Content.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(article.Content.Author), query)
}

// Apply returns the articles that match the current filter text,
// preserving input order.
func (filter *FilterModel) Apply(articles []schema.Article) []schema.Article {
	if filter.Input == "" {
		return articles
	}
	var result []schema.Article
	for _, article := range articles {
		if filter.Matches(article) {
			result = append(result, article)
		}
	}
	return result
}

// HandleRune appends a typed character to the filter input.
func (filter *FilterModel) HandleRune(character rune) {
	filter.Input += string(character)
}

// HandleBackspace removes the last character. Returns false when the
// input was already empty.
func (filter *FilterModel) HandleBackspace() bool {
	if len(filter.Input) == 0 {
		return false
	}
	runes := []rune(filter.Input)
	filter.Input = string(runes[:len(runes)-1])
	return true
}

// Clear resets the filter input and deactivates it.
func (filter *FilterModel) Clear() {
	filter.Input = ""
	filter.Active = false
}

// View renders the filter bar. Active: input with a cursor. Inactive
// with text: a subtle indicator. Inactive and empty: hidden.
func (filter *FilterModel) View(theme mdterm.Theme, width int) string {
	if !filter.Active && filter.Input == "" {
		return ""
	}

	if filter.Active {
		style := lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Width(width)
		cursor := lipgloss.NewStyle().
			Foreground(theme.HeadingForeground).
			Bold(true).
			Render("▎")
		return style.Render(" / " + filter.Input + cursor)
	}

	dimStyle := lipgloss.NewStyle().
		Foreground(theme.FaintText).
		Width(width)
	return dimStyle.Render(" filter: " + filter.Input)
}
