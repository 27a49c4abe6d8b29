// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package articleui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quill-foundation/quill/lib/mdterm"
	"github.com/quill-foundation/quill/lib/schema"
)

// testArticles returns three dated articles, newest first.
func testArticles() []schema.Article {
	makeArticle := func(slug, date, title, author, body string, tags ...string) schema.Article {
		parsed, err := time.Parse(schema.DateLayout, date)
		if err != nil {
			panic(err)
		}
		return schema.Article{
			Slug: slug,
			Date: parsed,
			Path: date + "-" + slug + ".md",
			Content: schema.ArticleContent{
				Title:  title,
				Tags:   schema.TagList(tags),
				Layout: "post",
				Author: author,
				Body:   body,
			},
		}
	}
	return []schema.Article{
		makeArticle("matched-geometry", "2021-03-10",
			"MatchedGeometryEffect In Depth", "jane",
			"The `matchedGeometryEffect` modifier interpolates frames.",
			"swiftui", "animation"),
		makeArticle("custom-transitions", "2019-04-01",
			"Custom View Transitions", "jane",
			"Transitions describe how views appear and disappear.",
			"swift", "animation"),
		makeArticle("floating-button", "2016-05-20",
			"A Floating Action Button", "alex",
			"Material design on iOS, for better or worse.",
			"swift", "uikit"),
	}
}

func testModel() Model {
	return NewModel(testArticles(), mdterm.DarkTheme)
}

// sized delivers a WindowSizeMsg and returns the resized model.
func sized(t *testing.T, model Model, width, height int) Model {
	t.Helper()
	updated, _ := model.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model)
}

// press delivers a single rune keystroke.
func press(t *testing.T, model Model, character rune) Model {
	t.Helper()
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{character}})
	return updated.(Model)
}

func TestNewModel(t *testing.T) {
	model := testModel()

	if len(model.visible) != 3 {
		t.Fatalf("expected 3 visible articles, got %d", len(model.visible))
	}
	if model.selectedSlug != "matched-geometry" {
		t.Errorf("initial selection should be the newest article, got %q", model.selectedSlug)
	}
	if model.cursor != 0 {
		t.Errorf("initial cursor should be 0, got %d", model.cursor)
	}
}

func TestModelNavigation(t *testing.T) {
	model := sized(t, testModel(), 120, 30)

	model = press(t, model, 'j')
	if model.cursor != 1 || model.selectedSlug != "custom-transitions" {
		t.Errorf("after j: cursor=%d selected=%q", model.cursor, model.selectedSlug)
	}

	model = press(t, model, 'j')
	if model.cursor != 2 {
		t.Errorf("after second j: cursor=%d", model.cursor)
	}

	// Clamped at the last article.
	model = press(t, model, 'j')
	if model.cursor != 2 {
		t.Errorf("cursor should clamp at 2, got %d", model.cursor)
	}

	model = press(t, model, 'k')
	if model.cursor != 1 {
		t.Errorf("after k: cursor=%d", model.cursor)
	}

	// G jumps to the end, g back to the top.
	model = press(t, model, 'G')
	if model.cursor != 2 {
		t.Errorf("after G: cursor=%d", model.cursor)
	}
	model = press(t, model, 'g')
	if model.cursor != 0 {
		t.Errorf("after g: cursor=%d", model.cursor)
	}
}

func TestModelView(t *testing.T) {
	model := testModel()

	if view := model.View(); view != "loading…" {
		t.Errorf("expected loading placeholder before WindowSizeMsg, got %q", view)
	}

	model = sized(t, model, 160, 30)
	view := model.View()

	if !strings.Contains(view, "MatchedGeometryEffect In Depth") {
		t.Error("view should contain the first article title")
	}
	if !strings.Contains(view, "2019-04-01") {
		t.Error("view should contain article dates")
	}
	if !strings.Contains(view, "3 articles") {
		t.Error("view should contain the article count")
	}
	if !strings.Contains(view, "q quit") {
		t.Error("view should contain help text")
	}
	// The selected article's body renders in the reading pane.
	if !strings.Contains(view, "matchedGeometryEffect") {
		t.Error("view should contain the selected article body")
	}
}

func TestModelEmptyState(t *testing.T) {
	model := sized(t, NewModel(nil, mdterm.DarkTheme), 80, 24)

	if view := model.View(); !strings.Contains(view, "no articles match") {
		t.Errorf("empty view should contain placeholder, got:\n%s", view)
	}
}

func TestModelQuit(t *testing.T) {
	model := testModel()

	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("q should return a command")
	}
	if _, isQuit := command().(tea.QuitMsg); !isQuit {
		t.Error("q should produce a QuitMsg")
	}
}

func TestModelFilter(t *testing.T) {
	model := sized(t, testModel(), 160, 30)

	// Activate the filter and type a tag query.
	model = press(t, model, '/')
	if model.focusRegion != FocusFilter {
		t.Fatal("/ should focus the filter input")
	}
	for _, character := range "uikit" {
		model = press(t, model, character)
	}
	if len(model.visible) != 1 || model.visible[0].Slug != "floating-button" {
		t.Fatalf("filter 'uikit' should leave one article, got %d", len(model.visible))
	}

	// Enter keeps the filter text and returns focus to the list.
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model = updated.(Model)
	if model.focusRegion != FocusList || model.filter.Input != "uikit" {
		t.Errorf("after enter: focus=%d input=%q", model.focusRegion, model.filter.Input)
	}
	if !strings.Contains(model.View(), "(filtered)") {
		t.Error("status bar should indicate an active filter")
	}

	// Escape clears the filter and restores the full list.
	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEscape})
	model = updated.(Model)
	if len(model.visible) != 3 {
		t.Errorf("after clearing filter: %d visible", len(model.visible))
	}
}

func TestModelFilterMatchesAuthor(t *testing.T) {
	filter := FilterModel{Input: "alex"}
	matched := filter.Apply(testArticles())
	if len(matched) != 1 || matched[0].Slug != "floating-button" {
		t.Errorf("author filter matched %d articles", len(matched))
	}
}

func TestModelFilterKeepsSelection(t *testing.T) {
	model := sized(t, testModel(), 160, 30)

	// Select the transitions article, then filter to a set that still
	// contains it.
	model = press(t, model, 'j')
	model = press(t, model, '/')
	for _, character := range "animation" {
		model = press(t, model, character)
	}
	if model.selectedSlug != "custom-transitions" {
		t.Errorf("selection should survive the filter, got %q", model.selectedSlug)
	}
}

func TestModelFocusToggle(t *testing.T) {
	model := sized(t, testModel(), 160, 30)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	if model.focusRegion != FocusReading {
		t.Errorf("tab should focus the reading pane, got %d", model.focusRegion)
	}

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	if model.focusRegion != FocusList {
		t.Errorf("second tab should focus the list, got %d", model.focusRegion)
	}
}

func TestModelDraftBadge(t *testing.T) {
	draft := schema.Article{
		Slug:    "wip",
		Path:    "wip.md",
		IsDraft: true,
		Content: schema.ArticleContent{
			Title: "Work In Progress", Tags: schema.TagList{"swift"},
			Layout: "post", Author: "jane", Body: "Unfinished thoughts.",
		},
	}
	model := sized(t, NewModel([]schema.Article{draft}, mdterm.DarkTheme), 120, 24)

	if view := model.View(); !strings.Contains(view, "draft") {
		t.Errorf("draft rows should carry a draft badge, got:\n%s", view)
	}
}
