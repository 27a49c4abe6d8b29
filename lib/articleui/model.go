// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package articleui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/quill-foundation/quill/lib/mdterm"
	"github.com/quill-foundation/quill/lib/schema"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusList means navigation keys move the article list cursor.
	FocusList FocusRegion = iota
	// FocusReading means navigation keys scroll the reading pane.
	FocusReading
	// FocusFilter means keystrokes go to the filter input.
	FocusFilter
)

// List pane width bounds. The list takes two fifths of the terminal,
// clamped so long titles stay readable and the reading pane never
// collapses.
const (
	listWidthMin = 28
	listWidthMax = 60
)

// Model is the top-level bubbletea model for the article browser.
// Articles are shown in the order given to NewModel — callers pass
// them newest first.
type Model struct {
	articles []schema.Article
	theme    mdterm.Theme
	keys     KeyMap

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	focusRegion FocusRegion
	priorFocus  FocusRegion // Saved focus when entering filter mode.

	filter  FilterModel
	visible []schema.Article

	// List state. selectedSlug keeps the selection stable while the
	// filter narrows and widens the visible set.
	cursor       int
	scrollOffset int
	selectedSlug string

	// Reading pane. renderedSlug tracks which article the viewport
	// currently holds so cursor movement re-renders lazily.
	viewport     viewport.Model
	renderedSlug string
}

// NewModel creates a browser over the given articles. The slice order
// is the display order.
func NewModel(articles []schema.Article, theme mdterm.Theme) Model {
	model := Model{
		articles: articles,
		visible:  articles,
		theme:    theme,
		keys:     DefaultKeyMap,
	}
	if len(articles) > 0 {
		model.selectedSlug = articles[0].Slug
	}
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.layout()
		model.renderSelected(true)
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.focusRegion == FocusFilter {
		return model.handleFilterKey(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.FilterActivate):
		model.priorFocus = model.focusRegion
		model.filter.Active = true
		model.focusRegion = FocusFilter
		model.layout()

	case key.Matches(message, model.keys.FilterClear):
		if model.filter.Input != "" {
			model.filter.Clear()
			model.applyFilter()
			model.layout()
		}

	case key.Matches(message, model.keys.FocusToggle):
		if model.focusRegion == FocusList {
			model.focusRegion = FocusReading
		} else {
			model.focusRegion = FocusList
		}

	default:
		if model.focusRegion == FocusReading {
			model.handleReadingKey(message)
		} else {
			model.handleListKey(message)
		}
	}
	return model, nil
}

func (model *Model) handleFilterKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEscape:
		model.filter.Clear()
		model.applyFilter()
		model.focusRegion = model.priorFocus
		model.layout()

	case tea.KeyEnter:
		// Keep the filter text, return focus to the list.
		model.filter.Active = false
		model.focusRegion = FocusList
		model.layout()

	case tea.KeyBackspace:
		if model.filter.HandleBackspace() {
			model.applyFilter()
		}

	case tea.KeyCtrlC:
		return *model, tea.Quit

	case tea.KeyRunes:
		for _, character := range message.Runes {
			model.filter.HandleRune(character)
		}
		model.applyFilter()
	}
	return *model, nil
}

func (model *Model) handleListKey(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.listHeight())
	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.listHeight())
	case key.Matches(message, model.keys.Home):
		model.moveCursor(-len(model.visible))
	case key.Matches(message, model.keys.End):
		model.moveCursor(len(model.visible))
	}
}

func (model *Model) handleReadingKey(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.viewport.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.viewport.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.viewport.HalfViewUp()
	case key.Matches(message, model.keys.PageDown):
		model.viewport.HalfViewDown()
	case key.Matches(message, model.keys.Home):
		model.viewport.GotoTop()
	case key.Matches(message, model.keys.End):
		model.viewport.GotoBottom()
	}
}

// moveCursor moves the list cursor by delta, clamps, keeps the cursor
// inside the visible window, and re-renders the reading pane.
func (model *Model) moveCursor(delta int) {
	if len(model.visible) == 0 {
		return
	}
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(model.visible) {
		model.cursor = len(model.visible) - 1
	}
	model.selectedSlug = model.visible[model.cursor].Slug

	height := model.listHeight()
	if model.cursor < model.scrollOffset {
		model.scrollOffset = model.cursor
	}
	if model.cursor >= model.scrollOffset+height {
		model.scrollOffset = model.cursor - height + 1
	}
	model.renderSelected(false)
}

// applyFilter recomputes the visible set, keeping the selection when
// the selected article survives the filter.
func (model *Model) applyFilter() {
	model.visible = model.filter.Apply(model.articles)

	model.cursor = 0
	for index, article := range model.visible {
		if article.Slug == model.selectedSlug {
			model.cursor = index
			break
		}
	}
	if len(model.visible) > 0 {
		model.selectedSlug = model.visible[model.cursor].Slug
	}
	model.scrollOffset = 0
	if height := model.listHeight(); model.cursor >= height {
		model.scrollOffset = model.cursor - height + 1
	}
	model.renderSelected(false)
}

// layout recomputes pane dimensions from the terminal size.
func (model *Model) layout() {
	listWidth := model.listWidth()
	readingWidth := model.width - listWidth - 1
	if readingWidth < 20 {
		readingWidth = 20
	}
	model.viewport.Width = readingWidth
	model.viewport.Height = model.listHeight()
	// Width changes invalidate the rendered wrap.
	model.renderedSlug = ""
	model.renderSelected(true)
}

func (model *Model) listWidth() int {
	width := model.width * 2 / 5
	if width < listWidthMin {
		width = listWidthMin
	}
	if width > listWidthMax {
		width = listWidthMax
	}
	return width
}

// listHeight is the row count available to the list pane: the full
// height minus the status bar and the filter bar when visible.
func (model *Model) listHeight() int {
	height := model.height - 1
	if model.filter.Active || model.filter.Input != "" {
		height--
	}
	if height < 1 {
		height = 1
	}
	return height
}

// renderSelected fills the viewport with the article under the
// cursor. Rendering is skipped when the article is already in the
// viewport, unless force is set (layout changes).
func (model *Model) renderSelected(force bool) {
	if !model.ready {
		return
	}
	if len(model.visible) == 0 {
		model.viewport.SetContent(lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("no articles match"))
		model.renderedSlug = ""
		return
	}
	article := model.visible[model.cursor]
	if !force && article.Slug == model.renderedSlug {
		return
	}

	var content strings.Builder
	content.WriteString(model.articleHeader(article))
	content.WriteString("\n\n")
	content.WriteString(mdterm.Render(article.Content.Body, model.theme, model.viewport.Width-2))

	model.viewport.SetContent(content.String())
	model.viewport.GotoTop()
	model.renderedSlug = article.Slug
}

// articleHeader renders the title and metadata block above the body.
func (model *Model) articleHeader(article schema.Article) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeadingForeground).
		Bold(true)
	metaStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	tagStyle := lipgloss.NewStyle().Foreground(model.theme.TagForeground)

	var header strings.Builder
	header.WriteString(titleStyle.Render(article.Content.Title))
	header.WriteString("\n")

	var meta []string
	if article.IsDraft {
		draftStyle := lipgloss.NewStyle().Foreground(model.theme.DraftBadge)
		meta = append(meta, draftStyle.Render("draft"))
	} else {
		meta = append(meta, article.Date.Format(schema.DateLayout))
	}
	if article.Content.Author != "" {
		meta = append(meta, article.Content.Author)
	}
	header.WriteString(metaStyle.Render(strings.Join(meta, " · ")))

	if len(article.Content.Tags) > 0 {
		header.WriteString("  ")
		header.WriteString(tagStyle.Render("#" + strings.Join(article.Content.Tags, " #")))
	}
	return header.String()
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "loading…"
	}

	listPane := model.renderList()
	divider := model.renderDivider()
	reading := model.viewport.View()

	body := lipgloss.JoinHorizontal(lipgloss.Top, listPane, divider, reading)

	var view strings.Builder
	view.WriteString(body)
	view.WriteString("\n")
	if filterBar := model.filter.View(model.theme, model.width); filterBar != "" {
		view.WriteString(filterBar)
		view.WriteString("\n")
	}
	view.WriteString(model.renderStatusBar())
	return view.String()
}

// renderList renders the visible window of the article list.
func (model Model) renderList() string {
	width := model.listWidth()
	height := model.listHeight()

	normalStyle := lipgloss.NewStyle().
		Foreground(model.theme.NormalText).
		Width(width)
	selectedStyle := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground).
		Bold(true).
		Width(width)
	dateStyle := lipgloss.NewStyle().Foreground(model.theme.DateForeground)
	draftStyle := lipgloss.NewStyle().Foreground(model.theme.DraftBadge)

	var rows []string
	for index := model.scrollOffset; index < len(model.visible) && len(rows) < height; index++ {
		article := model.visible[index]

		var prefix string
		if article.IsDraft {
			prefix = draftStyle.Render("draft     ")
		} else {
			prefix = dateStyle.Render(article.Date.Format(schema.DateLayout))
		}
		row := " " + prefix + " " + article.Content.Title
		row = ansi.Truncate(row, width, "…")

		if index == model.cursor && model.focusRegion != FocusReading {
			rows = append(rows, selectedStyle.Render(ansi.Strip(row)))
		} else {
			rows = append(rows, normalStyle.Render(row))
		}
	}
	for len(rows) < height {
		rows = append(rows, normalStyle.Render(""))
	}
	return strings.Join(rows, "\n")
}

func (model Model) renderDivider() string {
	style := lipgloss.NewStyle().Foreground(model.theme.BorderColor)
	height := model.listHeight()
	lines := make([]string, height)
	for index := range lines {
		lines[index] = style.Render("│")
	}
	return strings.Join(lines, "\n")
}

// renderStatusBar renders the bottom help line: article count plus
// the bindings relevant to the current focus.
func (model Model) renderStatusBar() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(model.theme.HelpText).
		Width(model.width)

	count := len(model.visible)
	var parts []string
	if model.filter.Input != "" {
		parts = append(parts, pluralArticles(count)+" (filtered)")
	} else {
		parts = append(parts, pluralArticles(count))
	}
	parts = append(parts,
		model.keys.Up.Help().Key+"/"+model.keys.Down.Help().Key+" move",
		model.keys.FocusToggle.Help().Key+" "+model.keys.FocusToggle.Help().Desc,
		model.keys.FilterActivate.Help().Key+" "+model.keys.FilterActivate.Help().Desc,
		model.keys.Quit.Help().Key+" "+model.keys.Quit.Help().Desc,
	)
	return helpStyle.Render(" " + strings.Join(parts, "  ·  "))
}

func pluralArticles(count int) string {
	if count == 1 {
		return "1 article"
	}
	return strconv.Itoa(count) + " articles"
}
