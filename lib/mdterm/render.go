// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package mdterm

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// parserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share; each Parse call creates its own state.
var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return parserInstance
}

// Render parses article markdown and renders it as styled terminal
// output at the given width. Soft line breaks (single newlines inside
// paragraphs) become spaces so hard-wrapped source reflows at any
// width; code blocks, lists, and tables keep their structure.
func Render(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	source := []byte(input)
	document := getParser().Parser().Parse(text.NewReader(source))

	// Force an ANSI256 color profile: this output is always for
	// terminal display, so auto-detection (which yields uncolored
	// output without a TTY, e.g. under tests or a pager pipe) is
	// bypassed. SetColorProfile is needed because
	// lipgloss.Renderer.ColorProfile() re-detects from the
	// environment unless the explicit profile is set.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	walker := &renderState{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, walker.walk)

	return strings.TrimRight(walker.output.String(), "\n")
}

// renderState walks a goldmark AST and accumulates styled terminal
// text. Inline content within a paragraph or heading collects in the
// inline buffer and is word-wrapped as a unit when the containing
// block closes.
type renderState struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder

	// Inline accumulator, flushed with word-wrap when the containing
	// block closes.
	inline strings.Builder

	// Prefix stack for nested block containers (blockquotes, lists).
	prefixStack     []prefixLevel
	linePrefix      string
	linePrefixWidth int

	// pendingBullet replaces linePrefix for the very next emitted
	// line, then clears. Holds list item bullets and numbers.
	pendingBullet string

	// Inline style counters. Counters rather than booleans so nested
	// emphasis unwinds correctly.
	boldCount          int
	italicCount        int
	strikethroughCount int

	listStack []listState

	lipRenderer *lipgloss.Renderer

	// Trailing newlines at the end of output, for blank line
	// management between blocks.
	trailingNewlines int
}

type prefixLevel struct {
	text  string
	width int
}

type listState struct {
	ordered bool
	counter int
	tight   bool
}

func (state *renderState) newStyle() lipgloss.Style {
	return state.lipRenderer.NewStyle()
}

// currentWidth is the content width remaining after nesting prefixes,
// clamped to a minimum of 10 to prevent degenerate wrapping.
func (state *renderState) currentWidth() int {
	width := state.width - state.linePrefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (state *renderState) pushPrefix(prefixText string, visibleWidth int) {
	state.prefixStack = append(state.prefixStack, prefixLevel{
		text:  prefixText,
		width: visibleWidth,
	})
	state.linePrefix += prefixText
	state.linePrefixWidth += visibleWidth
}

func (state *renderState) popPrefix() {
	if len(state.prefixStack) == 0 {
		return
	}
	top := state.prefixStack[len(state.prefixStack)-1]
	state.prefixStack = state.prefixStack[:len(state.prefixStack)-1]
	state.linePrefix = state.linePrefix[:len(state.linePrefix)-len(top.text)]
	state.linePrefixWidth -= top.width
}

func (state *renderState) inTightList() bool {
	if len(state.listStack) == 0 {
		return false
	}
	return state.listStack[len(state.listStack)-1].tight
}

func (state *renderState) writeOutput(s string) {
	if s == "" {
		return
	}
	state.output.WriteString(s)

	newTrailing := 0
	entirelyNewlines := true
	for index := len(s) - 1; index >= 0; index-- {
		if s[index] == '\n' {
			newTrailing++
		} else {
			entirelyNewlines = false
			break
		}
	}

	// A string of pure newlines extends the running count; any
	// non-newline character resets it.
	if entirelyNewlines {
		state.trailingNewlines += newTrailing
	} else {
		state.trailingNewlines = newTrailing
	}
}

func (state *renderState) ensureNewline() {
	if state.trailingNewlines < 1 {
		state.writeOutput("\n")
	}
}

func (state *renderState) ensureBlankLine() {
	for state.trailingNewlines < 2 {
		state.writeOutput("\n")
	}
}

// consumeLinePrefix returns the prefix for the current line: the
// pending bullet if one is set (first line of a list item), otherwise
// the regular line prefix.
func (state *renderState) consumeLinePrefix() string {
	if state.pendingBullet != "" {
		bullet := state.pendingBullet
		state.pendingBullet = ""
		return bullet
	}
	return state.linePrefix
}

// applyPrefixes prepends the line prefix to each line. The first line
// consumes the pending bullet when one is set.
func (state *renderState) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for index, line := range lines {
		if index == 0 {
			result.WriteString(state.consumeLinePrefix())
		} else {
			result.WriteString(state.linePrefix)
		}
		result.WriteString(line)
		if index < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content to the
// current width, applies line prefixes, and resets the buffer.
func (state *renderState) flushInline() string {
	content := state.inline.String()
	state.inline.Reset()
	if content == "" {
		return ""
	}

	content = ansi.Wrap(content, state.currentWidth(), " ,.;-+|")
	return state.applyPrefixes(content)
}

// styledText applies the current inline style counters to a string.
func (state *renderState) styledText(content string) string {
	style := state.newStyle().Foreground(state.theme.NormalText)
	if state.boldCount > 0 {
		style = style.Bold(true)
	}
	if state.italicCount > 0 {
		style = style.Italic(true)
	}
	if state.strikethroughCount > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// renderInlineContent collects a node's children into a string,
// saving and restoring the inline buffer and style counters so the
// caller's context is unaffected.
func (state *renderState) renderInlineContent(node ast.Node) string {
	savedInline := state.inline.String()
	savedBold := state.boldCount
	savedItalic := state.italicCount
	savedStrikethrough := state.strikethroughCount

	state.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, state.walk)
	}
	result := state.inline.String()

	state.inline.Reset()
	state.inline.WriteString(savedInline)
	state.boldCount = savedBold
	state.italicCount = savedItalic
	state.strikethroughCount = savedStrikethrough

	return result
}

// highlightCode syntax-highlights code with chroma using the theme's
// style. Unknown languages and chroma errors fall back to FaintText
// plain rendering.
func (state *renderState) highlightCode(code, language string) string {
	if language == "" {
		return state.newStyle().Foreground(state.theme.FaintText).Render(code)
	}
	chromaStyle := state.theme.CodeStyle
	if chromaStyle == "" {
		chromaStyle = "monokai"
	}
	var buffer strings.Builder
	err := quick.Highlight(&buffer, code, language, "terminal256", chromaStyle)
	if err != nil {
		return state.newStyle().Foreground(state.theme.FaintText).Render(code)
	}
	return buffer.String()
}

// --- AST walk dispatcher ---

func (state *renderState) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {

	// Block nodes.
	case ast.KindDocument:
		// Nothing on entering or leaving.

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			state.inline.Reset()
		} else {
			flushed := state.flushInline()
			if flushed != "" {
				state.writeOutput(flushed)
				state.ensureNewline()
				if !state.inTightList() {
					state.ensureBlankLine()
				}
			}
		}

	case ast.KindHeading:
		if entering {
			state.inline.Reset()
		} else {
			state.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			state.renderFencedCodeBlock(node.(*ast.FencedCodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			state.renderCodeBlock(node.(*ast.CodeBlock))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			state.pushPrefix("│ ", 2)
		} else {
			state.popPrefix()
			state.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			state.enterList(node.(*ast.List))
		} else {
			state.leaveList()
		}

	case ast.KindListItem:
		if entering {
			state.enterListItem()
		} else {
			state.leaveListItem()
		}

	case ast.KindThematicBreak:
		if entering {
			state.renderThematicBreak()
		}

	case ast.KindHTMLBlock:
		if entering {
			state.renderHTMLBlock(node.(*ast.HTMLBlock))
			return ast.WalkSkipChildren, nil
		}

	// Inline nodes.
	case ast.KindText:
		if entering {
			state.handleText(node.(*ast.Text))
		}

	case ast.KindString:
		if entering {
			str := node.(*ast.String)
			state.inline.WriteString(state.styledText(string(str.Value)))
		}

	case ast.KindEmphasis:
		state.handleEmphasis(node.(*ast.Emphasis), entering)

	case ast.KindCodeSpan:
		if entering {
			state.renderCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			state.renderLink(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			state.renderAutoLink(node.(*ast.AutoLink))
		}

	case ast.KindImage:
		if entering {
			state.renderImage(node.(*ast.Image))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindRawHTML:
		if entering {
			state.renderRawHTML(node.(*ast.RawHTML))
		}

	// GFM extension nodes.
	case extast.KindStrikethrough:
		if entering {
			state.strikethroughCount++
		} else {
			state.strikethroughCount--
		}

	case extast.KindTable:
		if entering {
			state.renderTable(node)
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			checkbox := node.(*extast.TaskCheckBox)
			if checkbox.IsChecked {
				checkStyle := state.newStyle().Foreground(state.theme.TagForeground)
				state.inline.WriteString(checkStyle.Render("[x]") + " ")
			} else {
				state.inline.WriteString(state.styledText("[ ] "))
			}
		}
	}

	return ast.WalkContinue, nil
}

// --- Block-level handlers ---

func (state *renderState) leaveHeading(heading *ast.Heading) {
	// Strip accumulated inline styling; the heading's own style
	// replaces the NormalText applied by styledText().
	content := ansi.Strip(state.inline.String())
	state.inline.Reset()
	if content == "" {
		return
	}

	style := state.newStyle().Bold(true)
	if heading.Level <= 2 {
		style = style.Foreground(state.theme.HeadingForeground)
	} else {
		style = style.Foreground(state.theme.NormalText)
	}

	wrapped := ansi.Wrap(style.Render(content), state.currentWidth(), " ,.;-+|")
	flushed := state.applyPrefixes(wrapped)
	state.ensureBlankLine()
	state.writeOutput(flushed)
	state.ensureNewline()
	state.ensureBlankLine()
}

func (state *renderState) renderFencedCodeBlock(node *ast.FencedCodeBlock) {
	language := string(node.Language(state.source))
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(state.source))
	}

	highlighted := state.highlightCode(code.String(), language)
	state.ensureBlankLine()
	codeLines := strings.Split(strings.TrimRight(highlighted, "\n"), "\n")
	for _, line := range codeLines {
		state.writeOutput(state.consumeLinePrefix() + line)
		state.ensureNewline()
	}
	state.ensureBlankLine()
}

func (state *renderState) renderCodeBlock(node *ast.CodeBlock) {
	var code strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(state.source))
	}

	faint := state.newStyle().Foreground(state.theme.FaintText)
	state.ensureBlankLine()
	codeLines := strings.Split(strings.TrimRight(code.String(), "\n"), "\n")
	for _, line := range codeLines {
		state.writeOutput(state.consumeLinePrefix() + faint.Render(line))
		state.ensureNewline()
	}
	state.ensureBlankLine()
}

func (state *renderState) enterList(list *ast.List) {
	startNumber := 0
	if list.IsOrdered() {
		startNumber = list.Start
	}
	state.listStack = append(state.listStack, listState{
		ordered: list.IsOrdered(),
		counter: startNumber,
		tight:   list.IsTight,
	})
}

func (state *renderState) leaveList() {
	if len(state.listStack) > 0 {
		state.listStack = state.listStack[:len(state.listStack)-1]
	}
	if !state.inTightList() {
		state.ensureBlankLine()
	}
}

func (state *renderState) enterListItem() {
	if len(state.listStack) == 0 {
		return
	}
	top := &state.listStack[len(state.listStack)-1]

	var bullet string
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	} else {
		bullet = "- "
	}

	bulletWidth := len(bullet) // ASCII-only, so byte length == visual width.
	continuation := strings.Repeat(" ", bulletWidth)

	// The pending bullet includes the current linePrefix so it
	// replaces the entire prefix for the item's first line.
	state.pendingBullet = state.linePrefix + bullet
	state.pushPrefix(continuation, bulletWidth)
}

func (state *renderState) leaveListItem() {
	state.popPrefix()
	if !state.inTightList() {
		state.ensureBlankLine()
	} else {
		state.ensureNewline()
	}
}

func (state *renderState) renderThematicBreak() {
	rule := strings.Repeat("─", state.currentWidth())
	ruleStyle := state.newStyle().Foreground(state.theme.BorderColor)
	state.ensureBlankLine()
	state.writeOutput(state.applyPrefixes(ruleStyle.Render(rule)))
	state.ensureNewline()
	state.ensureBlankLine()
}

func (state *renderState) renderHTMLBlock(node *ast.HTMLBlock) {
	var html strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		html.Write(segment.Value(state.source))
	}
	stripped := strings.TrimSpace(stripHTMLTags(html.String()))
	if stripped != "" {
		faint := state.newStyle().Foreground(state.theme.FaintText)
		state.writeOutput(state.applyPrefixes(faint.Render(stripped)))
		state.ensureNewline()
		state.ensureBlankLine()
	}
}

// --- Inline handlers ---

func (state *renderState) handleText(node *ast.Text) {
	segment := node.Segment
	value := string(segment.Value(state.source))
	state.inline.WriteString(state.styledText(value))

	if node.SoftLineBreak() {
		// Soft line breaks become spaces so hard-wrapped article
		// source reflows at any terminal width.
		state.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		state.inline.WriteString("\n")
	}
}

func (state *renderState) handleEmphasis(node *ast.Emphasis, entering bool) {
	if node.Level >= 2 {
		if entering {
			state.boldCount++
		} else {
			state.boldCount--
		}
	} else {
		if entering {
			state.italicCount++
		} else {
			state.italicCount--
		}
	}
}

func (state *renderState) renderCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			segment := textNode.Segment
			code.Write(segment.Value(state.source))
		} else if strNode, ok := child.(*ast.String); ok {
			code.Write(strNode.Value)
		}
	}
	codeStyle := state.newStyle().Foreground(state.theme.FaintText)
	state.inline.WriteString(codeStyle.Render(code.String()))
}

func (state *renderState) renderLink(node *ast.Link) {
	// renderInlineContent already styles the link text; write it
	// directly to avoid double-styling.
	displayText := state.renderInlineContent(node)
	url := string(node.Destination)

	state.inline.WriteString(displayText)
	if url != "" {
		urlStyle := state.newStyle().Foreground(state.theme.LinkForeground)
		state.inline.WriteString(" " + urlStyle.Render("("+url+")"))
	}
}

func (state *renderState) renderAutoLink(node *ast.AutoLink) {
	url := string(node.URL(state.source))
	urlStyle := state.newStyle().Foreground(state.theme.LinkForeground)
	state.inline.WriteString(urlStyle.Render(url))
}

// renderImage shows a placeholder for the image: alt text in
// brackets plus the reference path. Articles lean on screenshots and
// diagrams, so the reference stays visible for opening externally.
func (state *renderState) renderImage(node *ast.Image) {
	altText := state.renderInlineContent(node)
	url := string(node.Destination)
	faint := state.newStyle().Foreground(state.theme.FaintText)
	state.inline.WriteString(faint.Render("[" + altText + "]"))
	if url != "" {
		state.inline.WriteString(" " + faint.Render("("+url+")"))
	}
}

func (state *renderState) renderRawHTML(node *ast.RawHTML) {
	var html strings.Builder
	for index := 0; index < node.Segments.Len(); index++ {
		segment := node.Segments.At(index)
		html.Write(segment.Value(state.source))
	}
	stripped := stripHTMLTags(html.String())
	if stripped != "" {
		faint := state.newStyle().Foreground(state.theme.FaintText)
		state.inline.WriteString(faint.Render(stripped))
	}
}

// --- Table rendering ---

func (state *renderState) renderTable(node ast.Node) {
	table := node.(*extast.Table)
	alignments := table.Alignments

	var headerCells []string
	var bodyRows [][]string

	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.Kind() {
		case extast.KindTableHeader:
			headerCells = state.collectTableRow(child)
		case extast.KindTableRow:
			bodyRows = append(bodyRows, state.collectTableRow(child))
		}
	}

	columnCount := len(headerCells)
	if columnCount == 0 && len(bodyRows) > 0 {
		columnCount = len(bodyRows[0])
	}
	if columnCount == 0 {
		return
	}

	// Column widths from the widest visible content.
	columnWidths := make([]int, columnCount)
	for index, cell := range headerCells {
		if index < columnCount {
			if width := lipgloss.Width(cell); width > columnWidths[index] {
				columnWidths[index] = width
			}
		}
	}
	for _, row := range bodyRows {
		for index, cell := range row {
			if index < columnCount {
				if width := lipgloss.Width(cell); width > columnWidths[index] {
					columnWidths[index] = width
				}
			}
		}
	}

	// Cap total width to available space, shrinking columns
	// proportionally with a 3-character floor.
	separator := "  "
	totalWidth := 0
	for _, width := range columnWidths {
		totalWidth += width
	}
	totalWidth += len(separator) * (columnCount - 1)
	available := state.currentWidth()
	if totalWidth > available && columnCount > 0 {
		usable := available - len(separator)*(columnCount-1)
		if usable < columnCount*3 {
			usable = columnCount * 3
		}
		for index := range columnWidths {
			columnWidths[index] = (columnWidths[index] * usable) / totalWidth
			if columnWidths[index] < 3 {
				columnWidths[index] = 3
			}
		}
	}

	state.ensureBlankLine()

	if len(headerCells) > 0 {
		bold := state.newStyle().Bold(true).Foreground(state.theme.NormalText)
		state.writeOutput(state.consumeLinePrefix() +
			state.formatTableRow(headerCells, columnWidths, alignments, bold))
		state.ensureNewline()

		var separatorParts []string
		for _, width := range columnWidths {
			separatorParts = append(separatorParts, strings.Repeat("─", width))
		}
		borderStyle := state.newStyle().Foreground(state.theme.BorderColor)
		state.writeOutput(state.linePrefix +
			borderStyle.Render(strings.Join(separatorParts, separator)))
		state.ensureNewline()
	}

	for _, row := range bodyRows {
		state.writeOutput(state.linePrefix +
			state.formatTableRow(row, columnWidths, alignments, state.newStyle()))
		state.ensureNewline()
	}

	state.ensureBlankLine()
}

func (state *renderState) collectTableRow(row ast.Node) []string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		if cell.Kind() == extast.KindTableCell {
			cells = append(cells, state.renderInlineContent(cell))
		}
	}
	return cells
}

func (state *renderState) formatTableRow(
	cells []string,
	columnWidths []int,
	alignments []extast.Alignment,
	baseStyle lipgloss.Style,
) string {
	separator := "  "
	var parts []string
	for index, width := range columnWidths {
		var cell string
		if index < len(cells) {
			cell = cells[index]
		}

		visibleWidth := lipgloss.Width(cell)
		if visibleWidth > width {
			cell = ansi.Truncate(cell, width, "…")
			visibleWidth = lipgloss.Width(cell)
		}

		padding := width - visibleWidth
		if padding < 0 {
			padding = 0
		}

		var alignment extast.Alignment
		if index < len(alignments) {
			alignment = alignments[index]
		}

		switch alignment {
		case extast.AlignRight:
			cell = strings.Repeat(" ", padding) + cell
		case extast.AlignCenter:
			leftPad := padding / 2
			rightPad := padding - leftPad
			cell = strings.Repeat(" ", leftPad) + cell + strings.Repeat(" ", rightPad)
		default: // Left or unset.
			cell = cell + strings.Repeat(" ", padding)
		}
		parts = append(parts, cell)
	}
	return baseStyle.Render(strings.Join(parts, separator))
}

// --- Utilities ---

// stripHTMLTags removes HTML tags, keeping only text content. Article
// bodies occasionally embed raw HTML (video embeds, centered images)
// that has no terminal rendering.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		if character == '<' {
			inTag = true
			continue
		}
		if character == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(character)
		}
	}
	return result.String()
}
