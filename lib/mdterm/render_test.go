// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package mdterm

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// stripped renders markdown and returns ANSI-stripped visible text.
func stripped(input string, width int) string {
	return ansi.Strip(Render(input, DarkTheme, width))
}

// raw renders markdown and returns the raw ANSI-styled output.
func raw(input string, width int) string {
	return Render(input, DarkTheme, width)
}

func TestRenderEmpty(t *testing.T) {
	if result := Render("", DarkTheme, 80); result != "" {
		t.Errorf("expected empty output for empty input, got %q", result)
	}
}

func TestRenderParagraphReflow(t *testing.T) {
	// Article source hard-wrapped at ~40 columns.
	input := "SwiftUI view modifiers compose from\nthe outside in, which surprises\neveryone exactly once."
	result := stripped(input, 120)

	if strings.Contains(result, "\n") {
		t.Errorf("expected no newlines at width=120, got:\n%s", result)
	}
	if !strings.Contains(result, "from the outside") {
		t.Errorf("expected soft break converted to space, got:\n%s", result)
	}
}

func TestRenderParagraphWrapNarrow(t *testing.T) {
	input := "This paragraph should wrap cleanly at the target terminal width."
	result := stripped(input, 30)

	for _, line := range strings.Split(result, "\n") {
		if len(line) > 30 {
			t.Errorf("line exceeds width 30: %q (len=%d)", line, len(line))
		}
	}
}

func TestRenderHardLineBreak(t *testing.T) {
	// Two trailing spaces are a CommonMark hard break.
	input := "Line one  \nLine two"
	result := stripped(input, 80)

	if !strings.Contains(result, "Line one\nLine two") {
		t.Errorf("expected hard line break preserved, got:\n%s", result)
	}
}

func TestRenderHeadings(t *testing.T) {
	input := "# Custom Transitions\n\n## The Problem\n\n### A Detour"
	result := stripped(input, 80)

	for _, heading := range []string{"Custom Transitions", "The Problem", "A Detour"} {
		if !strings.Contains(result, heading) {
			t.Errorf("missing heading %q", heading)
		}
	}
	if raw(input, 80) == result {
		t.Error("expected ANSI styling in heading output")
	}
}

func TestRenderEmphasis(t *testing.T) {
	input := "This is *italic* and **bold** text."
	result := stripped(input, 80)

	if !strings.Contains(result, "italic") || !strings.Contains(result, "bold") {
		t.Errorf("missing emphasis text, got:\n%s", result)
	}
	if raw(input, 80) == result {
		t.Error("expected ANSI styling in emphasis output")
	}
}

func TestRenderCodeSpan(t *testing.T) {
	input := "Wrap the view in a `GeometryReader` first."
	result := stripped(input, 80)

	if !strings.Contains(result, "GeometryReader") {
		t.Error("missing code span text")
	}
}

func TestRenderFencedCodeBlock(t *testing.T) {
	input := "Before.\n\n```swift\nstruct ContentView: View {\n    var body: some View { Text(\"hi\") }\n}\n```\n\nAfter."
	result := stripped(input, 80)

	if !strings.Contains(result, "struct ContentView: View") {
		t.Error("missing code block content")
	}
	if !strings.Contains(result, "Before.") || !strings.Contains(result, "After.") {
		t.Error("missing surrounding text")
	}
}

func TestRenderFencedCodeBlockHighlighted(t *testing.T) {
	input := "```swift\nlet answer = 42\n```"
	rawResult := raw(input, 80)

	// Chroma should emit ANSI escapes for Swift syntax.
	if !strings.Contains(rawResult, "\x1b[") {
		t.Error("expected ANSI escapes from syntax highlighting")
	}
}

func TestRenderFencedCodeBlockNoLanguage(t *testing.T) {
	input := "```\nplain code\n```"
	result := stripped(input, 80)

	if !strings.Contains(result, "plain code") {
		t.Errorf("missing code block content, got:\n%s", result)
	}
}

func TestRenderCodeBlockNotReflowed(t *testing.T) {
	input := "```\nshort\nlines\nhere\n```"
	result := stripped(input, 80)

	if !strings.Contains(result, "short\nlines\nhere") {
		t.Errorf("expected code block lines preserved, got:\n%s", result)
	}
}

func TestRenderBlockquote(t *testing.T) {
	input := "> Animations are just interpolations with opinions."
	result := stripped(input, 80)

	if !strings.Contains(result, "│") {
		t.Errorf("expected blockquote prefix, got:\n%s", result)
	}
	if !strings.Contains(result, "interpolations with opinions") {
		t.Error("missing blockquote content")
	}
}

func TestRenderUnorderedList(t *testing.T) {
	input := "- State\n- Binding\n- ObservedObject"
	result := stripped(input, 80)

	for _, item := range []string{"- State", "- Binding", "- ObservedObject"} {
		if !strings.Contains(result, item) {
			t.Errorf("missing list item %q, got:\n%s", item, result)
		}
	}
}

func TestRenderOrderedList(t *testing.T) {
	input := "1. Measure\n2. Animate\n3. Profit"
	result := stripped(input, 80)

	for _, item := range []string{"1. Measure", "2. Animate", "3. Profit"} {
		if !strings.Contains(result, item) {
			t.Errorf("missing ordered list item %q, got:\n%s", item, result)
		}
	}
}

func TestRenderNestedList(t *testing.T) {
	input := "- Outer\n  - Inner\n- Outer two"
	result := stripped(input, 80)

	var outerIndent, innerIndent int
	for _, line := range strings.Split(result, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)
		if strings.Contains(line, "Inner") {
			innerIndent = indent
		}
		if strings.Contains(line, "Outer") && !strings.Contains(line, "two") {
			outerIndent = indent
		}
	}
	if innerIndent <= outerIndent {
		t.Errorf("expected inner item more indented: outer=%d, inner=%d",
			outerIndent, innerIndent)
	}
}

func TestRenderStrikethrough(t *testing.T) {
	input := "This is ~~deprecated~~ text."
	result := stripped(input, 80)

	if !strings.Contains(result, "deprecated") {
		t.Error("missing strikethrough text")
	}
	if raw(input, 80) == result {
		t.Error("expected ANSI styling for strikethrough")
	}
}

func TestRenderLink(t *testing.T) {
	input := "See [the session video](https://developer.apple.com/wwdc) for details."
	result := stripped(input, 80)

	if !strings.Contains(result, "the session video") {
		t.Error("missing link text")
	}
	if !strings.Contains(result, "(https://developer.apple.com/wwdc)") {
		t.Errorf("missing link URL, got:\n%s", result)
	}
}

func TestRenderImagePlaceholder(t *testing.T) {
	input := "![Final result](/assets/transitions/final.gif)"
	result := stripped(input, 80)

	if !strings.Contains(result, "[Final result]") {
		t.Errorf("missing image alt text, got:\n%s", result)
	}
	if !strings.Contains(result, "(/assets/transitions/final.gif)") {
		t.Error("missing image reference path")
	}
}

func TestRenderThematicBreak(t *testing.T) {
	input := "Before.\n\n---\n\nAfter."
	result := stripped(input, 40)

	if !strings.Contains(result, "───") {
		t.Errorf("expected horizontal rule, got:\n%s", result)
	}
}

func TestRenderTable(t *testing.T) {
	input := "| Modifier | Effect |\n|----------|--------|\n| .opacity | fades |\n| .scaleEffect | scales |"
	result := stripped(input, 80)

	for _, want := range []string{"Modifier", ".opacity", ".scaleEffect", "───"} {
		if !strings.Contains(result, want) {
			t.Errorf("missing %q in table output, got:\n%s", want, result)
		}
	}
}

func TestRenderHTMLStripped(t *testing.T) {
	input := "<center>Centered caption</center>"
	result := stripped(input, 80)

	if !strings.Contains(result, "Centered caption") {
		t.Errorf("missing HTML text content, got:\n%s", result)
	}
	if strings.Contains(result, "<center>") {
		t.Errorf("HTML tag leaked into output:\n%s", result)
	}
}

func TestRenderWidthDefault(t *testing.T) {
	// Non-positive width falls back to 80 instead of degenerate
	// wrapping.
	result := stripped("A perfectly ordinary sentence.", 0)
	if strings.Contains(result, "\n") {
		t.Errorf("unexpected wrapping at default width:\n%s", result)
	}
}

func TestThemeNamed(t *testing.T) {
	if Named("dark").CodeStyle != DarkTheme.CodeStyle {
		t.Error("Named(dark) != DarkTheme")
	}
	if Named("light").CodeStyle != LightTheme.CodeStyle {
		t.Error("Named(light) != LightTheme")
	}
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>hello</p>", "hello"},
		{"no tags", "no tags"},
		{"<b>bold</b> and <i>italic</i>", "bold and italic"},
		{"<br/>", ""},
		{"", ""},
	}
	for _, test := range tests {
		if result := stripHTMLTags(test.input); result != test.expected {
			t.Errorf("stripHTMLTags(%q) = %q, want %q", test.input, result, test.expected)
		}
	}
}
