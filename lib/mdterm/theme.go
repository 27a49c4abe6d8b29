// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package mdterm

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the color palette for rendered articles and the article
// browser. All colors are lipgloss ANSI 256-color codes for broad
// terminal compatibility.
type Theme struct {
	// Body text.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Headings and rules.
	HeadingForeground lipgloss.Color
	BorderColor       lipgloss.Color

	// Article metadata.
	TagForeground    lipgloss.Color
	AuthorForeground lipgloss.Color
	DateForeground   lipgloss.Color
	DraftBadge       lipgloss.Color

	// Links and image placeholders.
	LinkForeground lipgloss.Color

	// Browser chrome.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	HelpText           lipgloss.Color

	// CodeStyle is the chroma style name used for fenced code
	// blocks. Empty means monokai.
	CodeStyle string
}

// DarkTheme is the palette for dark terminal backgrounds.
var DarkTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeadingForeground: lipgloss.Color("255"),
	BorderColor:       lipgloss.Color("240"),

	TagForeground:    lipgloss.Color("114"), // green
	AuthorForeground: lipgloss.Color("141"), // light purple
	DateForeground:   lipgloss.Color("245"),
	DraftBadge:       lipgloss.Color("208"), // orange

	LinkForeground: lipgloss.Color("75"), // blue

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
	HelpText:           lipgloss.Color("241"),

	CodeStyle: "monokai",
}

// LightTheme is the palette for light terminal backgrounds.
var LightTheme = Theme{
	NormalText: lipgloss.Color("235"),
	FaintText:  lipgloss.Color("243"),

	HeadingForeground: lipgloss.Color("16"),
	BorderColor:       lipgloss.Color("250"),

	TagForeground:    lipgloss.Color("28"),  // green
	AuthorForeground: lipgloss.Color("91"),  // purple
	DateForeground:   lipgloss.Color("243"),
	DraftBadge:       lipgloss.Color("166"), // orange

	LinkForeground: lipgloss.Color("26"), // blue

	SelectedBackground: lipgloss.Color("253"),
	SelectedForeground: lipgloss.Color("16"),
	HelpText:           lipgloss.Color("247"),

	CodeStyle: "github",
}

// Named returns the theme for a display.theme config value. "dark"
// and "light" force a palette; anything else (including "auto")
// follows the terminal background, defaulting to dark when detection
// is unavailable.
func Named(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme
	case "light":
		return LightTheme
	default:
		if !termenv.HasDarkBackground() {
			return LightTheme
		}
		return DarkTheme
	}
}
