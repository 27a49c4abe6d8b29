// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"strings"
	"testing"
	"time"
)

const sampleDocument = `---
title: Building a Floating Action Button in SwiftUI
tags: [swiftui, animation, ios]
layout: post
author: jane
show_author_profile: true
---

Buttons float. Here is how.

` + "```swift\nstruct Fab: View {}\n```\n"

func TestParseDocument(t *testing.T) {
	content, err := ParseDocument([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}

	if content.Title != "Building a Floating Action Button in SwiftUI" {
		t.Errorf("Title = %q", content.Title)
	}
	if len(content.Tags) != 3 || content.Tags[0] != "swiftui" {
		t.Errorf("Tags = %v, want [swiftui animation ios]", content.Tags)
	}
	if content.Layout != "post" {
		t.Errorf("Layout = %q, want %q", content.Layout, "post")
	}
	if content.Author != "jane" {
		t.Errorf("Author = %q, want %q", content.Author, "jane")
	}
	if !content.ShowAuthorProfile {
		t.Error("ShowAuthorProfile = false, want true")
	}
	if !strings.HasPrefix(content.Body, "Buttons float.") {
		t.Errorf("Body starts with %q", firstLine(content.Body))
	}
	if !strings.Contains(content.Body, "```swift") {
		t.Error("Body lost the fenced code block")
	}
}

func TestParseDocumentCommaSeparatedTags(t *testing.T) {
	document := "---\ntitle: T\ntags: swift, ios , debugging\nlayout: post\nauthor: a\n---\nbody\n"
	content, err := ParseDocument([]byte(document))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	want := []string{"swift", "ios", "debugging"}
	if len(content.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", content.Tags, want)
	}
	for i, tag := range want {
		if content.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, want %q", i, content.Tags[i], tag)
		}
	}
}

func TestParseDocumentTagSequence(t *testing.T) {
	document := "---\ntitle: T\ntags:\n  - map\n  - compactMap\nlayout: post\nauthor: a\n---\n"
	content, err := ParseDocument([]byte(document))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(content.Tags) != 2 || content.Tags[1] != "compactMap" {
		t.Errorf("Tags = %v", content.Tags)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	cases := []struct {
		name     string
		document string
	}{
		{"no leading delimiter", "title: T\n---\nbody\n"},
		{"unclosed header", "---\ntitle: T\nbody without closing fence\n"},
		{"invalid yaml", "---\ntitle: [unclosed\n---\n"},
		{"tags mapping", "---\ntitle: T\ntags: {a: b}\n---\n"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(testCase.document)); err == nil {
				t.Fatal("ParseDocument succeeded, want error")
			}
		})
	}
}

func TestParseDocumentIgnoresUnknownFields(t *testing.T) {
	document := "---\ntitle: T\ntags: [a]\nlayout: post\nauthor: a\nfuture_field: whatever\n---\nbody\n"
	content, err := ParseDocument([]byte(document))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if content.Title != "T" {
		t.Errorf("Title = %q", content.Title)
	}
}

func TestParseDocumentStripsBOM(t *testing.T) {
	document := "\xef\xbb\xbf---\ntitle: T\ntags: [a]\nlayout: post\nauthor: a\n---\n"
	if _, err := ParseDocument([]byte(document)); err != nil {
		t.Fatalf("ParseDocument with BOM: %v", err)
	}
}

func TestFormatDocumentRoundTrip(t *testing.T) {
	original := ArticleContent{
		Title:             "Debugging View Hierarchies",
		Tags:              TagList{"debugging", "xcode"},
		Layout:            "post",
		Author:            "sam",
		ShowAuthorProfile: true,
		Body:              "Some prose.\n\n```swift\nprint(\"hi\")\n```\n",
	}

	formatted := FormatDocument(original)
	parsed, err := ParseDocument(formatted)
	if err != nil {
		t.Fatalf("ParseDocument(FormatDocument(x)): %v", err)
	}

	if parsed.Title != original.Title {
		t.Errorf("Title = %q, want %q", parsed.Title, original.Title)
	}
	if len(parsed.Tags) != 2 || parsed.Tags[0] != "debugging" || parsed.Tags[1] != "xcode" {
		t.Errorf("Tags = %v", parsed.Tags)
	}
	if parsed.Layout != original.Layout || parsed.Author != original.Author {
		t.Errorf("Layout/Author = %q/%q", parsed.Layout, parsed.Author)
	}
	if !parsed.ShowAuthorProfile {
		t.Error("ShowAuthorProfile lost in round trip")
	}
	if parsed.Body != original.Body {
		t.Errorf("Body = %q, want %q", parsed.Body, original.Body)
	}
}

func TestValidate(t *testing.T) {
	valid := ArticleContent{
		Title:  "T",
		Tags:   TagList{"a"},
		Layout: "post",
		Author: "me",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate on valid content: %v", err)
	}

	missing := ArticleContent{}
	err := missing.Validate()
	if err == nil {
		t.Fatal("Validate on empty content succeeded")
	}
	// All four problems reported in one pass.
	for _, want := range []string{"title", "layout", "author", "tag"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate error %q does not mention %s", err, want)
		}
	}
}

func TestParseFilename(t *testing.T) {
	slug, date, err := ParseFilename("2016-05-20-floating-action-button.md")
	if err != nil {
		t.Fatalf("ParseFilename: %v", err)
	}
	if slug != "floating-action-button" {
		t.Errorf("slug = %q", slug)
	}
	want := time.Date(2016, 5, 20, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Errorf("date = %v, want %v", date, want)
	}

	if _, _, err := ParseFilename("notes.md"); err == nil {
		t.Error("ParseFilename accepted an undated filename")
	}
	if _, _, err := ParseFilename("2016-13-40-bad-date.md"); err == nil {
		t.Error("ParseFilename accepted a calendar-invalid date")
	}
	if _, _, err := ParseFilename("2016-05-20-also-markdown.markdown"); err != nil {
		t.Errorf("ParseFilename rejected .markdown: %v", err)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
