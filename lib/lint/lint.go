// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package lint

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/quill-foundation/quill/lib/schema"
)

// Finding is one lint problem: which rule fired, where, and a
// human-readable message.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
}

// String formats a finding in the compiler-style path:line form that
// editors know how to jump to.
func (finding Finding) String() string {
	return fmt.Sprintf("%s:%d: %s: %s: %s",
		finding.Path, finding.Line, finding.Severity, finding.Rule, finding.Message)
}

// HasErrors reports whether any finding is an error. Warnings alone
// leave a lint run successful.
func HasErrors(findings []Finding) bool {
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Document is one file to lint: its path relative to the content root
// and its raw bytes. Lint works on raw bytes rather than parsed
// articles so it can report on files the parser rejects.
type Document struct {
	Path string
	Raw  []byte
}

// LoadDirectory collects every markdown file under root as a
// Document, paths relative to root, sorted. Hidden directories are
// skipped.
func LoadDirectory(root string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if name := entry.Name(); strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		extension := strings.ToLower(filepath.Ext(path))
		if extension != ".md" && extension != ".markdown" {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		relative, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		docs = append(docs, Document{Path: filepath.ToSlash(relative), Raw: raw})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", root, err)
	}
	slices.SortFunc(docs, func(a, b Document) int {
		return strings.Compare(a.Path, b.Path)
	})
	return docs, nil
}

// Linter checks documents against a ruleset. Root is the content root
// used to resolve relative image references; when empty, image/exists
// is skipped.
type Linter struct {
	Rules Ruleset
	Root  string
}

// File runs every per-file rule against one document. Findings are
// ordered by line, then rule.
func (l *Linter) File(doc Document) []Finding {
	var findings []Finding

	_, body, bodyLine, err := schema.Split(doc.Raw)
	if err != nil {
		// Without a header there is no body either; nothing else to
		// check beyond the filename.
		findings = l.report(findings, RuleHeaderParse, doc.Path, 1, "%v", err)
		findings = l.filenameFindings(findings, doc.Path)
		return sortFindings(findings)
	}

	content, err := schema.ParseDocument(doc.Raw)
	if err != nil {
		findings = l.report(findings, RuleHeaderParse, doc.Path, 1, "%v", err)
	} else {
		findings = l.headerFindings(findings, doc.Path, &content)
	}

	findings = l.filenameFindings(findings, doc.Path)
	findings = l.fenceFindings(findings, doc.Path, body, bodyLine)
	findings = l.imageFindings(findings, doc.Path, body, bodyLine)
	return sortFindings(findings)
}

// Corpus runs File on every document plus the cross-file checks.
// Documents are processed in path order so findings are deterministic
// regardless of caller ordering.
func (l *Linter) Corpus(docs []Document) []Finding {
	sorted := slices.Clone(docs)
	slices.SortFunc(sorted, func(a, b Document) int {
		return strings.Compare(a.Path, b.Path)
	})

	var findings []Finding
	for _, doc := range sorted {
		findings = append(findings, l.File(doc)...)
	}

	// Slug uniqueness: the slug keys the article everywhere (index,
	// CLI arguments, related-article references), so a duplicate
	// silently shadows an article.
	firstPath := make(map[string]string, len(sorted))
	for _, doc := range sorted {
		slug := slugOf(doc.Path)
		if earlier, duplicate := firstPath[slug]; duplicate {
			findings = l.report(findings, RuleSlugUnique, doc.Path, 1,
				"slug %q already used by %s", slug, earlier)
			continue
		}
		firstPath[slug] = doc.Path
	}
	return findings
}

// report appends a finding unless the rule is disabled.
func (l *Linter) report(findings []Finding, rule, path string, line int, format string, args ...any) []Finding {
	if !l.Rules.enabled(rule) {
		return findings
	}
	return append(findings, Finding{
		Rule:     rule,
		Severity: l.Rules.severityOf(rule),
		Path:     path,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// headerFindings checks the parsed header fields. Header findings
// point at line 1 (the opening delimiter): the YAML decoder does not
// preserve per-field positions.
func (l *Linter) headerFindings(findings []Finding, path string, content *schema.ArticleContent) []Finding {
	if strings.TrimSpace(content.Title) == "" {
		findings = l.report(findings, RuleHeaderTitle, path, 1, "title is required")
	}
	if strings.TrimSpace(content.Layout) == "" {
		findings = l.report(findings, RuleHeaderLayout, path, 1, "layout is required")
	} else if len(l.Rules.Layouts) > 0 && !slices.Contains(l.Rules.Layouts, content.Layout) {
		findings = l.report(findings, RuleLayoutKnown, path, 1,
			"layout %q is not one of the configured layouts (%s)",
			content.Layout, strings.Join(l.Rules.Layouts, ", "))
	}
	if strings.TrimSpace(content.Author) == "" {
		findings = l.report(findings, RuleHeaderAuthor, path, 1, "author is required")
	}

	if len(content.Tags) == 0 {
		findings = l.report(findings, RuleHeaderTags, path, 1, "at least one tag is required")
	} else {
		seen := make(map[string]struct{}, len(content.Tags))
		for _, tag := range content.Tags {
			if _, duplicate := seen[tag]; duplicate {
				findings = l.report(findings, RuleHeaderTags, path, 1, "duplicate tag %q", tag)
			}
			seen[tag] = struct{}{}
		}
	}
	return findings
}

// filenameFindings checks the dated filename convention.
func (l *Linter) filenameFindings(findings []Finding, path string) []Finding {
	if _, _, err := schema.ParseFilename(filepath.Base(path)); err != nil {
		findings = l.report(findings, RuleNameDate, path, 1,
			"filename does not match YYYY-MM-DD-slug.md; the file is treated as a draft")
	}
	return findings
}

// openFence tracks an unclosed fence while scanning the body.
type openFence struct {
	char   byte
	length int
	line   int
}

// fenceFindings scans the body line by line for fenced code blocks.
// A fence opens with three or more backticks or tildes (at most three
// spaces of indent) and closes with a run of the same character at
// least as long, alone on its line. The markdown parser silently
// closes an unterminated fence at end of input, so this check works
// on the raw lines instead.
func (l *Linter) fenceFindings(findings []Finding, path string, body []byte, firstLine int) []Finding {
	var open *openFence
	for i, line := range strings.Split(string(body), "\n") {
		lineNumber := firstLine + i
		trimmed := strings.TrimLeft(line, " ")
		if len(line)-len(trimmed) > 3 {
			continue
		}
		trimmed = strings.TrimRight(trimmed, " \r")

		if open != nil {
			if closesFence(trimmed, open) {
				open = nil
			}
			continue
		}

		char, length, info, isFence := parseFenceOpen(trimmed)
		if !isFence {
			continue
		}
		open = &openFence{char: char, length: length, line: lineNumber}
		if info == "" {
			findings = l.report(findings, RuleFenceLanguage, path, lineNumber,
				"code fence has no language tag")
		}
	}
	if open != nil {
		findings = l.report(findings, RuleFenceClosed, path, open.line,
			"code fence opened here is never closed")
	}
	return findings
}

// parseFenceOpen reports whether a line (already trimmed of indent
// and trailing whitespace) opens a fence, and if so the fence
// character, its run length, and the info string.
func parseFenceOpen(line string) (char byte, length int, info string, isFence bool) {
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0, 0, "", false
	}
	char = line[0]
	length = 1
	for length < len(line) && line[length] == char {
		length++
	}
	if length < 3 {
		return 0, 0, "", false
	}
	info = strings.TrimSpace(line[length:])
	// An info string containing a backtick means the backticks are
	// inline code, not a fence.
	if char == '`' && strings.ContainsRune(info, '`') {
		return 0, 0, "", false
	}
	return char, length, info, true
}

// closesFence reports whether a trimmed line closes the open fence:
// a run of the fence character at least as long as the opening run,
// with nothing after it.
func closesFence(line string, open *openFence) bool {
	length := 0
	for length < len(line) && line[length] == open.char {
		length++
	}
	return length >= open.length && length == len(line)
}

// bodyParser is the shared goldmark instance for image extraction.
// Parser state is per-parse; the instance itself is reusable.
var bodyParser = sync.OnceValue(func() goldmark.Markdown {
	return goldmark.New()
})

// imageFindings parses the body and checks that every relative image
// reference resolves to an existing file. References with a URL
// scheme are external and skipped.
func (l *Linter) imageFindings(findings []Finding, path string, body []byte, firstLine int) []Finding {
	if l.Root == "" || !l.Rules.enabled(RuleImageExists) {
		return findings
	}

	document := bodyParser().Parser().Parse(text.NewReader(body))
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || node.Kind() != ast.KindImage {
			return ast.WalkContinue, nil
		}
		destination := string(node.(*ast.Image).Destination)
		if !isRelativeRef(destination) {
			return ast.WalkContinue, nil
		}
		resolved := l.resolveRef(path, destination)
		if _, err := os.Stat(resolved); err != nil {
			findings = l.report(findings, RuleImageExists, path, firstLine+nodeLine(body, node),
				"image %q does not exist (resolved to %s)", destination, resolved)
		}
		return ast.WalkContinue, nil
	})
	return findings
}

// isRelativeRef reports whether an image destination points into the
// content tree rather than at an external URL or inline data.
func isRelativeRef(destination string) bool {
	if destination == "" || strings.HasPrefix(destination, "#") {
		return false
	}
	if strings.Contains(destination, "://") || strings.HasPrefix(destination, "data:") {
		return false
	}
	return true
}

// resolveRef maps an image destination to a filesystem path: a
// leading slash is root-relative, anything else is relative to the
// article's directory. Query strings and fragments are stripped.
func (l *Linter) resolveRef(articlePath, destination string) string {
	if index := strings.IndexAny(destination, "?#"); index >= 0 {
		destination = destination[:index]
	}
	if strings.HasPrefix(destination, "/") {
		return filepath.Join(l.Root, filepath.FromSlash(destination))
	}
	return filepath.Join(l.Root, filepath.Dir(filepath.FromSlash(articlePath)), filepath.FromSlash(destination))
}

// nodeLine returns the 0-based line offset of a node within the body.
// Inline nodes carry no position, so this climbs to the nearest
// ancestor with source segments.
func nodeLine(body []byte, node ast.Node) int {
	for current := node; current != nil; current = current.Parent() {
		if lines := current.Lines(); lines != nil && lines.Len() > 0 {
			return bytes.Count(body[:lines.At(0).Start], []byte("\n"))
		}
	}
	return 0
}

// slugOf derives the slug a file will be indexed under: the filename
// date prefix stripped for dated articles, the bare name for drafts.
func slugOf(path string) string {
	base := filepath.Base(path)
	if slug, _, err := schema.ParseFilename(base); err == nil {
		return slug
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// sortFindings orders findings by line then rule name. Paths are
// uniform within one File call.
func sortFindings(findings []Finding) []Finding {
	slices.SortFunc(findings, func(a, b Finding) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return strings.Compare(a.Rule, b.Rule)
	})
	return findings
}
