// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quill-foundation/quill/lib/digest"
)

// delimiter is the front matter fence. It must be the very first line
// of the document and appear again on its own line to close the
// header.
const delimiter = "---"

// DateLayout is the filename date format. Articles are named
// YYYY-MM-DD-slug.md; the date orders the corpus and the slug
// identifies the article everywhere else in this toolkit.
const DateLayout = "2006-01-02"

// TagList is a list of topical keywords. It unmarshals from either a
// YAML sequence or the legacy comma-separated scalar form that older
// articles use:
//
//	tags: [swiftui, animation]
//	tags:
//	  - swiftui
//	  - animation
//	tags: swiftui, animation
//
// All three produce the same TagList. Marshaling always emits the
// flow-sequence form.
type TagList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (tags *TagList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*tags = normalizeTags(list)
		return nil

	case yaml.ScalarNode:
		var scalar string
		if err := node.Decode(&scalar); err != nil {
			return err
		}
		*tags = normalizeTags(strings.Split(scalar, ","))
		return nil

	default:
		return fmt.Errorf("tags: expected a sequence or comma-separated scalar, got %s", yamlKindName(node.Kind))
	}
}

// MarshalYAML implements yaml.Marshaler. Tags serialize as a flow
// sequence ([a, b, c]) so formatted headers stay one line per field.
func (tags TagList) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.SequenceNode,
		Style: yaml.FlowStyle,
	}
	for _, tag := range tags {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: tag,
		})
	}
	return node, nil
}

// normalizeTags trims whitespace and drops empty entries. Duplicate
// detection is a lint concern, not a parse concern — the parser keeps
// duplicates so the linter can report them with the original content.
func normalizeTags(raw []string) TagList {
	tags := make(TagList, 0, len(raw))
	for _, tag := range raw {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// yamlKindName returns a human-readable name for a YAML node kind,
// for error messages.
func yamlKindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind(%d)", kind)
	}
}

// ArticleContent is the parsed form of one article document: the
// front matter header fields plus the raw body. This is the contract
// an external renderer consumes; every field maps to one header key.
type ArticleContent struct {
	// Title is the display title. Required.
	Title string `yaml:"title"`

	// Tags are topical keywords for filtering and grouping. The
	// header convention requires at least one.
	Tags TagList `yaml:"tags"`

	// Layout names the external template applied at render time.
	// This toolkit treats it as an opaque identifier, optionally
	// validated against a configured allow-list by the linter.
	// Required.
	Layout string `yaml:"layout"`

	// Author is the attribution identifier. Required.
	Author string `yaml:"author"`

	// ShowAuthorProfile controls whether the renderer emits an
	// author bio block under the article.
	ShowAuthorProfile bool `yaml:"show_author_profile"`

	// Body is everything after the closing delimiter, verbatim:
	// prose with fenced code blocks and relative image references.
	// Not a YAML field.
	Body string `yaml:"-"`
}

// Validate checks header well-formedness: the required fields are
// present and tags carry at least one non-empty entry. All problems
// are reported together via errors.Join so an author fixes a header
// in one pass.
func (content *ArticleContent) Validate() error {
	var errs []error

	if strings.TrimSpace(content.Title) == "" {
		errs = append(errs, fmt.Errorf("header: title is required"))
	}
	if strings.TrimSpace(content.Layout) == "" {
		errs = append(errs, fmt.Errorf("header: layout is required"))
	}
	if strings.TrimSpace(content.Author) == "" {
		errs = append(errs, fmt.Errorf("header: author is required"))
	}
	if len(content.Tags) == 0 {
		errs = append(errs, fmt.Errorf("header: at least one tag is required"))
	}

	return errors.Join(errs...)
}

// ParseDocument splits a raw article document into header and body
// and decodes the header. The document must start with the "---"
// delimiter on the first line and close the header with another
// delimiter line; anything after the closing delimiter (minus one
// leading newline) is the body.
//
// Unknown header fields are ignored. Header fields with the wrong
// shape (e.g. a mapping where a scalar is expected) are errors.
func ParseDocument(raw []byte) (ArticleContent, error) {
	header, body, _, err := Split(raw)
	if err != nil {
		return ArticleContent{}, err
	}

	var content ArticleContent
	if err := yaml.Unmarshal(header, &content); err != nil {
		return ArticleContent{}, fmt.Errorf("decoding header: %w", err)
	}
	content.Body = string(body)
	return content, nil
}

// FormatDocument serializes an article back into document form:
// delimiter, header fields in canonical order, delimiter, blank
// line, body. Round-trips with [ParseDocument] for valid content.
func FormatDocument(content ArticleContent) []byte {
	var buffer bytes.Buffer
	buffer.WriteString(delimiter)
	buffer.WriteByte('\n')

	// Marshal the header struct directly: field order follows the
	// struct definition, which is the canonical header order.
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	// Encoding a struct of scalars and a flow sequence cannot fail.
	_ = encoder.Encode(&content)
	_ = encoder.Close()

	buffer.WriteString(delimiter)
	buffer.WriteByte('\n')

	if content.Body != "" {
		buffer.WriteByte('\n')
		buffer.WriteString(content.Body)
		if !strings.HasSuffix(content.Body, "\n") {
			buffer.WriteByte('\n')
		}
	}
	return buffer.Bytes()
}

// Split locates the front matter fences and returns the raw header
// bytes, the body bytes, and the 1-based line number where the body
// begins in the original document. The body has the newline after
// the closing delimiter and at most one blank separator line
// stripped; bodyLine accounts for both. The linter uses bodyLine to
// report body findings with document-accurate line numbers.
func Split(raw []byte) (header, body []byte, bodyLine int, err error) {
	// Tolerate a UTF-8 BOM — some editors insert one silently.
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	firstLine, rest, found := bytes.Cut(raw, []byte("\n"))
	if !found || strings.TrimRight(string(firstLine), "\r") != delimiter {
		return nil, nil, 0, fmt.Errorf("document does not start with %q front matter delimiter", delimiter)
	}

	// Find the closing delimiter on its own line, counting lines as
	// we go. Line 1 is the opening delimiter.
	line := 2
	offset := 0
	for offset <= len(rest) {
		current := rest[offset:]
		if newline := bytes.IndexByte(current, '\n'); newline >= 0 {
			current = current[:newline]
		}
		if strings.TrimRight(string(current), "\r") == delimiter {
			header = rest[:offset]
			body = rest[offset+len(current):]
			body = bytes.TrimPrefix(body, []byte("\n"))
			bodyLine = line + 1
			if bytes.HasPrefix(body, []byte("\n")) {
				body = body[1:]
				bodyLine++
			}
			return header, body, bodyLine, nil
		}
		newline := bytes.IndexByte(rest[offset:], '\n')
		if newline < 0 {
			break
		}
		offset += newline + 1
		line++
	}

	return nil, nil, 0, fmt.Errorf("front matter header is never closed (missing %q line)", delimiter)
}

// filenamePattern matches the dated article filename convention.
// Group 1 is the date, group 2 the slug (without extension).
var filenamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.(md|markdown)$`)

// ParseFilename derives the slug and publication date from an article
// filename. Returns an error when the name does not follow the
// YYYY-MM-DD-slug.md convention or the date does not exist on the
// calendar — callers treat such files as drafts.
func ParseFilename(name string) (slug string, date time.Time, err error) {
	match := filenamePattern.FindStringSubmatch(name)
	if match == nil {
		return "", time.Time{}, fmt.Errorf("filename %q does not match YYYY-MM-DD-slug.md", name)
	}

	date, err = time.Parse(DateLayout, match[1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("filename %q: invalid date: %w", name, err)
	}
	return match[2], date, nil
}

// Article pairs parsed content with the identity derived from its
// location on disk. This is the unit the store loads and the index
// stores.
type Article struct {
	// Slug identifies the article across the toolkit (index keys,
	// CLI arguments, related-article references).
	Slug string

	// Date is the publication date from the filename. Zero for
	// drafts.
	Date time.Time

	// Path is the file path the article was loaded from, relative
	// to the content root when loaded by the store.
	Path string

	// IsDraft marks files without a parseable date prefix. Drafts
	// are excluded from reverse-chronological listings unless
	// explicitly requested.
	IsDraft bool

	// Digest is the BLAKE3 digest of the raw document bytes, set by
	// the store at load time. The cache and snapshot layers compare
	// digests to detect modified files.
	Digest digest.Digest

	// Content is the parsed header and body.
	Content ArticleContent
}

// Year returns the publication year, or 0 for drafts. Used by the
// index's by-year dimension.
func (article *Article) Year() int {
	if article.Date.IsZero() {
		return 0
	}
	return article.Date.Year()
}
