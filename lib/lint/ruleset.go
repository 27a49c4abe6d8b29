// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package lint

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/tidwall/jsonc"
)

// Severity classifies a finding. Errors fail a lint run; warnings are
// reported but do not affect the exit code.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule names. Each check reports findings under exactly one of these,
// and rulesets reference them to disable or reclassify checks.
const (
	// RuleHeaderParse: the document has no front matter header, the
	// header is never closed, or the YAML inside it is malformed.
	RuleHeaderParse = "header/parse"

	// RuleHeaderTitle, RuleHeaderLayout, RuleHeaderAuthor: the
	// corresponding required header field is missing or blank.
	RuleHeaderTitle  = "header/title"
	RuleHeaderLayout = "header/layout"
	RuleHeaderAuthor = "header/author"

	// RuleHeaderTags: the tag list is empty or contains duplicates.
	RuleHeaderTags = "header/tags"

	// RuleLayoutKnown: the layout is not in the ruleset's allow-list.
	// Inactive when the ruleset declares no layouts.
	RuleLayoutKnown = "header/layout-known"

	// RuleFenceClosed: a fenced code block is opened but never
	// closed, swallowing the rest of the article.
	RuleFenceClosed = "fence/closed"

	// RuleFenceLanguage: a fence has no language tag, so renderers
	// cannot highlight it.
	RuleFenceLanguage = "fence/language"

	// RuleImageExists: a relative image reference does not resolve
	// to a file under the content root.
	RuleImageExists = "image/exists"

	// RuleNameDate: the filename does not follow the
	// YYYY-MM-DD-slug.md convention (the file is treated as a draft).
	RuleNameDate = "name/date"

	// RuleSlugUnique: two files share a slug, so one shadows the
	// other everywhere the corpus is keyed by slug.
	RuleSlugUnique = "slug/unique"
)

// defaultSeverities maps every rule to its built-in severity.
// Doubling as the registry of known rule names for ruleset
// validation.
var defaultSeverities = map[string]Severity{
	RuleHeaderParse:   SeverityError,
	RuleHeaderTitle:   SeverityError,
	RuleHeaderLayout:  SeverityError,
	RuleHeaderAuthor:  SeverityError,
	RuleHeaderTags:    SeverityError,
	RuleLayoutKnown:   SeverityError,
	RuleFenceClosed:   SeverityError,
	RuleFenceLanguage: SeverityWarning,
	RuleImageExists:   SeverityError,
	RuleNameDate:      SeverityWarning,
	RuleSlugUnique:    SeverityError,
}

// Ruleset configures a lint run. The zero value enables every rule at
// its default severity with no layout allow-list.
//
// Rulesets are authored on disk as JSONC (JSON extended with comments
// and trailing commas):
//
//	{
//	  // legacy articles predate language tags
//	  "disabled": ["fence/language"],
//	  "severity": {"image/exists": "warning"},
//	  "layouts": ["post", "tutorial"],
//	}
type Ruleset struct {
	// Disabled lists rules to skip entirely.
	Disabled []string `json:"disabled"`

	// Severity overrides the default severity per rule.
	Severity map[string]Severity `json:"severity"`

	// Layouts is the layout allow-list for header/layout-known. An
	// empty list disables the check.
	Layouts []string `json:"layouts"`
}

// DefaultRuleset returns a ruleset with every rule enabled at its
// default severity.
func DefaultRuleset() Ruleset {
	return Ruleset{}
}

// ParseRuleset strips JSONC comments and trailing commas from data
// and unmarshals the result. Unknown rule names and severities are
// errors: a typo that silently enables nothing is worse than a
// failing lint run.
func ParseRuleset(data []byte) (Ruleset, error) {
	stripped := jsonc.ToJSON(data)

	var rules Ruleset
	if err := json.Unmarshal(stripped, &rules); err != nil {
		return Ruleset{}, fmt.Errorf("parsing ruleset: %w", err)
	}

	for _, rule := range rules.Disabled {
		if _, known := defaultSeverities[rule]; !known {
			return Ruleset{}, fmt.Errorf("ruleset disables unknown rule %q", rule)
		}
	}
	for rule, severity := range rules.Severity {
		if _, known := defaultSeverities[rule]; !known {
			return Ruleset{}, fmt.Errorf("ruleset reclassifies unknown rule %q", rule)
		}
		if severity != SeverityError && severity != SeverityWarning {
			return Ruleset{}, fmt.Errorf("rule %q: severity must be %q or %q, got %q",
				rule, SeverityError, SeverityWarning, severity)
		}
	}
	return rules, nil
}

// ReadRuleset reads a JSONC ruleset file from disk.
func ReadRuleset(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("reading %s: %w", path, err)
	}
	rules, err := ParseRuleset(data)
	if err != nil {
		return Ruleset{}, fmt.Errorf("%s: %w", path, err)
	}
	return rules, nil
}

// enabled reports whether a rule participates in this run.
func (rules *Ruleset) enabled(rule string) bool {
	return !slices.Contains(rules.Disabled, rule)
}

// severityOf returns the effective severity for a rule.
func (rules *Ruleset) severityOf(rule string) Severity {
	if severity, overridden := rules.Severity[rule]; overridden {
		return severity
	}
	return defaultSeverities[rule]
}
