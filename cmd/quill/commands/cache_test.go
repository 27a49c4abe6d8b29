// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"reflect"
	"testing"

	"github.com/quill-foundation/quill/lib/digest"
	"github.com/quill-foundation/quill/lib/schema"
)

func TestCompareDigests(t *testing.T) {
	fresh := schema.Article{Slug: "fresh"}
	fresh.Digest = digest.Content([]byte("fresh v1"))
	edited := schema.Article{Slug: "edited"}
	edited.Digest = digest.Content([]byte("edited v2"))
	unchanged := schema.Article{Slug: "unchanged"}
	unchanged.Digest = digest.Content([]byte("same"))

	cached := map[string]digest.Digest{
		"edited":    digest.Content([]byte("edited v1")),
		"unchanged": unchanged.Digest,
		"deleted":   digest.Content([]byte("gone")),
	}

	status := compareDigests([]schema.Article{fresh, edited, unchanged}, cached)

	if status.Corpus != 3 || status.Cached != 3 {
		t.Errorf("counts: corpus=%d cached=%d", status.Corpus, status.Cached)
	}
	if !reflect.DeepEqual(status.Missing, []string{"fresh"}) {
		t.Errorf("missing = %v", status.Missing)
	}
	if !reflect.DeepEqual(status.Stale, []string{"edited"}) {
		t.Errorf("stale = %v", status.Stale)
	}
	if !reflect.DeepEqual(status.Orphaned, []string{"deleted"}) {
		t.Errorf("orphaned = %v", status.Orphaned)
	}
}

func TestCompareDigestsClean(t *testing.T) {
	entry := schema.Article{Slug: "only"}
	entry.Digest = digest.Content([]byte("body"))
	status := compareDigests([]schema.Article{entry},
		map[string]digest.Digest{"only": entry.Digest})
	if len(status.Missing)+len(status.Stale)+len(status.Orphaned) != 0 {
		t.Errorf("expected clean status, got %+v", status)
	}
}
