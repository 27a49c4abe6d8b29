// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"
)

type sampleParams struct {
	Tag     string        `flag:"tag,t" desc:"filter by tag"`
	Limit   int           `flag:"limit,n" desc:"max results" default:"20"`
	Drafts  bool          `flag:"drafts" desc:"include drafts"`
	Ratio   float64       `flag:"ratio" default:"0.5"`
	Timeout time.Duration `flag:"timeout" default:"30s"`
	Styles  []string      `flag:"styles" default:"monokai,github"`

	// No flag tag: ignored by the binder.
	internal string
}

func TestFlagsFromParamsDefaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)

	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Limit != 20 {
		t.Errorf("limit default = %d, want 20", params.Limit)
	}
	if params.Ratio != 0.5 {
		t.Errorf("ratio default = %v", params.Ratio)
	}
	if params.Timeout != 30*time.Second {
		t.Errorf("timeout default = %v", params.Timeout)
	}
	if len(params.Styles) != 2 || params.Styles[0] != "monokai" {
		t.Errorf("styles default = %v", params.Styles)
	}
	if params.Drafts {
		t.Error("drafts should default to false")
	}
}

func TestFlagsFromParamsParse(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)

	args := []string{"-t", "swiftui", "-n", "5", "--drafts", "--timeout", "1m", "positional"}
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Tag != "swiftui" || params.Limit != 5 || !params.Drafts {
		t.Errorf("parsed params = %+v", params)
	}
	if params.Timeout != time.Minute {
		t.Errorf("timeout = %v", params.Timeout)
	}
	if rest := flagSet.Args(); len(rest) != 1 || rest[0] != "positional" {
		t.Errorf("positional args = %v", rest)
	}
}

func TestBindFlagsEmbeddedJSONOutput(t *testing.T) {
	var params struct {
		JSONOutput
		Tag string `flag:"tag"`
	}
	flagSet := FlagsFromParams("sample", &params)

	if err := flagSet.Parse([]string{"--json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !params.OutputJSON {
		t.Error("--json should set OutputJSON")
	}
}

func TestBindFlagsRejectsNonPointer(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	_ = flagSet

	if err := BindFlags(sampleParams{}, nil); err == nil {
		t.Error("BindFlags should reject a non-pointer")
	}
}

func TestBindFlagsUnsupportedType(t *testing.T) {
	var params struct {
		Bad map[string]string `flag:"bad"`
	}
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams should panic on unsupported field types")
		}
	}()
	FlagsFromParams("sample", &params)
}

func TestEmitJSONDisabled(t *testing.T) {
	var output JSONOutput
	done, err := output.EmitJSON([]string{"a"})
	if done || err != nil {
		t.Errorf("EmitJSON without --json: done=%v err=%v", done, err)
	}
}

func TestNormalizeNilSlice(t *testing.T) {
	var articles []string
	normalized := normalizeNilSlice(articles)
	if normalized == nil {
		t.Fatal("normalized value should not be nil")
	}
	if slice, ok := normalized.([]string); !ok || slice == nil || len(slice) != 0 {
		t.Errorf("normalized = %#v", normalized)
	}
}
