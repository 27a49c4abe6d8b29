// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	leaf := func(name string) *Command {
		return &Command{
			Name: name,
			Run: func(_ context.Context, args []string, _ *slog.Logger) error {
				ran = append(ran, name)
				return nil
			},
		}
	}
	root := &Command{
		Name:        "quill",
		Subcommands: []*Command{leaf("list"), leaf("lint")},
	}

	if err := root.Execute(context.Background(), []string{"lint"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 1 || ran[0] != "lint" {
		t.Errorf("ran = %v, want [lint]", ran)
	}
}

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "quill",
		Subcommands: []*Command{
			{Name: "snapshot"},
			{Name: "search"},
		},
	}

	err := root.Execute(context.Background(), []string{"snapshit"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "snapshot"`) {
		t.Errorf("expected suggestion in error, got: %v", err)
	}
}

func TestExecuteUnknownCommandNoCloseMatch(t *testing.T) {
	root := &Command{
		Name:        "quill",
		Subcommands: []*Command{{Name: "list"}},
	}

	err := root.Execute(context.Background(), []string{"zzzzzzzzz"})
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("should not suggest for distant input, got: %v", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var tag string
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&tag, "tag", "", "filter by tag")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--tag", "swiftui"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if tag != "swiftui" {
		t.Errorf("tag = %q, want swiftui", tag)
	}
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.String("author", "", "filter by author")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			return nil
		},
	}

	err := command.Execute(context.Background(), []string{"--authr", "jane"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--author") {
		t.Errorf("expected flag suggestion, got: %v", err)
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	root := &Command{
		Name:        "quill",
		Subcommands: []*Command{{Name: "list"}},
	}

	err := root.Execute(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("expected subcommand-required error, got: %v", err)
	}
}

func TestPrintHelp(t *testing.T) {
	root := &Command{
		Name:        "quill",
		Description: "Browse and lint a markdown article corpus.",
		Subcommands: []*Command{
			{Name: "list", Summary: "List articles"},
			{Name: "lint", Summary: "Check the corpus"},
		},
		Examples: []Example{
			{Description: "Lint everything", Command: "quill lint"},
		},
	}

	var help strings.Builder
	root.PrintHelp(&help)
	output := help.String()

	for _, want := range []string{
		"Browse and lint",
		"Commands:",
		"List articles",
		"Examples:",
		"# Lint everything",
		"quill <command> --help",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help missing %q:\n%s", want, output)
		}
	}
}

func TestFullName(t *testing.T) {
	child := &Command{Name: "diff"}
	parent := &Command{Name: "snapshot", Subcommands: []*Command{child}}
	root := &Command{Name: "quill", Subcommands: []*Command{parent}}
	parent.parent = root
	child.parent = parent

	if name := child.fullName(); name != "quill snapshot diff" {
		t.Errorf("fullName = %q", name)
	}
}
