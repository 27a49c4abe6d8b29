// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the quill CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/quill/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// Flag definitions live as struct tags on per-command parameter
// structs, bound through [FlagsFromParams]. Commands that support
// machine-readable output embed [JSONOutput] for the --json flag.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3).
package cli
