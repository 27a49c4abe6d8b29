// Copyright 2026 The Quill Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the quill CLI.
//
// Configuration is loaded from a single YAML file specified by:
//   - QUILL_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery beyond built-in
// defaults. Environment variables do not override file values; the
// only expansion performed is ${VAR} and ${VAR:-default} in paths,
// for portability across machines.
package config
