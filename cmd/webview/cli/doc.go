// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the webview
// binary.
//
// A [Command] tree dispatches on the first positional argument, parses
// pflag flags for the selected leaf, and renders structured help with
// typo suggestions for unknown commands and flags. Flags are declared
// on parameter structs with `flag`, `desc`, and `default` tags and
// bound with [FlagsFromParams].
//
// [NewCommandLogger] builds the slog logger every command uses: text on
// a terminal, JSON otherwise, at the configured level. [WriteJSON]
// prints machine-readable results.
package cli
