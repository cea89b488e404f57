// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Webview is the command-line client for the webview rendering engine.
//
// Subcommands:
//
//   - open: open a window, print IPC messages, wait for it to close
//   - proxy: sit between a client and the engine, recording every frame
//   - transcript: print a recorded transcript
//   - fetch: resolve or download the engine binary and print its digest
//   - version: print client and engine versions
//
// Configuration comes from --config, else WEBVIEW_CONFIG, else built-in
// defaults. WEBVIEW_BIN overrides engine resolution for every command.
package main
