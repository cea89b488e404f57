// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads client configuration and window option files.
//
// Configuration is loaded from a single file specified by either the
// WEBVIEW_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file
// search. Files ending in .toml are TOML; everything else is YAML. The
// two formats share key names:
//
//	engine:
//	  cache_dir: ${HOME}/.cache/webview
//	  digests:
//	    webview-linux: 5f1c...
//	session:
//	  request_timeout: 10s
//	transcript:
//	  path: ${XDG_STATE_HOME:-/tmp}/webview.wvtr
//	  compression: zstd
//	logging:
//	  level: debug
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded. No other
// environment variables override config values; WEBVIEW_BIN is read by
// the engine resolver, not here.
//
// Window options files ([LoadWindowOptions]) are the engine's JSON
// options with comments and trailing commas allowed.
//
// Key exports:
//
//   - [Config] -- engine, session, transcript, and logging sections
//   - [Default] -- returns a Config with built-in defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [LoadWindowOptions] and [ParseWindowOptions] -- window options
package config
