// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package enginebin locates the webview engine executable.
//
// [Resolver] checks, in order: the WEBVIEW_BIN environment variable,
// an explicitly configured path, the per-user cache, and finally the
// engine's release downloads. Each engine build is a separate asset:
// the devtools build is selected when Options.Devtools is set, and on
// macOS the transparent build when Options.Transparent is set.
// Downloads land in the cache atomically (temporary file, then rename)
// and are never retried.
//
// Binaries are identified by BLAKE3 digest ([HashFile],
// [FormatDigest], [ParseDigest]). When a digest is configured for an
// asset, cached and downloaded files that do not match it are
// discarded.
package enginebin
