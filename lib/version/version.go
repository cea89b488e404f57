// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the client's semantic version. Set manually for
	// releases.
	Version = "0.1.0-dev"
)

// EngineVersion is the webview engine release this client speaks to.
// Sessions compare it with the version in the engine's started
// notification, and the binary resolver downloads this release.
const EngineVersion = "0.3.1"

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns detailed version information including the engine
// protocol version and Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Engine: %s\n  Go: %s\n  Platform: %s/%s",
		Info(), EngineVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}
