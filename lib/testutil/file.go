// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
)

// WriteExecutable writes content to directory/name with mode 0755 and
// returns the full path. Missing parent directories are created.
//
//	binary := testutil.WriteExecutable(t, cacheDir, "webview-0.3.1", []byte("#!/bin/sh\n"))
func WriteExecutable(t TB, directory, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(directory, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
