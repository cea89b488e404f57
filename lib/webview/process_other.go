// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !unix

package webview

import (
	"os"
	"os/exec"
)

func setProcessGroup(command *exec.Cmd) {}

// Without process groups or SIGTERM, terminating is killing.
func terminateProcessGroup(process *os.Process) error {
	return process.Kill()
}

func killProcessGroup(process *os.Process) error {
	return process.Kill()
}

func isNoSuchProcess(err error) bool { return false }
