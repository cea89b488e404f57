// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package webview

import (
	"errors"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup puts the engine in its own process group so that
// terminating it also reaches the browser helper processes it spawns.
func setProcessGroup(command *exec.Cmd) {
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func terminateProcessGroup(process *os.Process) error {
	return unix.Kill(-process.Pid, unix.SIGTERM)
}

func killProcessGroup(process *os.Process) error {
	return unix.Kill(-process.Pid, unix.SIGKILL)
}

func isNoSuchProcess(err error) bool {
	return errors.Is(err, unix.ESRCH)
}
