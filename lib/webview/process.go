// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Process is a running engine as the session sees it: a write end for
// requests, a read end for responses and notifications, and lifecycle
// control. Start backs it with an OS process; tests and in-process
// relays supply their own.
type Process interface {
	// Stdin is the engine's input stream. The session closes it during
	// teardown.
	Stdin() io.WriteCloser

	// Stdout is the engine's output stream.
	Stdout() io.Reader

	// Terminate asks the engine to exit (SIGTERM to its process group
	// on Unix).
	Terminate() error

	// Kill forces the engine to exit.
	Kill() error

	// Wait blocks until the engine has exited and its resources are
	// released. The session calls it exactly once, after it has
	// stopped reading Stdout.
	Wait() error
}

// execProcess runs the engine as a child process.
type execProcess struct {
	command *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
}

// SpawnEngine starts the engine at binaryPath with optionsJSON as its
// only argument and returns it without attaching a session. Relays
// that forward the engine's streams themselves use it. stderr receives
// the engine's diagnostics; nil discards them.
func SpawnEngine(binaryPath string, optionsJSON []byte, stderr io.Writer) (Process, error) {
	return spawnEngine(binaryPath, optionsJSON, stderr)
}

func spawnEngine(binaryPath string, optionsJSON []byte, stderr io.Writer) (*execProcess, error) {
	process, err := spawn(binaryPath, []string{string(optionsJSON)}, stderr)
	if err != nil {
		return nil, &ProcessSpawnError{Path: binaryPath, Err: err}
	}
	return process, nil
}

// spawn starts binaryPath with arguments, with stdin and stdout piped
// to the caller and stderr passed through to stderr.
func spawn(binaryPath string, arguments []string, stderr io.Writer) (*execProcess, error) {
	command := exec.Command(binaryPath, arguments...)
	command.Stderr = stderr
	setProcessGroup(command)

	stdin, err := command.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}

	stdout, err := command.StdoutPipe()
	if err != nil {
		stdin.Close()
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}

	if err := command.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return nil, err
	}

	return &execProcess{command: command, stdin: stdin, stdout: stdout}, nil
}

func (process *execProcess) Stdin() io.WriteCloser { return process.stdin }
func (process *execProcess) Stdout() io.Reader     { return process.stdout }

func (process *execProcess) Terminate() error {
	return ignoreFinished(terminateProcessGroup(process.command.Process))
}

func (process *execProcess) Kill() error {
	return ignoreFinished(killProcessGroup(process.command.Process))
}

func (process *execProcess) Wait() error {
	return process.command.Wait()
}

// ignoreFinished treats signalling a process that has already exited as
// success.
func ignoreFinished(err error) error {
	if errors.Is(err, os.ErrProcessDone) || isNoSuchProcess(err) {
		return nil
	}
	return err
}
