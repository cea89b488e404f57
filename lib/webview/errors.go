// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"errors"
	"fmt"

	"github.com/bureau-foundation/webview/lib/wire"
)

// ErrSessionClosed matches every *SessionClosedError with errors.Is.
var ErrSessionClosed = errors.New("webview: session closed")

// ErrRequestTimeout is returned by Send when SessionConfig.RequestTimeout
// elapses before the response arrives. The request id is forgotten; a
// late response for it is discarded.
var ErrRequestTimeout = errors.New("webview: request timed out")

// ProcessSpawnError reports that the engine binary could not be
// started. The session never reaches Running.
type ProcessSpawnError struct {
	Path string
	Err  error
}

func (e *ProcessSpawnError) Error() string {
	return fmt.Sprintf("starting webview engine %s: %v", e.Path, e.Err)
}

func (e *ProcessSpawnError) Unwrap() error { return e.Err }

// StreamIOError reports a read or write failure on the engine's stdio.
// It is fatal to the session.
type StreamIOError struct {
	// Op is "read" or "write".
	Op  string
	Err error
}

func (e *StreamIOError) Error() string {
	return fmt.Sprintf("webview engine stream %s: %v", e.Op, e.Err)
}

func (e *StreamIOError) Unwrap() error { return e.Err }

// ProtocolError reports a response that decoded cleanly but does not fit
// the request it answers, such as a string result for isVisible.
type ProtocolError struct {
	Operation wire.Operation
	Expected  string
	Got       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("webview %s: expected %s, got %s", e.Operation, e.Expected, e.Got)
}

// RemoteError carries an err outcome: the engine understood the request
// and failed to perform it.
type RemoteError struct {
	Operation wire.Operation
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("webview %s: engine error: %s", e.Operation, e.Message)
}

// ConfigurationError reports a call that the session's configuration
// does not allow. It is raised before any I/O.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "webview: " + e.Reason
}

// SessionClosedError is returned for requests that were pending when the
// session ended, and for requests sent after it ended. Cause is the
// reason the session ended: nil for an orderly close, otherwise the
// stream or process error.
type SessionClosedError struct {
	Cause error
}

func (e *SessionClosedError) Error() string {
	if e.Cause == nil {
		return ErrSessionClosed.Error()
	}
	return fmt.Sprintf("%v: %v", ErrSessionClosed, e.Cause)
}

func (e *SessionClosedError) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ErrSessionClosed) hold for every
// SessionClosedError regardless of cause.
func (e *SessionClosedError) Is(target error) bool {
	return target == ErrSessionClosed
}
