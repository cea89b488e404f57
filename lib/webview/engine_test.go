// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"bufio"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bureau-foundation/webview/lib/wire"
)

// testTimeout bounds every wait on a goroutine in this package's tests.
const testTimeout = 5 * time.Second

// fakeEngineOptions controls how the scripted engine reacts to
// teardown.
type fakeEngineOptions struct {
	// holdOnStdinClose keeps the engine running after its stdin is
	// closed. By default the engine exits, as the real one does.
	holdOnStdinClose bool

	// ignoreTerminate makes Terminate a no-op, so only Kill ends the
	// engine.
	ignoreTerminate bool

	// killErr is returned by Kill, which still ends the engine.
	killErr error
}

// fakeEngine is an in-memory Process driven by the test. Requests the
// session writes are decoded onto the requests channel; the test
// scripts the engine's output with send and writeRaw.
type fakeEngine struct {
	t       *testing.T
	options fakeEngineOptions

	stdinReader  *io.PipeReader
	stdinWriter  *io.PipeWriter
	stdoutReader *io.PipeReader
	stdoutWriter *io.PipeWriter

	requests chan wire.Request

	exitOnce     sync.Once
	exited       chan struct{}
	terminations atomic.Int32
	kills        atomic.Int32
}

func newFakeEngine(t *testing.T, options fakeEngineOptions) *fakeEngine {
	t.Helper()
	stdinReader, stdinWriter := io.Pipe()
	stdoutReader, stdoutWriter := io.Pipe()
	engine := &fakeEngine{
		t:            t,
		options:      options,
		stdinReader:  stdinReader,
		stdinWriter:  stdinWriter,
		stdoutReader: stdoutReader,
		stdoutWriter: stdoutWriter,
		requests:     make(chan wire.Request, 256),
		exited:       make(chan struct{}),
	}
	go engine.readRequests()
	t.Cleanup(engine.exit)
	return engine
}

func (engine *fakeEngine) readRequests() {
	scanner := bufio.NewScanner(engine.stdinReader)
	scanner.Buffer(make([]byte, 0, 64*1024), wire.DefaultMaxFrameSize)
	for scanner.Scan() {
		message, err := wire.Decode(scanner.Bytes())
		if err != nil {
			engine.t.Errorf("engine received undecodable frame %q: %v", scanner.Bytes(), err)
			continue
		}
		request, ok := message.(wire.Request)
		if !ok {
			engine.t.Errorf("engine received %T, want a request", message)
			continue
		}
		engine.requests <- request
	}
	close(engine.requests)
	if !engine.options.holdOnStdinClose {
		engine.exit()
	}
}

func (engine *fakeEngine) Stdin() io.WriteCloser { return engine.stdinWriter }
func (engine *fakeEngine) Stdout() io.Reader     { return engine.stdoutReader }

func (engine *fakeEngine) Terminate() error {
	engine.terminations.Add(1)
	if !engine.options.ignoreTerminate {
		engine.exit()
	}
	return nil
}

func (engine *fakeEngine) Kill() error {
	engine.kills.Add(1)
	engine.exit()
	return engine.options.killErr
}

func (engine *fakeEngine) Wait() error {
	<-engine.exited
	return nil
}

// exit ends the engine: its stdout reaches EOF and writes to its stdin
// fail.
func (engine *fakeEngine) exit() {
	engine.exitOnce.Do(func() {
		engine.stdoutWriter.Close()
		engine.stdinReader.CloseWithError(io.ErrClosedPipe)
		close(engine.exited)
	})
}

// send writes message as one frame on the engine's stdout.
func (engine *fakeEngine) send(message wire.Message) {
	engine.t.Helper()
	frame, err := wire.EncodeFrame(message)
	if err != nil {
		engine.t.Fatalf("encoding %#v: %v", message, err)
	}
	engine.writeRaw(frame)
}

// writeRaw writes data to the engine's stdout in a single write, which
// the session receives as a single chunk.
func (engine *fakeEngine) writeRaw(data []byte) {
	engine.t.Helper()
	if _, err := engine.stdoutWriter.Write(data); err != nil {
		engine.t.Fatalf("engine stdout write: %v", err)
	}
}

// respond answers request id with outcome.
func (engine *fakeEngine) respond(id int64, outcome wire.Outcome) {
	engine.t.Helper()
	engine.send(&wire.Response{ID: id, Outcome: outcome})
}

func frameBytes(t *testing.T, message wire.Message) []byte {
	t.Helper()
	frame, err := wire.EncodeFrame(message)
	if err != nil {
		t.Fatalf("encoding %#v: %v", message, err)
	}
	return frame
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSession starts a session over engine and destroys it when the
// test ends.
func newTestSession(t *testing.T, engine *fakeEngine, config SessionConfig) *Session {
	t.Helper()
	if config.Logger == nil {
		config.Logger = discardLogger()
	}
	session := NewSession(engine, config)
	t.Cleanup(func() {
		if session.State() != StateTerminated {
			session.Destroy()
		}
	})
	return session
}

type callOutcome[T any] struct {
	value T
	err   error
}

// goCall runs call on a new goroutine and delivers its result.
func goCall[T any](call func() (T, error)) <-chan callOutcome[T] {
	results := make(chan callOutcome[T], 1)
	go func() {
		value, err := call()
		results <- callOutcome[T]{value: value, err: err}
	}()
	return results
}
