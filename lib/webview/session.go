// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/webview/lib/clock"
	"github.com/bureau-foundation/webview/lib/version"
	"github.com/bureau-foundation/webview/lib/wire"
)

// DefaultCloseGracePeriod is how long teardown waits for the engine to
// exit on its own before each escalation (terminate, then kill).
const DefaultCloseGracePeriod = 2 * time.Second

// readChunkSize is the size of each read from the engine's stdout.
const readChunkSize = 64 * 1024

// State is a session's lifecycle position. States only move forward.
type State int32

const (
	StateUninitialized State = iota
	StateStarting
	StateRunning
	StateClosing
	StateTerminated
)

func (state State) String() string {
	switch state {
	case StateUninitialized:
		return "uninitialized"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int32(state))
	}
}

// FrameRecorder observes every frame a session writes or reads, without
// its delimiter. RecordFrame is called from the writing caller's
// goroutine for outbound frames and from the read loop for inbound
// frames, so implementations must be safe for concurrent use. Errors
// are logged and otherwise ignored.
type FrameRecorder interface {
	RecordFrame(direction wire.Direction, frame []byte) error
}

// SessionConfig holds the optional parameters of a session. The zero
// value is usable.
type SessionConfig struct {
	// Logger receives protocol anomalies and lifecycle messages. Nil
	// logs text to stderr.
	Logger *slog.Logger

	// Clock measures the close grace period and request timeouts. Nil
	// uses the real clock.
	Clock clock.Clock

	// IPC enables subscription to EventIPC. Start sets it from
	// Options.IPC.
	IPC bool

	// ExpectedVersion is compared with the version in the engine's
	// started notification. Empty selects version.EngineVersion.
	ExpectedVersion string

	// RequestTimeout bounds how long Send waits for a response. Zero
	// waits until the response arrives, the context is cancelled, or
	// the session ends.
	RequestTimeout time.Duration

	// CloseGracePeriod is how long teardown waits for the engine to
	// exit before terminating and then killing it. Zero selects
	// DefaultCloseGracePeriod.
	CloseGracePeriod time.Duration

	// MaxFrameSize bounds a single inbound frame. Zero selects
	// wire.DefaultMaxFrameSize.
	MaxFrameSize int

	// Stderr receives the engine's stderr when Start spawns it. Nil
	// passes it through to os.Stderr.
	Stderr io.Writer

	// Recorder, if set, sees every frame in both directions.
	Recorder FrameRecorder

	// Events, if set, is subscribed to every event kind the session
	// can deliver before the read loop starts, so it is guaranteed to
	// observe EventStarted. Handlers added later with On may miss it.
	Events Handler
}

func (config SessionConfig) withDefaults() SessionConfig {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.ExpectedVersion == "" {
		config.ExpectedVersion = version.EngineVersion
	}
	if config.CloseGracePeriod <= 0 {
		config.CloseGracePeriod = DefaultCloseGracePeriod
	}
	if config.Stderr == nil {
		config.Stderr = os.Stderr
	}
	return config
}

// Session owns one running engine: the process, the read loop, the
// table of in-flight requests, and the event handlers.
//
// Lifecycle: Start (or NewSession) returns a session in StateStarting.
// The engine's started notification moves it to StateRunning. A closed
// notification, a stream failure, or Destroy moves it to StateClosing,
// which fails every in-flight request with *SessionClosedError. Once
// the read loop has stopped, the engine has been reaped, and every
// queued event has been delivered, the session is StateTerminated and
// Done is closed. A session cannot be restarted.
//
// All methods are safe for concurrent use.
type Session struct {
	process  Process
	config   SessionConfig
	logger   *slog.Logger
	clock    clock.Clock
	pending  *pendingTable
	router   *eventRouter
	recorder FrameRecorder

	writeMu sync.Mutex
	stdin   io.WriteCloser

	state atomic.Int32

	closeOnce  sync.Once
	causeMu    sync.Mutex
	cause      error
	destroyed  atomic.Bool
	closedSeen atomic.Bool

	reaped chan struct{}
	done   chan struct{}
}

// Start spawns the engine at binaryPath with options as its argument
// and returns a session driving it.
func Start(ctx context.Context, binaryPath string, options wire.Options, config SessionConfig) (*Session, error) {
	if err := options.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid window options: %v", err)}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	argument, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encoding window options: %w", err)
	}

	config = config.withDefaults()
	config.IPC = config.IPC || options.IPC

	process, err := spawnEngine(binaryPath, argument, config.Stderr)
	if err != nil {
		return nil, err
	}
	config.Logger.Debug("webview engine started", "path", binaryPath, "pid", process.command.Process.Pid)

	return NewSession(process, config), nil
}

// NewSession runs the protocol over an already-running process and
// launches the read loop.
func NewSession(process Process, config SessionConfig) *Session {
	config = config.withDefaults()
	session := &Session{
		process:  process,
		config:   config,
		logger:   config.Logger,
		clock:    config.Clock,
		pending:  newPendingTable(),
		router:   newEventRouter(config.Logger, config.IPC),
		recorder: config.Recorder,
		stdin:    process.Stdin(),
		reaped:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	session.state.Store(int32(StateStarting))

	if config.Events != nil {
		for kind := EventStarted; kind <= EventVersionMismatch; kind++ {
			if kind == EventIPC && !config.IPC {
				continue
			}
			// Cannot fail: the kind is valid, the handler is non-nil,
			// and IPC was checked above.
			_ = session.router.on(kind, config.Events, false)
		}
	}

	go session.router.run()
	go session.run()
	return session
}

// State returns the current lifecycle state.
func (session *Session) State() State {
	return State(session.state.Load())
}

// Done is closed when the session has fully terminated.
func (session *Session) Done() <-chan struct{} {
	return session.done
}

// Err returns why the session ended: nil while it is live and after an
// orderly close (closed notification or Destroy), otherwise the stream
// or protocol failure that ended it.
func (session *Session) Err() error {
	session.causeMu.Lock()
	defer session.causeMu.Unlock()
	return session.cause
}

// Wait blocks until the session terminates or ctx is done. It returns
// Err once terminated.
func (session *Session) Wait(ctx context.Context) error {
	select {
	case <-session.done:
		return session.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// On registers handler for every event of kind.
func (session *Session) On(kind EventKind, handler Handler) error {
	return session.router.on(kind, handler, false)
}

// Once registers handler for the next event of kind only.
func (session *Session) Once(kind EventKind, handler Handler) error {
	return session.router.on(kind, handler, true)
}

// Send allocates a request id, writes the request build returns for
// it, and waits for the matching response. build must return a request
// carrying exactly the id it was given.
//
// Send fails with *SessionClosedError if the session ends first (or
// had already ended, in which case nothing is written), with
// *StreamIOError if the write fails, with ctx.Err() if ctx is done, and
// with ErrRequestTimeout if SessionConfig.RequestTimeout elapses. A
// response that arrives after the caller gave up is discarded.
func (session *Session) Send(ctx context.Context, build func(id int64) wire.Request) (*wire.Response, error) {
	if state := session.State(); state >= StateClosing {
		return nil, &SessionClosedError{Cause: session.Err()}
	}

	id, replies, err := session.pending.register()
	if err != nil {
		return nil, err
	}

	request := build(id)
	if request == nil || request.RequestID() != id {
		session.pending.forget(id)
		return nil, fmt.Errorf("webview: request builder did not use the assigned id %d", id)
	}

	frame, err := wire.EncodeFrame(request)
	if err != nil {
		session.pending.forget(id)
		return nil, err
	}

	if err := session.write(frame); err != nil {
		session.pending.forget(id)
		session.shutdown(err)
		return nil, err
	}

	var timeout <-chan time.Time
	if session.config.RequestTimeout > 0 {
		timer := session.clock.NewTimer(session.config.RequestTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case reply := <-replies:
		if reply.err != nil {
			return nil, reply.err
		}
		return reply.response, nil
	case <-ctx.Done():
		session.pending.forget(id)
		return nil, ctx.Err()
	case <-timeout:
		session.pending.forget(id)
		return nil, fmt.Errorf("%s request %d: %w", request.Operation(), id, ErrRequestTimeout)
	}
}

// write sends one complete frame. Holding writeMu across the whole
// frame keeps concurrent senders from interleaving bytes.
func (session *Session) write(frame []byte) error {
	session.writeMu.Lock()
	defer session.writeMu.Unlock()

	if session.stdin == nil {
		return &SessionClosedError{Cause: session.Err()}
	}
	if _, err := session.stdin.Write(frame); err != nil {
		return &StreamIOError{Op: "write", Err: err}
	}
	session.record(wire.Outbound, frame[:len(frame)-1])
	return nil
}

func (session *Session) record(direction wire.Direction, frame []byte) {
	if session.recorder == nil {
		return
	}
	if err := session.recorder.RecordFrame(direction, frame); err != nil {
		session.logger.Warn("recording frame failed", "direction", direction, "error", err)
	}
}

// Destroy tears the session down: in-flight requests fail with
// *SessionClosedError, stdin is closed, and the engine is terminated,
// then killed if it outlives the grace period. Destroy returns once the
// session has terminated. It is safe to call more than once and after
// the session has already ended.
//
// Called from an event handler, Destroy returns once the engine has
// exited: the handler's own dispatcher cannot drain until it returns.
func (session *Session) Destroy() error {
	session.destroyed.Store(true)
	session.shutdown(nil)

	timer := session.clock.NewTimer(session.config.CloseGracePeriod)
	defer timer.Stop()
	select {
	case <-session.reaped:
	case <-timer.C:
		session.logger.Warn("webview engine did not exit after terminate, killing")
		if err := session.process.Kill(); err != nil {
			session.logger.Warn("killing webview engine", "error", err)
		}
		<-session.reaped
	}

	if session.router.dispatching() {
		return nil
	}
	<-session.done
	return nil
}

// shutdown begins closing and asks the engine to exit so the read loop
// sees end of stream.
func (session *Session) shutdown(cause error) {
	session.beginClose(cause)
	if session.State() == StateTerminated {
		return
	}
	if err := session.process.Terminate(); err != nil {
		session.logger.Warn("terminating webview engine", "error", err)
	}
}

// beginClose moves the session to StateClosing exactly once: it records
// the cause, fails every in-flight request, closes stdin, and stops
// accepting events.
func (session *Session) beginClose(cause error) {
	session.closeOnce.Do(func() {
		session.causeMu.Lock()
		session.cause = cause
		session.causeMu.Unlock()

		session.state.Store(int32(StateClosing))
		session.pending.cancelAll(&SessionClosedError{Cause: cause})

		session.writeMu.Lock()
		stdin := session.stdin
		session.stdin = nil
		session.writeMu.Unlock()
		if stdin != nil {
			if err := stdin.Close(); err != nil {
				session.logger.Debug("closing engine stdin", "error", err)
			}
		}

		session.router.close()

		if cause != nil {
			session.logger.Error("webview session failed", "error", cause)
		} else {
			session.logger.Debug("webview session closing")
		}
	})
}

// run is the session's supervisor goroutine. Whatever ends the read
// loop, the engine is reaped and queued events are delivered before
// Done closes.
func (session *Session) run() {
	cause := session.readLoop()
	if cause == nil && !session.destroyed.Load() && !session.sawClosed() {
		cause = &StreamIOError{Op: "read", Err: io.ErrUnexpectedEOF}
	}
	session.beginClose(cause)
	session.reap()
	close(session.reaped)
	<-session.router.drained()

	session.state.Store(int32(StateTerminated))
	close(session.done)
}

// sawClosed reports whether the engine sent its closed notification.
func (session *Session) sawClosed() bool {
	return session.closedSeen.Load()
}

// readLoop reads and dispatches frames until the engine announces it
// has closed, the stream ends, or the stream fails. It returns nil for
// the first two.
func (session *Session) readLoop() error {
	reader := wire.NewFrameReader(session.config.MaxFrameSize)
	stdout := session.process.Stdout()
	buffer := make([]byte, readChunkSize)

	for {
		count, readErr := stdout.Read(buffer)
		if count > 0 {
			frames, feedErr := reader.Feed(buffer[:count])
			for _, frame := range frames {
				if session.handleFrame(frame) {
					if reader.Pending() > 0 {
						session.logger.Debug("ignoring bytes after closed notification", "bytes", reader.Pending())
					}
					return nil
				}
			}
			if feedErr != nil {
				return &StreamIOError{Op: "read", Err: feedErr}
			}
		}
		if readErr != nil {
			if truncated := reader.Finish(); truncated > 0 {
				session.logger.Warn("webview engine output ended inside a frame", "discarded_bytes", truncated)
			}
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, os.ErrClosed) {
				return nil
			}
			return &StreamIOError{Op: "read", Err: readErr}
		}
	}
}

// handleFrame decodes one frame and routes it. It reports true when the
// frame was the closed notification.
func (session *Session) handleFrame(frame []byte) bool {
	session.record(wire.Inbound, frame)

	message, err := wire.Decode(frame)
	if err != nil {
		session.logger.Warn("discarding undecodable frame from webview engine",
			"error", err, "frame", abbreviate(frame))
		return false
	}

	switch message := message.(type) {
	case *wire.Response:
		if !session.pending.resolve(message) {
			session.logger.Warn("response for unknown request id",
				"id", message.ID, "outcome", wire.Describe(message.Outcome))
		}

	case wire.Started:
		session.state.CompareAndSwap(int32(StateStarting), int32(StateRunning))
		session.router.emit(Event{Kind: EventStarted, Version: message.Version})
		if message.Version != session.config.ExpectedVersion {
			session.logger.Warn("webview engine version differs from the expected version",
				"engine", message.Version, "expected", session.config.ExpectedVersion)
			session.router.emit(Event{
				Kind:     EventVersionMismatch,
				Version:  message.Version,
				Expected: session.config.ExpectedVersion,
			})
		}

	case wire.IPC:
		session.router.emit(Event{Kind: EventIPC, Message: message.Message})

	case wire.Closed:
		session.closedSeen.Store(true)
		session.router.emit(Event{Kind: EventClosed})
		return true

	default:
		session.logger.Warn("ignoring unexpected message from webview engine", "kind", message.Kind())
	}
	return false
}

// reap waits for the engine to exit, escalating to terminate and then
// kill when it outlives the grace period.
func (session *Session) reap() {
	exited := make(chan error, 1)
	go func() { exited <- session.process.Wait() }()

	if session.awaitExit(exited) {
		return
	}
	session.logger.Debug("webview engine still running after close, terminating")
	if err := session.process.Terminate(); err != nil {
		session.logger.Warn("terminating webview engine", "error", err)
	}

	if session.awaitExit(exited) {
		return
	}
	session.logger.Warn("webview engine ignored terminate, killing")
	if err := session.process.Kill(); err != nil {
		session.logger.Warn("killing webview engine", "error", err)
	}
	session.logExit(<-exited)
}

// awaitExit waits up to the grace period for the engine to exit and
// reports whether it did.
func (session *Session) awaitExit(exited <-chan error) bool {
	timer := session.clock.NewTimer(session.config.CloseGracePeriod)
	defer timer.Stop()
	select {
	case err := <-exited:
		session.logExit(err)
		return true
	case <-timer.C:
		return false
	}
}

func (session *Session) logExit(err error) {
	if err != nil && !session.destroyed.Load() {
		session.logger.Info("webview engine exited", "error", err)
		return
	}
	session.logger.Debug("webview engine exited")
}

// abbreviate shortens a frame for logging.
func abbreviate(frame []byte) string {
	const limit = 256
	if len(frame) <= limit {
		return string(frame)
	}
	return string(frame[:limit]) + "..."
}
