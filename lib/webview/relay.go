// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/webview/lib/wire"
)

// RelayConfig controls Relay.
type RelayConfig struct {
	// Logger receives relay diagnostics. Nil logs text to stderr.
	Logger *slog.Logger

	// Recorder, if set, sees every relayed frame in both directions.
	Recorder FrameRecorder

	// MaxFrameSize caps a single frame in either direction. Zero
	// selects wire.DefaultMaxFrameSize.
	MaxFrameSize int
}

// Relay sits between a client and an engine, forwarding whole frames
// in both directions without interpreting them. Frames from
// clientInput go to the engine's stdin; frames from the engine's stdout
// go to clientOutput. When clientInput ends, the engine's stdin is
// closed so the engine can shut down.
//
// Relay returns once the engine's output has ended and the engine has
// been reaped. If ctx is done first, the engine is killed and Relay
// returns ctx.Err(). The goroutine reading clientInput is not stopped;
// callers that need it gone close clientInput.
func Relay(ctx context.Context, clientInput io.Reader, clientOutput io.Writer, engine Process, config RelayConfig) error {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	if config.MaxFrameSize <= 0 {
		config.MaxFrameSize = wire.DefaultMaxFrameSize
	}

	inboundDone := make(chan error, 1)
	go func() {
		inboundDone <- pumpFrames(engine.Stdout(), clientOutput, wire.Inbound, config)
	}()
	go func() {
		if err := pumpFrames(clientInput, engine.Stdin(), wire.Outbound, config); err != nil {
			config.Logger.Warn("relaying client frames failed", "error", err)
		}
		if err := engine.Stdin().Close(); err != nil {
			config.Logger.Debug("closing engine stdin", "error", err)
		}
	}()

	var relayErr error
	select {
	case relayErr = <-inboundDone:
		if relayErr != nil {
			killRelayedEngine(engine, config.Logger)
		}
	case <-ctx.Done():
		killRelayedEngine(engine, config.Logger)
		<-inboundDone
		relayErr = ctx.Err()
	}

	if err := engine.Wait(); err != nil && relayErr == nil {
		relayErr = fmt.Errorf("webview engine exited: %w", err)
	}
	return relayErr
}

// pumpFrames copies frames from source to destination, one write per
// frame, until source ends.
func killRelayedEngine(engine Process, logger *slog.Logger) {
	if err := engine.Kill(); err != nil {
		logger.Warn("killing webview engine", "error", err)
	}
}

func pumpFrames(source io.Reader, destination io.Writer, direction wire.Direction, config RelayConfig) error {
	reader := wire.NewFrameReader(config.MaxFrameSize)
	buffer := make([]byte, readChunkSize)

	for {
		count, readErr := source.Read(buffer)
		if count > 0 {
			frames, feedErr := reader.Feed(buffer[:count])
			for _, frame := range frames {
				if config.Recorder != nil {
					if err := config.Recorder.RecordFrame(direction, frame); err != nil {
						config.Logger.Warn("recording frame failed", "direction", direction, "error", err)
					}
				}
				line := append(frame[:len(frame):len(frame)], wire.Delimiter)
				if _, err := destination.Write(line); err != nil {
					return &StreamIOError{Op: "write", Err: err}
				}
			}
			if feedErr != nil {
				return &StreamIOError{Op: "read", Err: feedErr}
			}
		}
		if readErr != nil {
			if truncated := reader.Finish(); truncated > 0 {
				config.Logger.Warn("stream ended inside a frame", "direction", direction, "discarded_bytes", truncated)
			}
			if errors.Is(readErr, io.EOF) || errors.Is(readErr, os.ErrClosed) {
				return nil
			}
			return &StreamIOError{Op: "read", Err: readErr}
		}
	}
}
