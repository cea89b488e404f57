// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/webview/lib/config"
)

// NewCommandLogger creates the structured logger for a command. Format
// "auto" picks slog.TextHandler when stderr is a terminal and
// slog.JSONHandler when it is piped or redirected.
//
// Callers scope the logger with command-specific context via With():
//
//	logger = logger.With("command", "open", "title", options.Title)
func NewCommandLogger(logging config.LoggingConfig) (*slog.Logger, error) {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), logging)
}

func newLogger(output io.Writer, terminal bool, logging config.LoggingConfig) (*slog.Logger, error) {
	level, err := logging.SlogLevel()
	if err != nil {
		return nil, fmt.Errorf("logging level: %w", err)
	}
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch logging.Format {
	case "text":
		handler = slog.NewTextHandler(output, options)
	case "json":
		handler = slog.NewJSONHandler(output, options)
	case "auto", "":
		if terminal {
			handler = slog.NewTextHandler(output, options)
		} else {
			handler = slog.NewJSONHandler(output, options)
		}
	default:
		return nil, fmt.Errorf("unknown logging format %q", logging.Format)
	}
	return slog.New(handler), nil
}
