// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/webview/cmd/webview/cli"
	"github.com/bureau-foundation/webview/lib/webview"
	"github.com/bureau-foundation/webview/lib/wire"
)

type proxyParams struct {
	configParams
	Engine     string `flag:"engine" desc:"engine binary to run (default: resolved like open, ignoring WEBVIEW_BIN)"`
	Transcript string `flag:"transcript" desc:"record every frame to this file (default: transcript.path)"`
}

func proxyCommand() *cli.Command {
	var params proxyParams
	return &cli.Command{
		Name:    "proxy",
		Summary: "Relay a client's frames to the engine and record them",
		Description: `Stand in for the engine binary: start the real engine with the same
options argument, relay frames between this process's stdin/stdout and
the engine unchanged, and record both directions to a transcript.

Point a client's WEBVIEW_BIN at a wrapper script that runs
"webview proxy --transcript FILE --engine REAL_ENGINE" with the
options argument appended. The proxy never logs to stdout.`,
		Usage: "webview proxy [flags] <options-json>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("proxy", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one argument (the window options JSON), got %d", len(args))
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runProxy(ctx, &params, []byte(args[0]), os.Stdin, os.Stdout)
		},
	}
}

func runProxy(ctx context.Context, params *proxyParams, optionsJSON []byte, stdin io.Reader, stdout io.Writer) error {
	cfg, logger, err := setup(params.configParams, "proxy")
	if err != nil {
		return err
	}

	var options wire.Options
	if err := json.Unmarshal(optionsJSON, &options); err != nil {
		return fmt.Errorf("parsing window options argument: %w", err)
	}

	binary := params.Engine
	if binary == "" {
		binary, err = newResolver(cfg, logger, withoutEnvironmentOverride).Resolve(ctx, options)
		if err != nil {
			return fmt.Errorf("resolving webview engine binary: %w", err)
		}
		if err := checkNotSelf(binary); err != nil {
			return err
		}
	}

	transcriptPath := params.Transcript
	if transcriptPath == "" {
		transcriptPath = cfg.Transcript.Path
	}
	writer, err := createTranscript(transcriptPath, cfg, logger)
	if err != nil {
		return err
	}
	defer closeTranscript(writer, logger)

	engine, err := webview.SpawnEngine(binary, optionsJSON, os.Stderr)
	if err != nil {
		return err
	}
	logger.Info("relaying", "engine", binary)

	relayConfig := webview.RelayConfig{
		Logger:       logger,
		MaxFrameSize: cfg.Session.MaxFrameSize,
	}
	if writer != nil {
		relayConfig.Recorder = writer
	}
	err = webview.Relay(ctx, stdin, stdout, engine, relayConfig)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// checkNotSelf refuses to relay to this executable.
func checkNotSelf(binary string) error {
	self, err := os.Executable()
	if err != nil {
		return nil
	}
	if sameFile(self, binary) {
		return fmt.Errorf("engine binary %s is this proxy; pass --engine or set engine.binary", binary)
	}
	return nil
}

func sameFile(a, b string) bool {
	aInfo, err := os.Stat(a)
	if err != nil {
		return false
	}
	bInfo, err := os.Stat(b)
	if err != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return os.SameFile(aInfo, bInfo)
}
