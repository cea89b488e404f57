// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/webview/cmd/webview/cli"
	"github.com/bureau-foundation/webview/lib/config"
	"github.com/bureau-foundation/webview/lib/webview"
	"github.com/bureau-foundation/webview/lib/wire"
)

type openParams struct {
	configParams
	Title       string   `flag:"title,t" desc:"window title (default: from --options, else \"webview\")"`
	URL         string   `flag:"url" desc:"load this URL"`
	Headers     []string `flag:"header" desc:"request header for --url, as \"Name: value\" (repeatable)"`
	HTML        string   `flag:"html" desc:"load this HTML"`
	Origin      string   `flag:"origin" desc:"origin for --html content" default:"init"`
	OptionsFile string   `flag:"options" desc:"window options file (JSON with comments)"`
	Devtools    bool     `flag:"devtools" desc:"enable the web inspector"`
	IPC         bool     `flag:"ipc" desc:"print messages the page posts with window.ipc.postMessage"`
	Eval        []string `flag:"eval" desc:"JavaScript to run once the window has started (repeatable)"`
	Transcript  string   `flag:"transcript" desc:"record every frame to this file (default: transcript.path)"`
}

func openCommand() *cli.Command {
	var params openParams
	return &cli.Command{
		Name:    "open",
		Summary: "Open a window and wait for it to close",
		Description: `Open a window in the webview engine and wait until the user closes it.

The engine binary is resolved from WEBVIEW_BIN, engine.binary, the
cache, or a download, in that order. With --ipc, every message the
page posts is printed to stdout, one per line. Interrupting the command
closes the window.`,
		Usage: "webview open [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("open", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Open a URL with the inspector available",
				Command:     "webview open --url https://example.com --devtools",
			},
			{
				Description: "Open a window described by a file and run a script in it",
				Command:     "webview open --options window.jsonc --eval 'document.body.style.background = \"black\"'",
			},
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOpen(ctx, &params, os.Stdout)
		},
	}
}

func runOpen(ctx context.Context, params *openParams, stdout io.Writer) error {
	cfg, logger, err := setup(params.configParams, "open")
	if err != nil {
		return err
	}

	options, err := windowOptions(params)
	if err != nil {
		return err
	}
	logger = logger.With("title", options.Title)

	transcriptPath := params.Transcript
	if transcriptPath == "" {
		transcriptPath = cfg.Transcript.Path
	}
	writer, err := createTranscript(transcriptPath, cfg, logger)
	if err != nil {
		return err
	}
	defer closeTranscript(writer, logger)

	started := make(chan struct{})
	var startedOnce sync.Once

	session := sessionConfig(cfg, logger)
	if writer != nil {
		session.Recorder = writer
	}
	session.Events = func(event webview.Event) {
		switch event.Kind {
		case webview.EventStarted:
			logger.Info("window started", "engine_version", event.Version)
			startedOnce.Do(func() { close(started) })
		case webview.EventIPC:
			fmt.Fprintln(stdout, event.Message)
		case webview.EventClosed:
			logger.Info("window closed")
		}
	}

	client, err := webview.Open(ctx, *options, webview.OpenConfig{
		Resolver: newResolver(cfg, logger),
		Session:  session,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	select {
	case <-started:
	case <-client.Session().Done():
		return sessionEnd(client.Session().Err())
	case <-ctx.Done():
		logger.Info("interrupted before the window started")
		return nil
	}

	for _, script := range params.Eval {
		if err := client.Eval(ctx, script); err != nil {
			return err
		}
	}

	err = client.Wait(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted, closing window")
		return nil
	}
	return sessionEnd(err)
}

// sessionEnd maps how a session ended to the command's result: an
// orderly close is success.
func sessionEnd(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("webview session ended: %w", err)
}

// windowOptions builds the engine options from the options file and
// the flags layered over it.
func windowOptions(params *openParams) (*wire.Options, error) {
	options := &wire.Options{}
	if params.OptionsFile != "" {
		loaded, err := config.LoadWindowOptions(params.OptionsFile)
		if err != nil {
			return nil, err
		}
		options = loaded
	}

	if params.Title != "" {
		options.Title = params.Title
	}
	if options.Title == "" {
		options.Title = "webview"
	}

	switch {
	case params.URL != "" && params.HTML != "":
		return nil, errors.New("--url and --html are mutually exclusive")
	case params.URL != "":
		headers, err := parseHeaders(params.Headers)
		if err != nil {
			return nil, err
		}
		options.Load = wire.URLContent(params.URL, headers)
	case params.HTML != "":
		options.Load = wire.HTMLContent(params.HTML, params.Origin)
	case len(params.Headers) > 0:
		return nil, errors.New("--header requires --url")
	}

	if params.Devtools {
		options.Devtools = true
	}
	if params.IPC {
		options.IPC = true
	}

	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window options: %w", err)
	}
	return options, nil
}

// parseHeaders parses "Name: value" pairs.
func parseHeaders(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(values))
	for _, value := range values {
		name, headerValue, found := strings.Cut(value, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("header %q: want \"Name: value\"", value)
		}
		headers[name] = strings.TrimSpace(headerValue)
	}
	return headers, nil
}
