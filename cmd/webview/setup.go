// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/bureau-foundation/webview/cmd/webview/cli"
	"github.com/bureau-foundation/webview/lib/config"
	"github.com/bureau-foundation/webview/lib/enginebin"
	"github.com/bureau-foundation/webview/lib/transcript"
	"github.com/bureau-foundation/webview/lib/webview"
)

// configParams is embedded in every command that reads configuration.
type configParams struct {
	ConfigPath string `flag:"config,c" desc:"configuration file (default: $WEBVIEW_CONFIG, else built-in defaults)"`
}

// loadConfig loads and validates the configuration. Unlike
// config.Load, a missing WEBVIEW_CONFIG is not an error: the built-in
// defaults are complete.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvConfig) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setup loads configuration and builds the command logger.
func setup(params configParams, command string) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(params.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := cli.NewCommandLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.With("command", command), nil
}

func newResolver(cfg *config.Config, logger *slog.Logger, adjust ...func(*enginebin.Config)) *enginebin.Resolver {
	resolverConfig := enginebin.Config{
		Version:    cfg.Engine.Version,
		BinaryPath: cfg.Engine.Binary,
		CacheDir:   cfg.Engine.CacheDir,
		BaseURL:    cfg.Engine.BaseURL,
		Digests:    cfg.Engine.Digests,
		Logger:     logger,
	}
	for _, apply := range adjust {
		apply(&resolverConfig)
	}
	return enginebin.NewResolver(resolverConfig)
}

// withoutEnvironmentOverride makes the resolver ignore WEBVIEW_BIN. The
// proxy uses it: WEBVIEW_BIN usually points at the proxy itself.
func withoutEnvironmentOverride(resolverConfig *enginebin.Config) {
	resolverConfig.LookupEnv = func(string) (string, bool) { return "", false }
}

func sessionConfig(cfg *config.Config, logger *slog.Logger) webview.SessionConfig {
	return webview.SessionConfig{
		Logger:           logger,
		ExpectedVersion:  cfg.Session.ExpectedVersion,
		RequestTimeout:   cfg.Session.RequestTimeoutDuration(),
		CloseGracePeriod: cfg.Session.CloseGracePeriodDuration(),
		MaxFrameSize:     cfg.Session.MaxFrameSize,
	}
}

// createTranscript opens a transcript writer at path, or returns nil
// when path is empty.
func createTranscript(path string, cfg *config.Config, logger *slog.Logger) (*transcript.Writer, error) {
	if path == "" {
		return nil, nil
	}
	compression, err := transcript.ParseCompression(cfg.Transcript.Compression)
	if err != nil {
		return nil, err
	}
	writer, err := transcript.Create(path, transcript.WriterConfig{Compression: compression})
	if err != nil {
		return nil, err
	}
	logger.Info("recording transcript", "path", path, "session", writer.Session(), "compression", compression)
	return writer, nil
}

// closeTranscript finishes writer, logging instead of failing the
// command.
func closeTranscript(writer *transcript.Writer, logger *slog.Logger) {
	if writer == nil {
		return
	}
	if err := writer.Close(); err != nil {
		logger.Warn("closing transcript failed", "error", err)
	}
}
