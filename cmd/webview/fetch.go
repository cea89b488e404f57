// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/webview/cmd/webview/cli"
	"github.com/bureau-foundation/webview/lib/enginebin"
	"github.com/bureau-foundation/webview/lib/wire"
)

type fetchParams struct {
	configParams
	cli.JSONOutput
	Devtools    bool `flag:"devtools" desc:"fetch the build with the web inspector"`
	Transparent bool `flag:"transparent" desc:"fetch the transparent-window build (macOS)"`
}

type fetchResult struct {
	Path   string `json:"path"`
	Digest string `json:"digest"`
}

func fetchCommand() *cli.Command {
	var params fetchParams
	return &cli.Command{
		Name:    "fetch",
		Summary: "Resolve or download the engine binary",
		Description: `Resolve the engine binary exactly as open would, downloading it into
the cache if needed, and print its path and BLAKE3 digest. The digest
is the value engine.digests expects.`,
		Usage: "webview fetch [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fetch", &params)
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return runFetch(ctx, &params, os.Stdout)
		},
	}
}

func runFetch(ctx context.Context, params *fetchParams, stdout io.Writer) error {
	cfg, logger, err := setup(params.configParams, "fetch")
	if err != nil {
		return err
	}

	options := wire.Options{Devtools: params.Devtools, Transparent: params.Transparent}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}
	path, err := newResolver(cfg, logger).Resolve(ctx, options)
	if err != nil {
		return err
	}

	digest, err := enginebin.HashFile(path)
	if err != nil {
		return err
	}
	result := fetchResult{Path: path, Digest: enginebin.FormatDigest(digest)}
	if done, err := params.EmitJSON(stdout, result); done {
		return err
	}

	flags := enginebin.Flags(options, runtime.GOOS)
	if asset, err := enginebin.AssetName(runtime.GOOS, runtime.GOARCH, flags); err == nil {
		fmt.Fprintf(stdout, "%s\nblake3 %s (%s)\n", result.Path, result.Digest, asset)
		return nil
	}
	fmt.Fprintf(stdout, "%s\nblake3 %s\n", result.Path, result.Digest)
	return nil
}
