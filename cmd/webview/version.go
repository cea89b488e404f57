// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/webview/cmd/webview/cli"
	"github.com/bureau-foundation/webview/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	BuildTime string `json:"build_time"`
	Engine    string `json:"engine"`
}

func versionCommand() *cli.Command {
	var params versionParams
	return &cli.Command{
		Name:    "version",
		Summary: "Print client and engine versions",
		Usage:   "webview version [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(args []string) error {
			return printVersion(&params, os.Stdout)
		},
	}
}

func printVersion(params *versionParams, output io.Writer) error {
	info := versionInfo{
		Version:   version.Version,
		Commit:    version.GitCommit,
		Dirty:     version.GitDirty == "true",
		BuildTime: version.BuildTime,
		Engine:    version.EngineVersion,
	}
	if done, err := params.EmitJSON(output, info); done {
		return err
	}
	_, err := fmt.Fprintln(output, version.Full())
	return err
}
