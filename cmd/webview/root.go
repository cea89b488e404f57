// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/bureau-foundation/webview/cmd/webview/cli"
)

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:        "webview",
		Description: "Open and drive windows rendered by the webview engine.",
		Subcommands: []*cli.Command{
			openCommand(),
			proxyCommand(),
			transcriptCommand(),
			fetchCommand(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Open a page and print messages it posts over IPC",
				Command:     "webview open --url https://example.com --ipc",
			},
			{
				Description: "Record a session and read it back",
				Command:     "webview open --html '<h1>hi</h1>' --transcript session.wvtr && webview transcript session.wvtr",
			},
		},
	}
}
