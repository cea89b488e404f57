// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/webview/cmd/webview/cli"
	"github.com/bureau-foundation/webview/lib/transcript"
	"github.com/bureau-foundation/webview/lib/wire"
)

type transcriptParams struct {
	Diagnostic bool   `flag:"diag" desc:"print CBOR diagnostic notation instead of JSON lines"`
	Direction  string `flag:"direction" desc:"only print frames going this way (inbound or outbound)"`
}

func transcriptCommand() *cli.Command {
	var params transcriptParams
	return &cli.Command{
		Name:    "transcript",
		Summary: "Print a recorded transcript",
		Description: `Print the frames recorded in a transcript file, one per line.

By default each record is a JSON object with its sequence number, time,
direction, session ID, and the frame itself. --diag prints the stored
CBOR records in diagnostic notation instead.`,
		Usage: "webview transcript [flags] <file>",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("transcript", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Show only what the engine sent",
				Command:     "webview transcript --direction inbound session.wvtr",
			},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one transcript file, got %d arguments", len(args))
			}
			return printTranscript(args[0], &params, os.Stdout)
		},
	}
}

func printTranscript(path string, params *transcriptParams, output io.Writer) error {
	var direction wire.Direction
	switch params.Direction {
	case "":
	case "inbound":
		direction = wire.Inbound
	case "outbound":
		direction = wire.Outbound
	default:
		return fmt.Errorf("--direction must be inbound or outbound, got %q", params.Direction)
	}
	if params.Diagnostic && direction != 0 {
		return errors.New("--diag prints records unfiltered; drop --direction")
	}

	reader, err := transcript.Open(path)
	if err != nil {
		return err
	}
	defer reader.Close()

	if params.Diagnostic {
		_, err := transcript.Diagnose(reader, output)
		return err
	}

	encoder := json.NewEncoder(output)
	encoder.SetEscapeHTML(false)
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if direction != 0 && record.Direction != direction {
			continue
		}
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
}
