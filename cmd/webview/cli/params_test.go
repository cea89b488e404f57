// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/webview/lib/config"
)

type sampleParams struct {
	JSONOutput
	Title    string        `flag:"title,t" desc:"window title" default:"webview"`
	IPC      bool          `flag:"ipc" desc:"print IPC messages"`
	Width    int           `flag:"width" desc:"window width" default:"800"`
	Timeout  time.Duration `flag:"timeout" desc:"request timeout" default:"5s"`
	Eval     []string      `flag:"eval" desc:"script to run"`
	Untagged string
}

func TestFlagsFromParams_Defaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("open", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Title != "webview" || params.Width != 800 || params.Timeout != 5*time.Second {
		t.Errorf("defaults not applied: %+v", params)
	}
	if params.IPC || params.OutputJSON {
		t.Errorf("bool defaults should be false: %+v", params)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}
}

func TestFlagsFromParams_Parse(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("open", &params)
	err := flagSet.Parse([]string{
		"-t", "Dashboard", "--ipc", "--json", "--width=1024", "--timeout", "250ms",
		"--eval", "console.log(1, 2)", "--eval", "document.title",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if params.Title != "Dashboard" || !params.IPC || !params.OutputJSON || params.Width != 1024 {
		t.Errorf("flags not applied: %+v", params)
	}
	if params.Timeout != 250*time.Millisecond {
		t.Errorf("timeout = %s", params.Timeout)
	}
	if len(params.Eval) != 2 || params.Eval[0] != "console.log(1, 2)" {
		t.Errorf("eval = %q; commas must not split values", params.Eval)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	var notPointer sampleParams
	if err := BindFlags(notPointer, nil); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}

	type unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	var params unsupported
	if err := BindFlags(&params, FlagsFromParams("x", &struct{}{})); err == nil ||
		!strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("BindFlags error = %v, want unsupported type", err)
	}

	type badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	var bad badDefault
	if err := BindFlags(&bad, FlagsFromParams("y", &struct{}{})); err == nil {
		t.Error("BindFlags accepted an unparseable default")
	}
}

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer
	output := JSONOutput{}
	if done, err := output.EmitJSON(&buffer, map[string]string{"a": "b"}); done || err != nil {
		t.Errorf("EmitJSON without --json = (%v, %v)", done, err)
	}
	if buffer.Len() != 0 {
		t.Errorf("EmitJSON wrote without --json: %q", buffer.String())
	}

	output.OutputJSON = true
	if done, err := output.EmitJSON(&buffer, map[string]string{"a": "b"}); !done || err != nil {
		t.Errorf("EmitJSON with --json = (%v, %v)", done, err)
	}
	if buffer.String() != "{\n  \"a\": \"b\"\n}\n" {
		t.Errorf("EmitJSON output = %q", buffer.String())
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		logging  config.LoggingConfig
		terminal bool
		wantJSON bool
	}{
		{"auto on terminal", config.LoggingConfig{Format: "auto"}, true, false},
		{"auto piped", config.LoggingConfig{Format: "auto"}, false, true},
		{"forced text", config.LoggingConfig{Format: "text"}, false, false},
		{"forced json", config.LoggingConfig{Format: "json"}, true, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var buffer bytes.Buffer
			logger, err := newLogger(&buffer, test.terminal, test.logging)
			if err != nil {
				t.Fatalf("newLogger: %v", err)
			}
			logger.Info("engine started", "pid", 42)
			isJSON := strings.HasPrefix(buffer.String(), "{")
			if isJSON != test.wantJSON {
				t.Errorf("output %q: json = %v, want %v", buffer.String(), isJSON, test.wantJSON)
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buffer bytes.Buffer
	logger, err := newLogger(&buffer, true, config.LoggingConfig{Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buffer.String(), "hidden") || !strings.Contains(buffer.String(), "shown") {
		t.Errorf("level not applied: %q", buffer.String())
	}
	if !logger.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be enabled")
	}

	if _, err := newLogger(&buffer, true, config.LoggingConfig{Level: "loud"}); err == nil {
		t.Error("newLogger accepted an unknown level")
	}
	if _, err := newLogger(&buffer, true, config.LoggingConfig{Format: "xml"}); err == nil {
		t.Error("newLogger accepted an unknown format")
	}
}
