// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/webview/lib/wire"
)

// ParseWindowOptions strips JSONC comments and trailing commas from
// data, then unmarshals the result into window options. The input is
// the same JSON the engine receives as its argument, extended with //
// line comments, /* block comments */, and trailing commas. The
// options are not validated.
func ParseWindowOptions(data []byte) (*wire.Options, error) {
	stripped := jsonc.ToJSON(data)

	var options wire.Options
	if err := json.Unmarshal(stripped, &options); err != nil {
		return nil, fmt.Errorf("parsing window options: %w", err)
	}

	return &options, nil
}

// LoadWindowOptions reads a JSONC window options file from disk and
// parses it with ParseWindowOptions.
func LoadWindowOptions(path string) (*wire.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	options, err := ParseWindowOptions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return options, nil
}
