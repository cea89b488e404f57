// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestOptionsMarshalOmitsDefaults(t *testing.T) {
	t.Parallel()

	encoded, err := json.Marshal(Options{Title: "Demo"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `{"title":"Demo"}` {
		t.Errorf("Marshal = %s", encoded)
	}
}

func TestOptionsMarshalFullShape(t *testing.T) {
	t.Parallel()

	decorations := false
	options := Options{
		Title:            "Demo",
		Load:             HTMLContent("hello page", ""),
		Size:             &WindowSize{Size: &Size{Width: 640, Height: 480}},
		Decorations:      &decorations,
		Devtools:         true,
		IPC:              true,
		AcceptFirstMouse: true,
		UserAgent:        "probe/1",
	}
	encoded, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	for _, fragment := range []string{
		`"load":{"html":"hello page"}`,
		`"size":{"width":640,"height":480}`,
		`"decorations":false`,
		`"devtools":true`,
		`"ipc":true`,
		`"acceptFirstMouse":true`,
		`"userAgent":"probe/1"`,
	} {
		if !strings.Contains(string(encoded), fragment) {
			t.Errorf("encoded options %s missing %s", encoded, fragment)
		}
	}

	var decoded Options
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Load == nil || decoded.Load.HTML != "hello page" {
		t.Errorf("Load = %#v", decoded.Load)
	}
	if decoded.Size == nil || decoded.Size.Size == nil || decoded.Size.Size.Width != 640 {
		t.Errorf("Size = %#v", decoded.Size)
	}
	if decoded.Decorations == nil || *decoded.Decorations {
		t.Errorf("Decorations = %v, want explicit false", decoded.Decorations)
	}
}

func TestWindowSizeState(t *testing.T) {
	t.Parallel()

	encoded, err := json.Marshal(WindowSize{State: WindowMaximized})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(encoded) != `"maximized"` {
		t.Errorf("Marshal = %s, want \"maximized\"", encoded)
	}

	var decoded WindowSize
	if err := json.Unmarshal([]byte(`"fullscreen"`), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.State != WindowFullscreen || decoded.Size != nil {
		t.Errorf("decoded = %#v", decoded)
	}
}

func TestContentURLForm(t *testing.T) {
	t.Parallel()

	var content Content
	if err := json.Unmarshal([]byte(`{"url":"https://example.com","headers":{"A":"b"}}`), &content); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if content.URL != "https://example.com" || content.Headers["A"] != "b" {
		t.Errorf("content = %#v", content)
	}

	if err := json.Unmarshal([]byte(`{"url":"x","html":"y"}`), &content); err == nil {
		t.Error("content with both url and html decoded without error")
	}
	if err := json.Unmarshal([]byte(`{}`), &content); err == nil {
		t.Error("empty content decoded without error")
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	valid := Options{Title: "ok", Load: URLContent("https://example.com", nil)}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}

	tests := []struct {
		name    string
		options Options
		want    string
	}{
		{"missing title", Options{}, "title is required"},
		{"ambiguous content", Options{Title: "x", Load: &Content{URL: "a", HTML: "b"}}, "mutually exclusive"},
		{"empty content", Options{Title: "x", Load: &Content{}}, "one of url or html"},
		{"bad state", Options{Title: "x", Size: &WindowSize{State: "huge"}}, `unknown window state "huge"`},
		{"zero width", Options{Title: "x", Size: &WindowSize{Size: &Size{Height: 10}}}, "must be positive"},
	}
	for _, test := range tests {
		err := test.options.Validate()
		if err == nil {
			t.Errorf("%s: Validate succeeded", test.name)
			continue
		}
		if !strings.Contains(err.Error(), test.want) {
			t.Errorf("%s: error %q does not contain %q", test.name, err, test.want)
		}
	}
}
