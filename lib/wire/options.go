// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Options is the window configuration handed to the engine as its only
// command-line argument (compact JSON). Field names match the engine's
// camelCase schema; zero values are omitted so the engine applies its
// own defaults.
type Options struct {
	// Title is the window title. Required.
	Title string `json:"title"`

	// Load is the initial content. Nil opens an empty page.
	Load *Content `json:"load,omitempty"`

	// Size is the initial window size or state.
	Size *WindowSize `json:"size,omitempty"`

	// Decorations controls the title bar and borders. Nil keeps the
	// engine default (decorated).
	Decorations *bool `json:"decorations,omitempty"`

	Transparent bool `json:"transparent,omitempty"`

	// Autoplay lets media play without a user gesture.
	Autoplay bool `json:"autoplay,omitempty"`

	// Devtools enables the web inspector. It must be set for
	// OpenDevTools to succeed, and it selects the devtools build of
	// the engine binary.
	Devtools bool `json:"devtools,omitempty"`

	Incognito bool `json:"incognito,omitempty"`

	// Clipboard enables clipboard access on Linux and Windows.
	Clipboard bool `json:"clipboard,omitempty"`

	Focused bool `json:"focused,omitempty"`

	// AcceptFirstMouse makes a click on an inactive window reach the
	// page (macOS).
	AcceptFirstMouse bool `json:"acceptFirstMouse,omitempty"`

	// IPC lets page script post messages to the client with
	// window.ipc.postMessage. Subscribing to IPC events requires it.
	IPC bool `json:"ipc,omitempty"`

	// InitializationScript runs before window.onload on every page.
	InitializationScript string `json:"initializationScript,omitempty"`

	UserAgent string `json:"userAgent,omitempty"`
}

// Validate reports configuration the engine would reject.
func (options Options) Validate() error {
	var errs []error
	if options.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if options.Load != nil {
		if err := options.Load.validate(); err != nil {
			errs = append(errs, fmt.Errorf("load: %w", err))
		}
	}
	if options.Size != nil {
		if err := options.Size.validate(); err != nil {
			errs = append(errs, fmt.Errorf("size: %w", err))
		}
	}
	return errors.Join(errs...)
}

// DefaultOrigin is the origin the engine gives HTML content loaded
// without an explicit origin.
const DefaultOrigin = "init"

// Content is the page to load: either a URL (with optional request
// headers) or inline HTML (with an optional origin). Exactly one of URL
// and HTML is set.
type Content struct {
	URL     string
	Headers map[string]string

	HTML   string
	Origin string
}

// URLContent returns content that navigates to url.
func URLContent(url string, headers map[string]string) *Content {
	return &Content{URL: url, Headers: headers}
}

// HTMLContent returns content that renders html. An empty origin selects
// DefaultOrigin on the engine side.
func HTMLContent(html, origin string) *Content {
	return &Content{HTML: html, Origin: origin}
}

func (content *Content) validate() error {
	switch {
	case content.URL != "" && content.HTML != "":
		return errors.New("url and html are mutually exclusive")
	case content.URL == "" && content.HTML == "":
		return errors.New("one of url or html is required")
	}
	return nil
}

type urlContent struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

type htmlContent struct {
	HTML   string `json:"html"`
	Origin string `json:"origin,omitempty"`
}

// MarshalJSON encodes the untagged form the engine expects: the object
// shape alone tells URL and HTML content apart.
func (content Content) MarshalJSON() ([]byte, error) {
	if content.HTML != "" {
		return json.Marshal(htmlContent{HTML: content.HTML, Origin: content.Origin})
	}
	return json.Marshal(urlContent{URL: content.URL, Headers: content.Headers})
}

func (content *Content) UnmarshalJSON(data []byte) error {
	var fields struct {
		URL     *string           `json:"url"`
		Headers map[string]string `json:"headers"`
		HTML    *string           `json:"html"`
		Origin  string            `json:"origin"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	switch {
	case fields.URL != nil && fields.HTML == nil:
		*content = Content{URL: *fields.URL, Headers: fields.Headers}
	case fields.HTML != nil && fields.URL == nil:
		*content = Content{HTML: *fields.HTML, Origin: fields.Origin}
	default:
		return errors.New("content must have exactly one of url or html")
	}
	return nil
}

// WindowState is a named window size.
type WindowState string

const (
	WindowMaximized  WindowState = "maximized"
	WindowFullscreen WindowState = "fullscreen"
)

// WindowSize is either a WindowState or explicit dimensions.
type WindowSize struct {
	State WindowState
	Size  *Size
}

func (size *WindowSize) validate() error {
	switch {
	case size.State != "" && size.Size != nil:
		return errors.New("state and dimensions are mutually exclusive")
	case size.Size != nil:
		if size.Size.Width <= 0 || size.Size.Height <= 0 {
			return fmt.Errorf("dimensions must be positive, got %gx%g", size.Size.Width, size.Size.Height)
		}
	case size.State != WindowMaximized && size.State != WindowFullscreen:
		return fmt.Errorf("unknown window state %q", size.State)
	}
	return nil
}

func (size WindowSize) MarshalJSON() ([]byte, error) {
	if size.Size != nil {
		return json.Marshal(size.Size)
	}
	return json.Marshal(size.State)
}

func (size *WindowSize) UnmarshalJSON(data []byte) error {
	var state string
	if err := json.Unmarshal(data, &state); err == nil {
		*size = WindowSize{State: WindowState(state)}
		return nil
	}
	var dimensions Size
	if err := json.Unmarshal(data, &dimensions); err != nil {
		return fmt.Errorf("window size must be a state name or {width,height}: %w", err)
	}
	*size = WindowSize{Size: &dimensions}
	return nil
}
