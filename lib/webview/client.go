// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/webview/lib/wire"
)

// BinaryResolver locates an engine executable compatible with options,
// fetching it if necessary. lib/enginebin provides the standard
// implementation.
type BinaryResolver interface {
	Resolve(ctx context.Context, options wire.Options) (string, error)
}

// OpenConfig configures Open.
type OpenConfig struct {
	// Resolver finds the engine binary. Required.
	Resolver BinaryResolver

	// Session configures the session driving the engine.
	Session SessionConfig
}

// Client exposes the engine's operations as typed methods. Every method
// sends one request and waits for its response; none retries.
//
// Methods fail with *RemoteError when the engine reports a failure,
// *ProtocolError when the response does not fit the request, and
// *SessionClosedError when the session ends first.
type Client struct {
	session *Session
}

// Open resolves the engine binary, starts it with options, and returns
// a client for the new window.
func Open(ctx context.Context, options wire.Options, config OpenConfig) (*Client, error) {
	if config.Resolver == nil {
		return nil, &ConfigurationError{Reason: "no engine binary resolver configured"}
	}
	if err := options.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid window options: %v", err)}
	}

	binaryPath, err := config.Resolver.Resolve(ctx, options)
	if err != nil {
		return nil, fmt.Errorf("resolving webview engine binary: %w", err)
	}

	session, err := Start(ctx, binaryPath, options, config.Session)
	if err != nil {
		return nil, err
	}
	return NewClient(session), nil
}

// NewClient returns a client over an existing session.
func NewClient(session *Session) *Client {
	return &Client{session: session}
}

// Session returns the underlying session.
func (client *Client) Session() *Session {
	return client.session
}

// Version returns the engine's version string.
func (client *Client) Version(ctx context.Context) (string, error) {
	value, err := callResult[wire.StringResult](ctx, client, func(id int64) wire.Request {
		return wire.GetVersion{ID: id}
	})
	return string(value), err
}

// Eval runs js in the page. It does not return the script's value.
func (client *Client) Eval(ctx context.Context, js string) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.Eval{ID: id, JS: js}
	})
}

// SetTitle sets the window title.
func (client *Client) SetTitle(ctx context.Context, title string) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.SetTitle{ID: id, Title: title}
	})
}

// Title returns the window title.
func (client *Client) Title(ctx context.Context) (string, error) {
	value, err := callResult[wire.StringResult](ctx, client, func(id int64) wire.Request {
		return wire.GetTitle{ID: id}
	})
	return string(value), err
}

// SetVisibility shows or hides the window.
func (client *Client) SetVisibility(ctx context.Context, visible bool) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.SetVisibility{ID: id, Visible: visible}
	})
}

// IsVisible reports whether the window is visible.
func (client *Client) IsVisible(ctx context.Context) (bool, error) {
	value, err := callResult[wire.BooleanResult](ctx, client, func(id int64) wire.Request {
		return wire.IsVisible{ID: id}
	})
	return bool(value), err
}

// OpenDevTools opens the web inspector. The engine refuses unless the
// window was opened with Options.Devtools.
func (client *Client) OpenDevTools(ctx context.Context) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.OpenDevTools{ID: id}
	})
}

// Size returns the window size and scale factor. With
// includeDecorations the title bar and borders are included.
func (client *Client) Size(ctx context.Context, includeDecorations bool) (wire.SizeWithScale, error) {
	value, err := callResult[wire.SizeResult](ctx, client, func(id int64) wire.Request {
		request := wire.GetSize{ID: id}
		if includeDecorations {
			request.IncludeDecorations = &includeDecorations
		}
		return request
	})
	return wire.SizeWithScale(value), err
}

// SetSize resizes the window.
func (client *Client) SetSize(ctx context.Context, size wire.Size) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.SetSize{ID: id, Size: size}
	})
}

// Fullscreen enters (true) or leaves (false) fullscreen. Nil toggles.
func (client *Client) Fullscreen(ctx context.Context, fullscreen *bool) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.Fullscreen{ID: id, Fullscreen: fullscreen}
	})
}

// Maximize maximizes (true) or restores (false) the window. Nil
// toggles.
func (client *Client) Maximize(ctx context.Context, maximized *bool) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.Maximize{ID: id, Maximized: maximized}
	})
}

// Minimize minimizes (true) or restores (false) the window. Nil
// toggles.
func (client *Client) Minimize(ctx context.Context, minimized *bool) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.Minimize{ID: id, Minimized: minimized}
	})
}

// LoadHTML replaces the page with html. An empty origin keeps the
// window's current origin.
func (client *Client) LoadHTML(ctx context.Context, html, origin string) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.LoadHTML{ID: id, HTML: html, Origin: origin}
	})
}

// LoadURL navigates to url, sending headers with the request.
func (client *Client) LoadURL(ctx context.Context, url string, headers map[string]string) error {
	return client.callAck(ctx, func(id int64) wire.Request {
		return wire.LoadURL{ID: id, URL: url, Headers: headers}
	})
}

// On registers handler for every event of kind.
func (client *Client) On(kind EventKind, handler Handler) error {
	return client.session.On(kind, handler)
}

// Once registers handler for the next event of kind only.
func (client *Client) Once(kind EventKind, handler Handler) error {
	return client.session.Once(kind, handler)
}

// OnIPC registers handler for every message page script posts. It
// fails with *ConfigurationError unless the window was opened with
// Options.IPC.
func (client *Client) OnIPC(handler func(message string)) error {
	if handler == nil {
		return &ConfigurationError{Reason: "nil ipc handler"}
	}
	return client.session.On(EventIPC, func(event Event) {
		handler(event.Message)
	})
}

// Wait blocks until the window has closed and the engine has exited,
// or ctx is done.
func (client *Client) Wait(ctx context.Context) error {
	return client.session.Wait(ctx)
}

// Close destroys the window and waits for the engine to exit.
func (client *Client) Close() error {
	return client.session.Destroy()
}

func (client *Client) callAck(ctx context.Context, build func(id int64) wire.Request) error {
	response, operation, err := client.call(ctx, build)
	if err != nil {
		return err
	}
	switch outcome := response.Outcome.(type) {
	case wire.Ack:
		return nil
	case wire.Err:
		return &RemoteError{Operation: operation, Message: outcome.Message}
	default:
		return &ProtocolError{Operation: operation, Expected: "ack", Got: wire.Describe(outcome)}
	}
}

// callResult sends a request whose successful answer is a result of
// kind T.
func callResult[T wire.ResultValue](ctx context.Context, client *Client, build func(id int64) wire.Request) (T, error) {
	var zero T
	response, operation, err := client.call(ctx, build)
	if err != nil {
		return zero, err
	}
	expected := fmt.Sprintf("result(%s)", zero.ResultKind())
	switch outcome := response.Outcome.(type) {
	case wire.Result:
		value, ok := outcome.Value.(T)
		if !ok {
			return zero, &ProtocolError{Operation: operation, Expected: expected, Got: wire.Describe(outcome)}
		}
		return value, nil
	case wire.Err:
		return zero, &RemoteError{Operation: operation, Message: outcome.Message}
	default:
		return zero, &ProtocolError{Operation: operation, Expected: expected, Got: wire.Describe(outcome)}
	}
}

// call sends one request and also reports its operation, for error
// messages.
func (client *Client) call(ctx context.Context, build func(id int64) wire.Request) (*wire.Response, wire.Operation, error) {
	var operation wire.Operation
	response, err := client.session.Send(ctx, func(id int64) wire.Request {
		request := build(id)
		operation = request.Operation()
		return request
	})
	if err != nil {
		if operation != "" {
			return nil, operation, fmt.Errorf("webview %s: %w", operation, err)
		}
		return nil, operation, err
	}
	return response, operation, nil
}
