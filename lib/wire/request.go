// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

// Operation is the discriminant of a request.
type Operation string

const (
	OpGetVersion    Operation = "getVersion"
	OpEval          Operation = "eval"
	OpSetTitle      Operation = "setTitle"
	OpGetTitle      Operation = "getTitle"
	OpSetVisibility Operation = "setVisibility"
	OpIsVisible     Operation = "isVisible"
	OpOpenDevTools  Operation = "openDevTools"
	OpGetSize       Operation = "getSize"
	OpSetSize       Operation = "setSize"
	OpFullscreen    Operation = "fullscreen"
	OpMaximize      Operation = "maximize"
	OpMinimize      Operation = "minimize"
	OpLoadHTML      Operation = "loadHtml"
	OpLoadURL       Operation = "loadUrl"
)

// Request is a message from the client to the engine. Every request
// carries a client-assigned id that the engine echoes in its response.
type Request interface {
	Message

	// RequestID returns the id the response will echo.
	RequestID() int64

	// Operation returns the request discriminant.
	Operation() Operation

	request()
}

// GetVersion asks for the engine's version. Answered with a string
// result.
type GetVersion struct {
	ID int64 `json:"id"`
}

// Eval runs JavaScript in the page. Answered with ack, or err if the
// script could not be dispatched.
type Eval struct {
	ID int64  `json:"id"`
	JS string `json:"js"`
}

// SetTitle sets the window title.
type SetTitle struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// GetTitle asks for the window title. Answered with a string result.
type GetTitle struct {
	ID int64 `json:"id"`
}

// SetVisibility shows or hides the window.
type SetVisibility struct {
	ID      int64 `json:"id"`
	Visible bool  `json:"visible"`
}

// IsVisible asks whether the window is visible. Answered with a boolean
// result.
type IsVisible struct {
	ID int64 `json:"id"`
}

// OpenDevTools opens the web inspector. The engine answers err unless
// the window was created with devtools enabled.
type OpenDevTools struct {
	ID int64 `json:"id"`
}

// GetSize asks for the window size. Answered with a size result. When
// IncludeDecorations is set the title bar and borders are measured too.
// Unlike the operation names, the engine spells this field in snake
// case.
type GetSize struct {
	ID                 int64 `json:"id"`
	IncludeDecorations *bool `json:"include_decorations,omitempty"`
}

// SetSize resizes the window.
type SetSize struct {
	ID   int64 `json:"id"`
	Size Size  `json:"size"`
}

// Fullscreen enters or leaves fullscreen. A nil Fullscreen toggles.
type Fullscreen struct {
	ID         int64 `json:"id"`
	Fullscreen *bool `json:"fullscreen,omitempty"`
}

// Maximize maximizes or restores the window. A nil Maximized toggles.
type Maximize struct {
	ID        int64 `json:"id"`
	Maximized *bool `json:"maximized,omitempty"`
}

// Minimize minimizes or restores the window. A nil Minimized toggles.
type Minimize struct {
	ID        int64 `json:"id"`
	Minimized *bool `json:"minimized,omitempty"`
}

// LoadHTML replaces the page with HTML. An empty Origin keeps the origin
// the window was created with.
type LoadHTML struct {
	ID     int64  `json:"id"`
	HTML   string `json:"html"`
	Origin string `json:"origin,omitempty"`
}

// LoadURL navigates to URL, sending Headers with the request.
type LoadURL struct {
	ID      int64             `json:"id"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (GetVersion) Operation() Operation    { return OpGetVersion }
func (Eval) Operation() Operation          { return OpEval }
func (SetTitle) Operation() Operation      { return OpSetTitle }
func (GetTitle) Operation() Operation      { return OpGetTitle }
func (SetVisibility) Operation() Operation { return OpSetVisibility }
func (IsVisible) Operation() Operation     { return OpIsVisible }
func (OpenDevTools) Operation() Operation  { return OpOpenDevTools }
func (GetSize) Operation() Operation       { return OpGetSize }
func (SetSize) Operation() Operation       { return OpSetSize }
func (Fullscreen) Operation() Operation    { return OpFullscreen }
func (Maximize) Operation() Operation      { return OpMaximize }
func (Minimize) Operation() Operation      { return OpMinimize }
func (LoadHTML) Operation() Operation      { return OpLoadHTML }
func (LoadURL) Operation() Operation       { return OpLoadURL }

func (request GetVersion) RequestID() int64    { return request.ID }
func (request Eval) RequestID() int64          { return request.ID }
func (request SetTitle) RequestID() int64      { return request.ID }
func (request GetTitle) RequestID() int64      { return request.ID }
func (request SetVisibility) RequestID() int64 { return request.ID }
func (request IsVisible) RequestID() int64     { return request.ID }
func (request OpenDevTools) RequestID() int64  { return request.ID }
func (request GetSize) RequestID() int64       { return request.ID }
func (request SetSize) RequestID() int64       { return request.ID }
func (request Fullscreen) RequestID() int64    { return request.ID }
func (request Maximize) RequestID() int64      { return request.ID }
func (request Minimize) RequestID() int64      { return request.ID }
func (request LoadHTML) RequestID() int64      { return request.ID }
func (request LoadURL) RequestID() int64       { return request.ID }

func (GetVersion) Kind() Kind    { return KindRequest }
func (Eval) Kind() Kind          { return KindRequest }
func (SetTitle) Kind() Kind      { return KindRequest }
func (GetTitle) Kind() Kind      { return KindRequest }
func (SetVisibility) Kind() Kind { return KindRequest }
func (IsVisible) Kind() Kind     { return KindRequest }
func (OpenDevTools) Kind() Kind  { return KindRequest }
func (GetSize) Kind() Kind       { return KindRequest }
func (SetSize) Kind() Kind       { return KindRequest }
func (Fullscreen) Kind() Kind    { return KindRequest }
func (Maximize) Kind() Kind      { return KindRequest }
func (Minimize) Kind() Kind      { return KindRequest }
func (LoadHTML) Kind() Kind      { return KindRequest }
func (LoadURL) Kind() Kind       { return KindRequest }

func (GetVersion) message()    {}
func (Eval) message()          {}
func (SetTitle) message()      {}
func (GetTitle) message()      {}
func (SetVisibility) message() {}
func (IsVisible) message()     {}
func (OpenDevTools) message()  {}
func (GetSize) message()       {}
func (SetSize) message()       {}
func (Fullscreen) message()    {}
func (Maximize) message()      {}
func (Minimize) message()      {}
func (LoadHTML) message()      {}
func (LoadURL) message()       {}

func (GetVersion) request()    {}
func (Eval) request()          {}
func (SetTitle) request()      {}
func (GetTitle) request()      {}
func (SetVisibility) request() {}
func (IsVisible) request()     {}
func (OpenDevTools) request()  {}
func (GetSize) request()       {}
func (SetSize) request()       {}
func (Fullscreen) request()    {}
func (Maximize) request()      {}
func (Minimize) request()      {}
func (LoadHTML) request()      {}
func (LoadURL) request()       {}

// newRequest returns a zero request for op, or nil if op is not a
// known operation. Decode unmarshals the frame into the returned
// pointer.
func newRequest(op Operation) any {
	switch op {
	case OpGetVersion:
		return &GetVersion{}
	case OpEval:
		return &Eval{}
	case OpSetTitle:
		return &SetTitle{}
	case OpGetTitle:
		return &GetTitle{}
	case OpSetVisibility:
		return &SetVisibility{}
	case OpIsVisible:
		return &IsVisible{}
	case OpOpenDevTools:
		return &OpenDevTools{}
	case OpGetSize:
		return &GetSize{}
	case OpSetSize:
		return &SetSize{}
	case OpFullscreen:
		return &Fullscreen{}
	case OpMaximize:
		return &Maximize{}
	case OpMinimize:
		return &Minimize{}
	case OpLoadHTML:
		return &LoadHTML{}
	case OpLoadURL:
		return &LoadURL{}
	default:
		return nil
	}
}

// derefRequest converts the pointer returned by newRequest back to the
// value type that implements Request.
func derefRequest(pointer any) Request {
	switch request := pointer.(type) {
	case *GetVersion:
		return *request
	case *Eval:
		return *request
	case *SetTitle:
		return *request
	case *GetTitle:
		return *request
	case *SetVisibility:
		return *request
	case *IsVisible:
		return *request
	case *OpenDevTools:
		return *request
	case *GetSize:
		return *request
	case *SetSize:
		return *request
	case *Fullscreen:
		return *request
	case *Maximize:
		return *request
	case *Minimize:
		return *request
	case *LoadHTML:
		return *request
	case *LoadURL:
		return *request
	default:
		return nil
	}
}
