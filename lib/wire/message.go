// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "fmt"

// Kind is the top-level discriminant of a message.
type Kind string

const (
	KindRequest      Kind = "request"
	KindResponse     Kind = "response"
	KindNotification Kind = "notification"
)

// Message is one decoded frame: a [Request], a [*Response], or a
// [Notification].
type Message interface {
	// Kind returns the top-level discriminant.
	Kind() Kind

	message()
}

// --- Notifications ---

// NotificationType is the nested discriminant of a notification.
type NotificationType string

const (
	NotificationStarted NotificationType = "started"
	NotificationIPC     NotificationType = "ipc"
	NotificationClosed  NotificationType = "closed"
)

// Notification is an unsolicited message from the engine. It carries
// no request id.
type Notification interface {
	Message

	// Type returns the nested discriminant.
	Type() NotificationType

	notification()
}

// Started is sent once the engine's window and event loop are up.
// Version is the engine's protocol version.
type Started struct {
	Version string `json:"version"`
}

// IPC carries a message posted by page script via
// window.ipc.postMessage. The engine only sends it when the window was
// created with Options.IPC.
type IPC struct {
	Message string `json:"message"`
}

// Closed is sent when the window has closed. The engine exits shortly
// after; nothing meaningful follows it on the stream.
type Closed struct{}

func (Started) Kind() Kind { return KindNotification }
func (IPC) Kind() Kind     { return KindNotification }
func (Closed) Kind() Kind  { return KindNotification }

func (Started) Type() NotificationType { return NotificationStarted }
func (IPC) Type() NotificationType     { return NotificationIPC }
func (Closed) Type() NotificationType  { return NotificationClosed }

func (Started) message()      {}
func (IPC) message()          {}
func (Closed) message()       {}
func (Started) notification() {}
func (IPC) notification()     {}
func (Closed) notification()  {}

// --- Responses ---

// Response answers the request with the same ID.
type Response struct {
	ID      int64
	Outcome Outcome
}

func (*Response) Kind() Kind { return KindResponse }
func (*Response) message()   {}

// OutcomeType is the nested discriminant of a response.
type OutcomeType string

const (
	OutcomeAck    OutcomeType = "ack"
	OutcomeResult OutcomeType = "result"
	OutcomeErr    OutcomeType = "err"
)

// Outcome is the payload of a response: [Ack], [Result], or [Err].
type Outcome interface {
	Type() OutcomeType
	outcome()
}

// Ack reports success with no value.
type Ack struct{}

// Result reports success with a typed value.
type Result struct {
	Value ResultValue
}

// Err reports that the engine failed to perform the request.
type Err struct {
	Message string
}

func (Ack) Type() OutcomeType    { return OutcomeAck }
func (Result) Type() OutcomeType { return OutcomeResult }
func (Err) Type() OutcomeType    { return OutcomeErr }
func (Ack) outcome()             {}
func (Result) outcome()          {}
func (Err) outcome()             {}

// ResultKind is the discriminant of a result value.
type ResultKind string

const (
	ResultString  ResultKind = "string"
	ResultBoolean ResultKind = "boolean"
	ResultFloat   ResultKind = "float"
	ResultSize    ResultKind = "size"
)

// ResultValue is the typed value inside a [Result]. The operation that
// sent the request knows which kind to expect and checks it when
// unwrapping.
type ResultValue interface {
	ResultKind() ResultKind
	resultValue()
}

type StringResult string

type BooleanResult bool

type FloatResult float64

// SizeResult is the window size reported by getSize.
type SizeResult SizeWithScale

func (StringResult) ResultKind() ResultKind  { return ResultString }
func (BooleanResult) ResultKind() ResultKind { return ResultBoolean }
func (FloatResult) ResultKind() ResultKind   { return ResultFloat }
func (SizeResult) ResultKind() ResultKind    { return ResultSize }
func (StringResult) resultValue()            {}
func (BooleanResult) resultValue()           {}
func (FloatResult) resultValue()             {}
func (SizeResult) resultValue()              {}

// Size is a window size in logical pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// SizeWithScale is a window size in logical pixels together with the
// ratio between physical and logical pixels.
type SizeWithScale struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	ScaleFactor float64 `json:"scaleFactor"`
}

// Describe returns a short human-readable rendering of an outcome for
// logs and error messages.
func Describe(outcome Outcome) string {
	switch value := outcome.(type) {
	case Ack:
		return "ack"
	case Result:
		if value.Value == nil {
			return "result(<nil>)"
		}
		return fmt.Sprintf("result(%s)", value.Value.ResultKind())
	case Err:
		return fmt.Sprintf("err(%q)", value.Message)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", outcome)
	}
}
