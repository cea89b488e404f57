// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FrameDecodeError reports a frame that could not be turned into a
// Message: malformed JSON, a missing required field, or a discriminant
// this client does not know. It describes one frame only; the stream
// stays usable.
type FrameDecodeError struct {
	// Reason is a short description of what was wrong.
	Reason string

	// Tag is the offending discriminant, when the failure is an
	// unrecognized tag.
	Tag string

	// Err is the underlying JSON error, if any.
	Err error
}

func (e *FrameDecodeError) Error() string {
	message := "wire: " + e.Reason
	if e.Tag != "" {
		message += fmt.Sprintf(" %q", e.Tag)
	}
	if e.Err != nil {
		message += ": " + e.Err.Error()
	}
	return message
}

func (e *FrameDecodeError) Unwrap() error { return e.Err }

// envelope is the outer object of responses and notifications.
type envelope struct {
	Type Kind            `json:"$type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type responseData struct {
	Type    OutcomeType `json:"$type"`
	ID      *int64      `json:"id"`
	Result  *resultData `json:"result,omitempty"`
	Message *string     `json:"message,omitempty"`
}

type resultData struct {
	Type  ResultKind      `json:"$type"`
	Value json.RawMessage `json:"value"`
}

// Decode parses one frame. The top-level "$type" selects the message
// kind: "response" and "notification" carry their payload under
// "data"; a request is recognized by its operation name directly (the
// flat form the engine reads), or under a "request" envelope.
func Decode(frame []byte) (Message, error) {
	var head envelope
	if err := json.Unmarshal(frame, &head); err != nil {
		return nil, &FrameDecodeError{Reason: "malformed frame", Err: err}
	}

	switch head.Type {
	case KindResponse:
		if len(head.Data) == 0 {
			return nil, &FrameDecodeError{Reason: "response without data"}
		}
		return decodeResponse(head.Data)
	case KindNotification:
		if len(head.Data) == 0 {
			return nil, &FrameDecodeError{Reason: "notification without data"}
		}
		return decodeNotification(head.Data)
	case KindRequest:
		if len(head.Data) == 0 {
			return nil, &FrameDecodeError{Reason: "request without data"}
		}
		return decodeRequest(head.Data)
	case "":
		return nil, &FrameDecodeError{Reason: "missing $type discriminant"}
	default:
		if newRequest(Operation(head.Type)) != nil {
			return decodeRequest(frame)
		}
		return nil, &FrameDecodeError{Reason: "unknown message type", Tag: string(head.Type)}
	}
}

func decodeRequest(data []byte) (Request, error) {
	var head struct {
		Type Operation `json:"$type"`
		ID   *int64    `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, &FrameDecodeError{Reason: "malformed request", Err: err}
	}
	pointer := newRequest(head.Type)
	if pointer == nil {
		return nil, &FrameDecodeError{Reason: "unknown request operation", Tag: string(head.Type)}
	}
	if head.ID == nil {
		return nil, &FrameDecodeError{Reason: "request without id", Tag: string(head.Type)}
	}
	if err := json.Unmarshal(data, pointer); err != nil {
		return nil, &FrameDecodeError{Reason: "malformed request body", Tag: string(head.Type), Err: err}
	}
	return derefRequest(pointer), nil
}

func decodeResponse(data []byte) (*Response, error) {
	var body responseData
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &FrameDecodeError{Reason: "malformed response", Err: err}
	}
	if body.ID == nil {
		return nil, &FrameDecodeError{Reason: "response without id", Tag: string(body.Type)}
	}

	response := &Response{ID: *body.ID}
	switch body.Type {
	case OutcomeAck:
		response.Outcome = Ack{}
	case OutcomeResult:
		if body.Result == nil {
			return nil, &FrameDecodeError{Reason: "result response without result"}
		}
		value, err := decodeResultValue(body.Result)
		if err != nil {
			return nil, err
		}
		response.Outcome = Result{Value: value}
	case OutcomeErr:
		if body.Message == nil {
			return nil, &FrameDecodeError{Reason: "err response without message"}
		}
		response.Outcome = Err{Message: *body.Message}
	default:
		return nil, &FrameDecodeError{Reason: "unknown response outcome", Tag: string(body.Type)}
	}
	return response, nil
}

func decodeResultValue(result *resultData) (ResultValue, error) {
	if len(result.Value) == 0 {
		return nil, &FrameDecodeError{Reason: "result without value", Tag: string(result.Type)}
	}

	var err error
	var value ResultValue
	switch result.Type {
	case ResultString:
		var decoded string
		err = json.Unmarshal(result.Value, &decoded)
		value = StringResult(decoded)
	case ResultBoolean:
		var decoded bool
		err = json.Unmarshal(result.Value, &decoded)
		value = BooleanResult(decoded)
	case ResultFloat:
		var decoded float64
		err = json.Unmarshal(result.Value, &decoded)
		value = FloatResult(decoded)
	case ResultSize:
		var decoded SizeWithScale
		err = json.Unmarshal(result.Value, &decoded)
		value = SizeResult(decoded)
	default:
		return nil, &FrameDecodeError{Reason: "unknown result kind", Tag: string(result.Type)}
	}
	if err != nil {
		return nil, &FrameDecodeError{Reason: "malformed result value", Tag: string(result.Type), Err: err}
	}
	return value, nil
}

func decodeNotification(data []byte) (Notification, error) {
	var body struct {
		Type    NotificationType `json:"$type"`
		Version *string          `json:"version"`
		Message *string          `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, &FrameDecodeError{Reason: "malformed notification", Err: err}
	}

	switch body.Type {
	case NotificationStarted:
		if body.Version == nil {
			return nil, &FrameDecodeError{Reason: "started notification without version"}
		}
		return Started{Version: *body.Version}, nil
	case NotificationIPC:
		if body.Message == nil {
			return nil, &FrameDecodeError{Reason: "ipc notification without message"}
		}
		return IPC{Message: *body.Message}, nil
	case NotificationClosed:
		return Closed{}, nil
	default:
		return nil, &FrameDecodeError{Reason: "unknown notification type", Tag: string(body.Type)}
	}
}

// Encode serializes a message as compact JSON without the trailing
// delimiter. Requests use the flat form the engine reads; responses and
// notifications use the data envelope the engine writes.
func Encode(message Message) ([]byte, error) {
	switch value := message.(type) {
	case Request:
		body, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s request: %w", value.Operation(), err)
		}
		return tagObject(string(value.Operation()), body), nil

	case *Response:
		data, err := encodeResponseData(value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(envelope{Type: KindResponse, Data: data})

	case Notification:
		body, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s notification: %w", value.Type(), err)
		}
		data := tagObject(string(value.Type()), body)
		return json.Marshal(envelope{Type: KindNotification, Data: data})

	default:
		return nil, fmt.Errorf("wire: cannot encode %T", message)
	}
}

// EncodeFrame is Encode followed by the delimiter: the exact bytes to
// write to the stream.
func EncodeFrame(message Message) ([]byte, error) {
	encoded, err := Encode(message)
	if err != nil {
		return nil, err
	}
	return append(encoded, Delimiter), nil
}

func encodeResponseData(response *Response) ([]byte, error) {
	id := response.ID
	data := responseData{ID: &id}

	switch outcome := response.Outcome.(type) {
	case Ack:
		data.Type = OutcomeAck
	case Result:
		if outcome.Value == nil {
			return nil, fmt.Errorf("wire: result response %d has no value", response.ID)
		}
		value, err := json.Marshal(outcome.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding %s result: %w", outcome.Value.ResultKind(), err)
		}
		data.Type = OutcomeResult
		data.Result = &resultData{Type: outcome.Value.ResultKind(), Value: value}
	case Err:
		message := outcome.Message
		data.Type = OutcomeErr
		data.Message = &message
	default:
		return nil, fmt.Errorf("wire: response %d has no outcome", response.ID)
	}
	return json.Marshal(data)
}

// tagObject inserts "$type":tag as the first member of the JSON object
// body.
func tagObject(tag string, body []byte) []byte {
	quoted, _ := json.Marshal(tag) // Marshaling a string cannot fail.
	var buffer bytes.Buffer
	buffer.Grow(len(body) + len(quoted) + 10)
	buffer.WriteString(`{"$type":`)
	buffer.Write(quoted)
	inner := bytes.TrimSpace(body[1 : len(body)-1])
	if len(inner) > 0 {
		buffer.WriteByte(',')
		buffer.Write(inner)
	}
	buffer.WriteByte('}')
	return buffer.Bytes()
}
