// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func boolPointer(value bool) *bool { return &value }

func TestEncodeRequestIsFlat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		request Request
		want    string
	}{
		{"getTitle", GetTitle{ID: 0}, `{"$type":"getTitle","id":0}`},
		{"setSize", SetSize{ID: 1, Size: Size{Width: 800, Height: 600}},
			`{"$type":"setSize","id":1,"size":{"width":800,"height":600}}`},
		{"fullscreen toggle", Fullscreen{ID: 2}, `{"$type":"fullscreen","id":2}`},
		{"fullscreen explicit", Fullscreen{ID: 3, Fullscreen: boolPointer(false)},
			`{"$type":"fullscreen","id":3,"fullscreen":false}`},
		{"loadHtml", LoadHTML{ID: 4, HTML: "hello", Origin: "app"},
			`{"$type":"loadHtml","id":4,"html":"hello","origin":"app"}`},
		{"getSize", GetSize{ID: 6}, `{"$type":"getSize","id":6}`},
		{"getSize with decorations", GetSize{ID: 7, IncludeDecorations: boolPointer(true)},
			`{"$type":"getSize","id":7,"include_decorations":true}`},
		{"loadUrl headers", LoadURL{ID: 5, URL: "https://example.com", Headers: map[string]string{"X-A": "1"}},
			`{"$type":"loadUrl","id":5,"url":"https://example.com","headers":{"X-A":"1"}}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			encoded, err := Encode(test.request)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if string(encoded) != test.want {
				t.Errorf("Encode = %s, want %s", encoded, test.want)
			}
		})
	}
}

func TestEncodeFrameNeverContainsInteriorDelimiter(t *testing.T) {
	t.Parallel()

	frame, err := EncodeFrame(Eval{ID: 9, JS: "console.log('a')\nconsole.log('b')\r\n"})
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if frame[len(frame)-1] != Delimiter {
		t.Fatalf("frame does not end with delimiter: %q", frame)
	}
	if bytes.Count(frame, []byte{Delimiter}) != 1 {
		t.Errorf("frame contains interior delimiter: %q", frame)
	}

	message, err := Decode(frame[:len(frame)-1])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	eval, ok := message.(Eval)
	if !ok {
		t.Fatalf("decoded %T, want Eval", message)
	}
	if eval.JS != "console.log('a')\nconsole.log('b')\r\n" {
		t.Errorf("JS = %q", eval.JS)
	}
}

func TestDecodeResponses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame string
		id    int64
		check func(t *testing.T, outcome Outcome)
	}{
		{
			name:  "ack",
			frame: `{"$type":"response","data":{"$type":"ack","id":1}}`,
			id:    1,
			check: func(t *testing.T, outcome Outcome) {
				if _, ok := outcome.(Ack); !ok {
					t.Errorf("outcome = %s, want ack", Describe(outcome))
				}
			},
		},
		{
			name:  "string result",
			frame: `{"$type":"response","data":{"$type":"result","id":0,"result":{"$type":"string","value":"My App"}}}`,
			id:    0,
			check: func(t *testing.T, outcome Outcome) {
				result, ok := outcome.(Result)
				if !ok {
					t.Fatalf("outcome = %s, want result", Describe(outcome))
				}
				if result.Value != StringResult("My App") {
					t.Errorf("value = %#v, want My App", result.Value)
				}
			},
		},
		{
			name:  "boolean result",
			frame: `{"$type":"response","data":{"$type":"result","id":2,"result":{"$type":"boolean","value":true}}}`,
			id:    2,
			check: func(t *testing.T, outcome Outcome) {
				if result, _ := outcome.(Result); result.Value != BooleanResult(true) {
					t.Errorf("outcome = %s, want boolean true", Describe(outcome))
				}
			},
		},
		{
			name:  "size result",
			frame: `{"$type":"response","data":{"$type":"result","id":7,"result":{"$type":"size","value":{"width":800,"height":600,"scaleFactor":2}}}}`,
			id:    7,
			check: func(t *testing.T, outcome Outcome) {
				result, _ := outcome.(Result)
				want := SizeResult{Width: 800, Height: 600, ScaleFactor: 2}
				if result.Value != want {
					t.Errorf("value = %#v, want %#v", result.Value, want)
				}
			},
		},
		{
			name:  "err",
			frame: `{"$type":"response","data":{"$type":"err","id":4,"message":"devtools disabled"}}`,
			id:    4,
			check: func(t *testing.T, outcome Outcome) {
				if outcome != (Err{Message: "devtools disabled"}) {
					t.Errorf("outcome = %s", Describe(outcome))
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			message, err := Decode([]byte(test.frame))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			response, ok := message.(*Response)
			if !ok {
				t.Fatalf("decoded %T, want *Response", message)
			}
			if response.ID != test.id {
				t.Errorf("ID = %d, want %d", response.ID, test.id)
			}
			test.check(t, response.Outcome)

			// The engine-side encoding must reproduce the same object.
			encoded, err := Encode(response)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			assertSameJSON(t, encoded, []byte(test.frame))
		})
	}
}

func TestDecodeNotifications(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frame string
		want  Notification
	}{
		{`{"$type":"notification","data":{"$type":"started","version":"0.3.1"}}`, Started{Version: "0.3.1"}},
		{`{"$type":"notification","data":{"$type":"ipc","message":"hello"}}`, IPC{Message: "hello"}},
		{`{"$type":"notification","data":{"$type":"closed"}}`, Closed{}},
	}

	for _, test := range tests {
		message, err := Decode([]byte(test.frame))
		if err != nil {
			t.Fatalf("Decode(%s): %v", test.frame, err)
		}
		if message != test.want {
			t.Errorf("Decode(%s) = %#v, want %#v", test.frame, message, test.want)
		}
		encoded, err := Encode(test.want)
		if err != nil {
			t.Fatalf("Encode(%#v): %v", test.want, err)
		}
		assertSameJSON(t, encoded, []byte(test.frame))
	}
}

func TestDecodeRequestForms(t *testing.T) {
	t.Parallel()

	flat, err := Decode([]byte(`{"$type":"setTitle","id":3,"title":"x"}`))
	if err != nil {
		t.Fatalf("Decode flat: %v", err)
	}
	enveloped, err := Decode([]byte(`{"$type":"request","data":{"$type":"setTitle","id":3,"title":"x"}}`))
	if err != nil {
		t.Fatalf("Decode enveloped: %v", err)
	}
	want := SetTitle{ID: 3, Title: "x"}
	if flat != want || enveloped != want {
		t.Errorf("flat = %#v, enveloped = %#v, want %#v", flat, enveloped, want)
	}

	message, err := Decode([]byte(`{"$type":"getSize","id":8,"include_decorations":true}`))
	if err != nil {
		t.Fatalf("Decode getSize: %v", err)
	}
	getSize, ok := message.(GetSize)
	if !ok || getSize.IncludeDecorations == nil || !*getSize.IncludeDecorations {
		t.Errorf("getSize = %#v, want include_decorations set", message)
	}
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		frame string
		tag   string
	}{
		{"not json", `{"$type":`, ""},
		{"missing discriminant", `{"data":{}}`, ""},
		{"unknown top-level tag", `{"$type":"telemetry","data":{}}`, "telemetry"},
		{"unknown notification", `{"$type":"notification","data":{"$type":"resized"}}`, "resized"},
		{"unknown outcome", `{"$type":"response","data":{"$type":"maybe","id":1}}`, "maybe"},
		{"unknown result kind", `{"$type":"response","data":{"$type":"result","id":1,"result":{"$type":"bytes","value":"AA=="}}}`, "bytes"},
		{"response without id", `{"$type":"response","data":{"$type":"ack"}}`, "ack"},
		{"result without value", `{"$type":"response","data":{"$type":"result","id":1,"result":{"$type":"string"}}}`, "string"},
		{"wrong value type", `{"$type":"response","data":{"$type":"result","id":1,"result":{"$type":"boolean","value":"yes"}}}`, "boolean"},
		{"err without message", `{"$type":"response","data":{"$type":"err","id":1}}`, ""},
		{"started without version", `{"$type":"notification","data":{"$type":"started"}}`, ""},
		{"request without id", `{"$type":"getTitle"}`, "getTitle"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			message, err := Decode([]byte(test.frame))
			if err == nil {
				t.Fatalf("Decode succeeded with %#v, want error", message)
			}
			var decodeErr *FrameDecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("error %T (%v) is not *FrameDecodeError", err, err)
			}
			if decodeErr.Tag != test.tag {
				t.Errorf("Tag = %q, want %q", decodeErr.Tag, test.tag)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome Outcome
		want    string
	}{
		{Ack{}, "ack"},
		{Result{Value: FloatResult(1.5)}, "result(float)"},
		{Err{Message: "boom"}, `err("boom")`},
		{nil, "<nil>"},
	}
	for _, test := range tests {
		if got := Describe(test.outcome); got != test.want {
			t.Errorf("Describe(%#v) = %q, want %q", test.outcome, got, test.want)
		}
	}
}

// assertSameJSON compares two JSON documents structurally, ignoring
// member order.
func assertSameJSON(t *testing.T, got, want []byte) {
	t.Helper()
	var gotValue, wantValue any
	if err := json.Unmarshal(got, &gotValue); err != nil {
		t.Fatalf("unmarshal %s: %v", got, err)
	}
	if err := json.Unmarshal(want, &wantValue); err != nil {
		t.Fatalf("unmarshal %s: %v", want, err)
	}
	gotCanonical, _ := json.Marshal(gotValue)
	wantCanonical, _ := json.Marshal(wantValue)
	if !bytes.Equal(gotCanonical, wantCanonical) {
		t.Errorf("JSON mismatch:\n got  %s\n want %s", got, want)
	}
}
