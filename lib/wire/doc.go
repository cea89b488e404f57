// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the message protocol spoken between a webview
// client and the webview engine process over the engine's stdin and
// stdout.
//
// Every message is one compact JSON object terminated by [Delimiter]
// (a newline). Compact encoding/json output escapes every control
// character inside strings, so the delimiter never appears inside a
// payload and a frame boundary is always a literal newline byte.
//
// There are three top-level message kinds:
//
//   - [Request]: sent by the client. Requests are flat on the wire:
//     {"$type":"setTitle","id":3,"title":"hello"}. The "$type" field
//     names the [Operation] and "id" is a client-assigned integer.
//   - [Response]: sent by the engine, echoing the request id:
//     {"$type":"response","data":{"$type":"ack","id":3}}. The nested
//     "$type" selects the [Outcome] variant (ack, result, err).
//   - [Notification]: sent by the engine without being asked:
//     {"$type":"notification","data":{"$type":"started","version":"0.3.1"}}.
//
// Sum types are sealed interfaces (an unexported marker method keeps
// other packages from adding variants). [Decode] switches exhaustively
// over the discriminant and returns a [*FrameDecodeError] for anything
// it does not recognize. A decode error is a property of one frame,
// not of the stream: callers skip the frame and keep reading.
//
// [FrameReader] turns a chunked byte stream into frames. It owns no
// I/O; the caller feeds it whatever each Read returned.
//
// [Options] is the window configuration passed to the engine as its
// single command-line argument.
//
// This package depends on no other packages in this module.
package wire
