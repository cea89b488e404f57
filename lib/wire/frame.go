// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"errors"
)

// Delimiter terminates every frame in both directions. The engine has
// also shipped a NUL-delimited variant; that variant is a different,
// incompatible protocol version and is not accepted here.
const Delimiter byte = '\n'

// DefaultMaxFrameSize bounds how many undelimited bytes a FrameReader
// buffers before giving up on the stream. Large eval results and HTML
// payloads stay well under this.
const DefaultMaxFrameSize = 16 * 1024 * 1024

// ErrFrameTooLarge is returned by Feed when the bytes buffered since
// the last delimiter exceed the reader's limit. The stream cannot be
// resynchronized after this, so callers treat it as fatal.
var ErrFrameTooLarge = errors.New("wire: frame exceeds size limit")

// Direction labels which way a frame travelled.
type Direction uint8

const (
	// Outbound frames travel from the client to the engine.
	Outbound Direction = iota + 1

	// Inbound frames travel from the engine to the client.
	Inbound
)

func (direction Direction) String() string {
	switch direction {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// FrameReader splits a live byte stream into frames. Feed it each chunk
// as it arrives; it returns every frame completed by that chunk and
// keeps the trailing partial frame for the next call. Frames come out
// in arrival order.
//
// A FrameReader is not safe for concurrent use. The session read loop
// is its only caller.
type FrameReader struct {
	buffer []byte
	limit  int
}

// NewFrameReader returns a FrameReader that fails once more than limit
// bytes are pending without a delimiter. A limit <= 0 selects
// DefaultMaxFrameSize.
func NewFrameReader(limit int) *FrameReader {
	if limit <= 0 {
		limit = DefaultMaxFrameSize
	}
	return &FrameReader{limit: limit}
}

// Feed appends chunk to the buffer and extracts one frame per delimiter
// found. Blank frames (a bare delimiter, or whitespace only) are
// skipped. The returned slices are owned by the caller.
//
// An empty chunk is a no-op. End of stream is signalled with Finish,
// not with an empty chunk: a zero-byte Read is legal in Go and does not
// mean EOF.
func (reader *FrameReader) Feed(chunk []byte) ([][]byte, error) {
	if len(chunk) == 0 {
		return nil, nil
	}
	reader.buffer = append(reader.buffer, chunk...)

	var frames [][]byte
	start := 0
	for {
		index := bytes.IndexByte(reader.buffer[start:], Delimiter)
		if index < 0 {
			break
		}
		frame := reader.buffer[start : start+index]
		start += index + 1
		if len(bytes.TrimSpace(frame)) == 0 {
			continue
		}
		frames = append(frames, bytes.Clone(frame))
	}

	if start > 0 {
		remaining := copy(reader.buffer, reader.buffer[start:])
		reader.buffer = reader.buffer[:remaining]
	}

	if len(reader.buffer) > reader.limit {
		return frames, ErrFrameTooLarge
	}
	return frames, nil
}

// Pending returns the number of buffered bytes not yet terminated by a
// delimiter.
func (reader *FrameReader) Pending() int {
	return len(reader.buffer)
}

// Finish marks the end of the stream. Any undelimited remainder is
// discarded and its length returned so the caller can report a
// truncated final frame. Truncation is a warning, never an error.
func (reader *FrameReader) Finish() int {
	truncated := len(bytes.TrimSpace(reader.buffer))
	reader.buffer = reader.buffer[:0]
	return truncated
}
