// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bureau-foundation/webview/lib/wire"
)

// Magic opens every transcript file.
const Magic = "WVTR"

// headerSize is the magic plus the compression byte.
const headerSize = len(Magic) + 1

// Compression identifies how the record stream after the header is
// compressed. The values are stored in the file header; changing them
// breaks existing transcripts.
type Compression uint8

const (
	// CompressionNone stores the CBOR sequence as is.
	CompressionNone Compression = 0

	// CompressionLZ4 uses the LZ4 frame format. Cheap enough to leave
	// on for long interactive sessions.
	CompressionLZ4 Compression = 1

	// CompressionZstd uses zstd at the default level. Protocol frames
	// are repetitive JSON and compress well.
	CompressionZstd Compression = 2
)

func (compression Compression) String() string {
	switch compression {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(compression))
	}
}

// ParseCompression parses a compression name as written by String.
// The empty string selects zstd.
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd", "":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown transcript compression %q", name)
	}
}

// Record is one frame as it crossed the session boundary. Frame holds
// the frame bytes without the delimiter.
type Record struct {
	// Sequence numbers records from 1 in the order the writer
	// accepted them.
	Sequence uint64 `cbor:"seq"`

	Time      time.Time      `cbor:"time"`
	Direction wire.Direction `cbor:"dir"`

	// Session is the ULID of the writer that produced the record.
	Session string `cbor:"session"`

	Frame []byte `cbor:"frame"`
}

// jsonRecord is the line format of MarshalJSON. Frames that are valid
// JSON are embedded as objects; anything else is kept as a string.
type jsonRecord struct {
	Sequence  uint64 `json:"seq"`
	Time      string `json:"time"`
	Direction string `json:"direction"`
	Session   string `json:"session"`
	Frame     any    `json:"frame"`
}

// MarshalJSON renders the record for human consumption, with the
// direction spelled out and the frame embedded when it parses. Frames
// are not HTML-escaped; an encoder with SetEscapeHTML(false) prints
// them as the engine sent them.
func (record Record) MarshalJSON() ([]byte, error) {
	line := jsonRecord{
		Sequence:  record.Sequence,
		Time:      record.Time.UTC().Format(time.RFC3339Nano),
		Direction: record.Direction.String(),
		Session:   record.Session,
		Frame:     string(record.Frame),
	}
	if json.Valid(record.Frame) {
		line.Frame = json.RawMessage(record.Frame)
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(line); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte{'\n'}), nil
}
