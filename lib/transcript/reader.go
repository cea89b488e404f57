// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/webview/lib/codec"
)

// Reader iterates the records of a transcript.
type Reader struct {
	compression Compression
	decoder     *codec.Decoder
	zstd        *zstd.Decoder
	file        *os.File
}

// Open opens the transcript file at path. Closing the Reader closes
// the file.
func Open(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript: %w", err)
	}
	reader, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	reader.file = file
	return reader, nil
}

// NewReader reads and checks the transcript header from input and
// returns a Reader positioned at the first record.
func NewReader(input io.Reader) (*Reader, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(input, header); err != nil {
		return nil, fmt.Errorf("reading transcript header: %w", err)
	}
	if string(header[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("not a transcript: magic %q, want %q", header[:len(Magic)], Magic)
	}

	reader := &Reader{compression: Compression(header[len(Magic)])}
	var body io.Reader
	switch reader.compression {
	case CompressionNone:
		body = input
	case CompressionLZ4:
		body = lz4.NewReader(input)
	case CompressionZstd:
		decoder, err := zstd.NewReader(input)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		reader.zstd = decoder
		body = decoder
	default:
		return nil, fmt.Errorf("unsupported transcript compression %s", reader.compression)
	}
	reader.decoder = codec.NewDecoder(body)
	return reader, nil
}

// Compression reports the algorithm named in the header.
func (reader *Reader) Compression() Compression {
	return reader.compression
}

// Next returns the next record, or io.EOF after the last one. A
// transcript cut off mid-record (the writer was never closed) yields
// an error wrapping io.ErrUnexpectedEOF.
func (reader *Reader) Next() (Record, error) {
	raw, err := reader.NextRaw()
	if err != nil {
		return Record{}, err
	}
	var record Record
	if err := codec.Unmarshal(raw, &record); err != nil {
		return Record{}, fmt.Errorf("decoding transcript record: %w", err)
	}
	return record, nil
}

// NextRaw returns the next record's encoded CBOR without decoding it.
func (reader *Reader) NextRaw() (codec.RawMessage, error) {
	var raw codec.RawMessage
	if err := reader.decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("reading transcript record: %w", err)
	}
	return raw, nil
}

// Close releases the decompressor and, for readers made by Open, the
// file.
func (reader *Reader) Close() error {
	if reader.zstd != nil {
		reader.zstd.Close()
		reader.zstd = nil
	}
	if reader.file != nil {
		err := reader.file.Close()
		reader.file = nil
		return err
	}
	return nil
}

// Diagnose writes every remaining record of reader to output in CBOR
// diagnostic notation, one record per line, and returns the number
// written.
func Diagnose(reader *Reader, output io.Writer) (int, error) {
	count := 0
	for {
		raw, err := reader.NextRaw()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
		notation, err := codec.Diagnose(raw)
		if err != nil {
			return count, fmt.Errorf("diagnosing record %d: %w", count+1, err)
		}
		if _, err := fmt.Fprintln(output, notation); err != nil {
			return count, err
		}
		count++
	}
}
