// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"errors"
	"fmt"
	"io"
	mathrand "math/rand"
	"os"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/oklog/ulid/v2"
	"github.com/pierrec/lz4/v4"

	"github.com/bureau-foundation/webview/lib/clock"
	"github.com/bureau-foundation/webview/lib/codec"
	"github.com/bureau-foundation/webview/lib/wire"
)

// ErrWriterClosed is returned by RecordFrame and Flush after Close.
var ErrWriterClosed = errors.New("transcript: writer closed")

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewSessionID returns a ULID for a session starting at now. IDs
// generated in the same millisecond still sort in creation order.
func NewSessionID(now time.Time) ulid.ULID {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy)
}

// WriterConfig controls a Writer.
type WriterConfig struct {
	// Compression applies to the whole record stream.
	Compression Compression

	// Clock stamps records. Nil means the real clock.
	Clock clock.Clock

	// Session identifies the records. The zero ULID means generate
	// one from the clock.
	Session ulid.ULID
}

// streamCompressor is the part of the lz4 and zstd writers Writer
// needs. Close flushes the stream trailer but leaves the underlying
// writer open.
type streamCompressor interface {
	io.WriteCloser
	Flush() error
}

// Writer appends records to a transcript. It is safe for concurrent
// use; records are numbered in the order RecordFrame acquires the
// writer's lock.
type Writer struct {
	mu         sync.Mutex
	clock      clock.Clock
	session    string
	compressor streamCompressor
	encoder    *codec.Encoder
	file       *os.File
	sequence   uint64
	closed     bool
}

// Create creates (or truncates) the transcript file at path. Closing
// the Writer closes the file.
func Create(path string, config WriterConfig) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating transcript: %w", err)
	}
	writer, err := NewWriter(file, config)
	if err != nil {
		file.Close()
		return nil, err
	}
	writer.file = file
	return writer, nil
}

// NewWriter writes the transcript header to output and returns a
// Writer for the records. Closing the Writer does not close output.
func NewWriter(output io.Writer, config WriterConfig) (*Writer, error) {
	if config.Clock == nil {
		config.Clock = clock.Real()
	}
	if config.Session == (ulid.ULID{}) {
		config.Session = NewSessionID(config.Clock.Now())
	}

	header := append([]byte(Magic), byte(config.Compression))

	var compressor streamCompressor
	switch config.Compression {
	case CompressionNone:
	case CompressionLZ4:
		compressor = lz4.NewWriter(output)
	case CompressionZstd:
		encoder, err := zstd.NewWriter(output, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		compressor = encoder
	default:
		return nil, fmt.Errorf("unsupported transcript compression %s", config.Compression)
	}

	if _, err := output.Write(header); err != nil {
		if compressor != nil {
			compressor.Close()
		}
		return nil, fmt.Errorf("writing transcript header: %w", err)
	}

	writer := &Writer{
		clock:      config.Clock,
		session:    config.Session.String(),
		compressor: compressor,
	}
	if compressor != nil {
		writer.encoder = codec.NewEncoder(compressor)
	} else {
		writer.encoder = codec.NewEncoder(output)
	}
	return writer, nil
}

// Session returns the ULID string stamped on this writer's records.
func (writer *Writer) Session() string {
	return writer.session
}

// RecordFrame appends one frame. The frame is encoded before
// RecordFrame returns, so the caller may reuse the slice.
func (writer *Writer) RecordFrame(direction wire.Direction, frame []byte) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.closed {
		return ErrWriterClosed
	}
	writer.sequence++
	record := Record{
		Sequence:  writer.sequence,
		Time:      writer.clock.Now(),
		Direction: direction,
		Session:   writer.session,
		Frame:     frame,
	}
	if err := writer.encoder.Encode(record); err != nil {
		return fmt.Errorf("encoding transcript record %d: %w", record.Sequence, err)
	}
	return nil
}

// Flush pushes buffered compressed data to the output so a reader sees
// every record written so far.
func (writer *Writer) Flush() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.closed {
		return ErrWriterClosed
	}
	if writer.compressor == nil {
		return nil
	}
	return writer.compressor.Flush()
}

// Close finishes the compressed stream and, for writers made by
// Create, closes the file. Later calls return nil.
func (writer *Writer) Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.closed {
		return nil
	}
	writer.closed = true

	var errs []error
	if writer.compressor != nil {
		if err := writer.compressor.Close(); err != nil {
			errs = append(errs, fmt.Errorf("finishing compressed stream: %w", err))
		}
	}
	if writer.file != nil {
		if err := writer.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing transcript: %w", err))
		}
	}
	return errors.Join(errs...)
}
