// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcript records the frames that cross a webview session
// and reads them back.
//
// A transcript file starts with a five-byte header: the magic "WVTR"
// followed by one [Compression] byte. The rest of the file is a CBOR
// sequence of [Record] values, compressed as a single stream with the
// algorithm the header names. Records are encoded with lib/codec, so
// the same frames always produce the same bytes.
//
// [Writer] implements the session's frame recorder hook:
//
//	writer, err := transcript.Create(path, transcript.WriterConfig{
//	    Compression: transcript.CompressionZstd,
//	})
//	...
//	session, err := webview.Start(ctx, binary, options, webview.SessionConfig{
//	    Recorder: writer,
//	})
//
// Each writer stamps its records with a session identifier (a ULID),
// so transcripts from several sessions can be concatenated and sorted.
// [Reader] iterates records; [Diagnose] renders each one in CBOR
// diagnostic notation for debugging.
package transcript
