// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// Two serialization formats meet in this repository with a clear
// boundary:
//
//   - JSON on the engine's stdio: the protocol frames themselves and
//     the window options argument (lib/wire).
//   - CBOR for what the client keeps for itself: frame transcripts
//     recorded by lib/transcript.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For CBOR sequences (one item after another in a stream):
//
//	encoder := codec.NewEncoder(file)
//	decoder := codec.NewDecoder(file)
//
// # Struct Tag Rules
//
// Types that are only ever CBOR carry `cbor` tags. Types that are also
// JSON carry `json` tags only; fxamacker/cbor reads `json` tags when
// `cbor` tags are absent. Never put both on one field.
package codec
