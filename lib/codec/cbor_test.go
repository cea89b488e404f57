// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

// sampleRecord mirrors a transcript record: cbor tags only.
type sampleRecord struct {
	Sequence  uint64    `cbor:"seq"`
	Time      time.Time `cbor:"time"`
	Direction string    `cbor:"dir"`
	Note      string    `cbor:"note,omitempty"`
	Frame     []byte    `cbor:"frame"`
}

// sampleDualMessage uses json struct tags, relying on fxamacker's
// fallback for CBOR field names.
type sampleDualMessage struct {
	Version string `json:"version"`
	Title   string `json:"title"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Sequence:  7,
		Time:      time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.UTC),
		Direction: "inbound",
		Frame:     []byte(`{"$type":"notification","data":{"$type":"closed"}}`),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Sequence != original.Sequence || decoded.Direction != original.Direction {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
	if !decoded.Time.Equal(original.Time) {
		t.Errorf("time = %v, want %v", decoded.Time, original.Time)
	}
	if !bytes.Equal(decoded.Frame, original.Frame) {
		t.Errorf("frame = %q, want %q", decoded.Frame, original.Frame)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	// Map key order in the source must not affect the output.
	first := map[string]any{"zeta": 1, "alpha": 2, "mid": 3}
	second := map[string]any{"mid": 3, "alpha": 2, "zeta": 1}

	firstData, err := Marshal(first)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	secondData, err := Marshal(second)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(firstData, secondData) {
		t.Errorf("encodings differ: %x vs %x", firstData, secondData)
	}
}

func TestJSONTagFallback(t *testing.T) {
	original := sampleDualMessage{Version: "0.3.1", Title: "Example"}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleDualMessage
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("json-tag roundtrip mismatch: got %+v, want %+v", decoded, original)
	}

	var generic map[string]any
	if err := Unmarshal(data, &generic); err != nil {
		t.Fatalf("Unmarshal into map: %v", err)
	}
	if generic["title"] != "Example" {
		t.Errorf("json tag name not used as CBOR key: %v", generic)
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withNote := sampleRecord{Direction: "outbound", Note: "x"}
	withoutNote := sampleRecord{Direction: "outbound"}

	dataWith, err := Marshal(withNote)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(withoutNote)
	if err != nil {
		t.Fatal(err)
	}

	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var record sampleRecord
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &record); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for sequence := uint64(1); sequence <= 3; sequence++ {
		if err := encoder.Encode(sampleRecord{Sequence: sequence, Direction: "outbound"}); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for want := uint64(1); want <= 3; want++ {
		var record sampleRecord
		if err := decoder.Decode(&record); err != nil {
			t.Fatalf("Decode %d: %v", want, err)
		}
		if record.Sequence != want {
			t.Errorf("sequence = %d, want %d", record.Sequence, want)
		}
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"dir": "inbound"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if notation != `{"dir": "inbound"}` {
		t.Errorf("Diagnose = %q", notation)
	}
}

func TestDiagnoseTimeTag(t *testing.T) {
	data, err := Marshal(sampleRecord{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `0("2026-01-02T03:04:05Z")`) {
		t.Errorf("time not encoded as tag 0: %s", notation)
	}
}

func TestDiagnoseFirst(t *testing.T) {
	var sequence []byte
	for _, direction := range []string{"outbound", "inbound"} {
		data, err := Marshal(map[string]any{"dir": direction})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		sequence = append(sequence, data...)
	}

	first, rest, err := DiagnoseFirst(sequence)
	if err != nil {
		t.Fatalf("DiagnoseFirst: %v", err)
	}
	if !strings.Contains(first, "outbound") {
		t.Errorf("first item = %q", first)
	}
	second, rest, err := DiagnoseFirst(rest)
	if err != nil {
		t.Fatalf("DiagnoseFirst (second): %v", err)
	}
	if !strings.Contains(second, "inbound") {
		t.Errorf("second item = %q", second)
	}
	if len(rest) != 0 {
		t.Errorf("unconsumed bytes: %x", rest)
	}
}

func BenchmarkMarshal(b *testing.B) {
	record := sampleRecord{
		Sequence:  42,
		Direction: "outbound",
		Frame:     []byte(`{"$type":"getTitle","id":42}`),
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(record)
	}
}
