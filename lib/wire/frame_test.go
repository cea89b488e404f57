// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"strings"
	"testing"
)

func TestFeedSplitsFramesAcrossChunks(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(0)

	frames, err := reader.Feed([]byte(`{"$type":"respo`))
	if err != nil {
		t.Fatalf("Feed first chunk: %v", err)
	}
	if len(frames) != 0 {
		t.Fatalf("first chunk produced %d frames, want 0", len(frames))
	}
	if reader.Pending() == 0 {
		t.Fatal("partial frame not buffered")
	}

	frames, err = reader.Feed([]byte(`nse","data":{"$type":"ack","id":3}}` + "\n"))
	if err != nil {
		t.Fatalf("Feed second chunk: %v", err)
	}
	if len(frames) != 1 {
		t.Fatalf("second chunk produced %d frames, want 1", len(frames))
	}

	message, err := Decode(frames[0])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	response, ok := message.(*Response)
	if !ok {
		t.Fatalf("decoded %T, want *Response", message)
	}
	if response.ID != 3 {
		t.Errorf("ID = %d, want 3", response.ID)
	}
	if _, ok := response.Outcome.(Ack); !ok {
		t.Errorf("Outcome = %s, want ack", Describe(response.Outcome))
	}
	if reader.Pending() != 0 {
		t.Errorf("Pending = %d after complete frame, want 0", reader.Pending())
	}
}

func TestFeedMultipleFramesInOneChunk(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(0)
	frames, err := reader.Feed([]byte("one\ntwo\nthree\nfou"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}

	want := []string{"one", "two", "three"}
	if len(frames) != len(want) {
		t.Fatalf("got %d frames, want %d", len(frames), len(want))
	}
	for i, frame := range frames {
		if string(frame) != want[i] {
			t.Errorf("frame %d = %q, want %q", i, frame, want[i])
		}
	}

	frames, err = reader.Feed([]byte("r\n"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(frames) != 1 || string(frames[0]) != "four" {
		t.Errorf("trailing frame = %q, want [four]", frames)
	}
}

func TestFeedByteAtATime(t *testing.T) {
	t.Parallel()

	input := "alpha\nbeta\n\ngamma\n"
	reader := NewFrameReader(0)
	var got []string
	for i := 0; i < len(input); i++ {
		frames, err := reader.Feed([]byte{input[i]})
		if err != nil {
			t.Fatalf("Feed byte %d: %v", i, err)
		}
		for _, frame := range frames {
			got = append(got, string(frame))
		}
	}

	want := []string{"alpha", "beta", "gamma"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("frames = %q, want %q", got, want)
	}
}

func TestFeedSkipsBlankFrames(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(0)
	frames, err := reader.Feed([]byte("\n  \n\r\nx\n"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if len(frames) != 1 || string(frames[0]) != "x" {
		t.Errorf("frames = %q, want [x]", frames)
	}
}

func TestFeedEmptyChunkIsNoOp(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(0)
	if _, err := reader.Feed([]byte("partial")); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	frames, err := reader.Feed(nil)
	if err != nil {
		t.Fatalf("Feed(nil): %v", err)
	}
	if len(frames) != 0 {
		t.Errorf("empty chunk produced %d frames", len(frames))
	}
	if reader.Pending() != len("partial") {
		t.Errorf("Pending = %d, want %d", reader.Pending(), len("partial"))
	}
}

func TestFeedFramesDoNotAliasBuffer(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(0)
	frames, err := reader.Feed([]byte("first\nsec"))
	if err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if _, err := reader.Feed([]byte("ond\n")); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if string(frames[0]) != "first" {
		t.Errorf("earlier frame changed to %q after later Feed", frames[0])
	}
}

func TestFeedFrameTooLarge(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(8)
	frames, err := reader.Feed([]byte("ok\n0123456789"))
	if !errors.Is(err, ErrFrameTooLarge) {
		t.Fatalf("Feed error = %v, want ErrFrameTooLarge", err)
	}
	if len(frames) != 1 || string(frames[0]) != "ok" {
		t.Errorf("frames completed before the overflow = %q, want [ok]", frames)
	}
}

func TestFinishReportsTruncatedRemainder(t *testing.T) {
	t.Parallel()

	reader := NewFrameReader(0)
	if _, err := reader.Feed([]byte("done\n{\"$type\":")); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if truncated := reader.Finish(); truncated != len(`{"$type":`) {
		t.Errorf("Finish = %d, want %d", truncated, len(`{"$type":`))
	}
	if reader.Pending() != 0 {
		t.Errorf("Pending after Finish = %d, want 0", reader.Pending())
	}

	clean := NewFrameReader(0)
	if _, err := clean.Feed([]byte("done\n")); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if truncated := clean.Finish(); truncated != 0 {
		t.Errorf("Finish on clean stream = %d, want 0", truncated)
	}
}

func TestDirectionString(t *testing.T) {
	t.Parallel()

	if Outbound.String() != "outbound" || Inbound.String() != "inbound" {
		t.Errorf("got %q/%q", Outbound, Inbound)
	}
	if Direction(0).String() != "unknown" {
		t.Errorf("zero Direction = %q, want unknown", Direction(0))
	}
}
