// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"runtime"
	"strings"
	"testing"
	"time"
)

// recordingTB captures the first failure and stops the calling
// goroutine, as testing.T.Fatalf does.
type recordingTB struct {
	failure string
}

func (tb *recordingTB) Helper() {}

func (tb *recordingTB) Fatalf(format string, args ...any) {
	tb.failure = fmt.Sprintf(format, args...)
	runtime.Goexit()
}

// run calls helper on its own goroutine so Fatalf can end it, and
// returns the recorded failure.
func run(helper func(tb TB)) string {
	tb := &recordingTB{}
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		helper(tb)
	}()
	<-finished
	return tb.failure
}

func TestRequireReceive(t *testing.T) {
	t.Parallel()

	values := make(chan int, 1)
	values <- 7
	if got := RequireReceive(t, values, time.Second, "value"); got != 7 {
		t.Errorf("RequireReceive = %d, want 7", got)
	}

	closed := make(chan int)
	close(closed)
	failure := run(func(tb TB) { RequireReceive(tb, closed, time.Second, "%s reply", "title") })
	if !strings.Contains(failure, "title reply: channel closed") {
		t.Errorf("closed channel failure = %q", failure)
	}

	failure = run(func(tb TB) { RequireReceive(tb, make(chan int), time.Millisecond) })
	if !strings.Contains(failure, "waiting: nothing received within 1ms") {
		t.Errorf("timeout failure = %q", failure)
	}
}

func TestRequireClosed(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	close(done)
	RequireClosed(t, done, time.Second, "done")

	failure := run(func(tb TB) { RequireClosed(tb, make(chan struct{}), time.Millisecond, "session terminated") })
	if !strings.Contains(failure, "session terminated: still open") {
		t.Errorf("timeout failure = %q", failure)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message []any
		want    string
	}{
		{nil, "waiting"},
		{[]any{"started event"}, "started event"},
		{[]any{"%s request", "getSize"}, "getSize request"},
		{[]any{42}, "42"},
	}
	for _, test := range tests {
		if got := describe(test.message); got != test.want {
			t.Errorf("describe(%v) = %q, want %q", test.message, got, test.want)
		}
	}
}
