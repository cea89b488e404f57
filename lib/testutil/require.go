// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the part of testing.TB the helpers use.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive returns the next value from ch, failing the test if
// ch is closed or nothing arrives within timeout. The optional message
// names what the test was waiting for: a plain string, or a format
// string and its arguments.
//
//	request := testutil.RequireReceive(t, engine.requests, testTimeout, "getTitle request")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, message ...any) T {
	t.Helper()
	expired, stop := deadline(timeout)
	defer stop()

	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("%s: channel closed before a value arrived", describe(message))
		}
		return value
	case <-expired:
		t.Fatalf("%s: nothing received within %v", describe(message), timeout)
	}
	panic("unreachable")
}

// RequireClosed waits for ch to close (or deliver a value), failing the
// test after timeout. It suits completion channels such as
// Session.Done.
//
//	testutil.RequireClosed(t, session.Done(), testTimeout, "session terminated")
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, message ...any) {
	t.Helper()
	expired, stop := deadline(timeout)
	defer stop()

	select {
	case <-ch:
	case <-expired:
		t.Fatalf("%s: still open after %v", describe(message), timeout)
	}
}

// deadline is the wall-clock safety valve behind the Require helpers.
// Everything else in the tests takes a lib/clock fake.
func deadline(timeout time.Duration) (<-chan time.Time, func()) {
	timer := time.NewTimer(timeout) //nolint:realclock test hang prevention
	return timer.C, func() { timer.Stop() }
}

func describe(message []any) string {
	switch {
	case len(message) == 0:
		return "waiting"
	case len(message) == 1:
		return fmt.Sprint(message[0])
	}
	if format, ok := message[0].(string); ok {
		return fmt.Sprintf(format, message[1:]...)
	}
	return fmt.Sprint(message...)
}
