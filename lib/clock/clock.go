// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations the webview session uses: grace
// periods during teardown, request deadlines, and transcript
// timestamps. Production code injects Real(); tests inject Fake() and
// advance time explicitly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time after
	// duration d elapses. If d <= 0, the channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// NewTimer returns a Timer that delivers the time on C after d.
	// Stop it when the deadline no longer matters.
	NewTimer(d time.Duration) *Timer
}

// Timer is a single pending deadline.
type Timer struct {
	// C receives the fire time. Buffered with capacity 1.
	C <-chan time.Time

	stopFunc func() bool
}

// Stop prevents the Timer from firing. It returns true if the call
// stopped the timer, false if it had already fired or been stopped.
// Stop does not drain C.
func (t *Timer) Stop() bool { return t.stopFunc() }
