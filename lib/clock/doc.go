// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Code that waits on deadlines accepts a Clock instead of calling
// time.After or time.NewTimer directly. Real() is the standard library
// behavior; Fake() only moves when a test calls Advance:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	session := webview.NewSession(process, webview.SessionConfig{Clock: c})
//	go session.Destroy()
//	c.WaitForTimers(1)         // Destroy has started its grace period
//	c.Advance(2 * time.Second) // the grace period expires
package clock
