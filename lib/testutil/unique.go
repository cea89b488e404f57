// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer. Use it when concurrent tests need
// payloads that cannot collide.
//
//	message := testutil.UniqueID("ipc")   // "ipc-1", "ipc-2", ...
//	title := testutil.UniqueID("window")  // "window-3", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}
