// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the webview
// packages.
//
// [RequireReceive] and [RequireClosed] wait on a channel with a
// wall-clock timeout, so tests never hang and never call time.After
// themselves. They are the only real timeouts in the test suite;
// everything else that depends on time takes a lib/clock fake.
//
// [WriteExecutable] drops a file with the executable bit set, for tests
// that exercise binary resolution and caching.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as IPC payloads that must be told apart.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no internal dependencies.
package testutil
