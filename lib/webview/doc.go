// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package webview drives a webview engine process over its stdio
// protocol.
//
// A [Session] owns one engine process. A single read loop splits the
// engine's stdout into frames, decodes them with lib/wire, resolves
// responses to the callers waiting on them, and queues notifications
// for a dispatcher goroutine that runs [Handler] functions in arrival
// order. Any number of goroutines may call [Session.Send] concurrently;
// each waits only for its own response.
//
// [Client] layers the typed window operations (title, size,
// visibility, eval, navigation, devtools) over a session:
//
//	client, err := webview.Open(ctx, wire.Options{Title: "Demo", IPC: true},
//		webview.OpenConfig{Resolver: enginebin.NewResolver(enginebin.Config{})})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//	client.OnIPC(func(message string) { fmt.Println(message) })
//	if err := client.LoadHTML(ctx, page, ""); err != nil {
//		return err
//	}
//	return client.Wait(ctx)
//
// Every session ends in [StateTerminated] with the engine reaped, on
// every path: the window closing, the stream failing, or [Session.Destroy].
// Requests still in flight at that point fail with [SessionClosedError].
package webview
