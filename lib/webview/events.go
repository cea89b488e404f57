// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// EventKind enumerates the events a session delivers to handlers.
type EventKind int

const (
	// EventStarted fires when the engine reports that its window is up.
	// Event.Version holds the engine's protocol version.
	EventStarted EventKind = iota + 1

	// EventIPC fires for each message page script posts with
	// window.ipc.postMessage. Event.Message holds the payload.
	// Subscribing requires the IPC capability.
	EventIPC

	// EventClosed fires when the window has closed. It is the last
	// event a session delivers.
	EventClosed

	// EventVersionMismatch fires, right after EventStarted, when the
	// engine's version differs from the expected one. Event.Version is
	// what the engine reported; Event.Expected is what the session
	// was configured to expect. The session keeps running.
	EventVersionMismatch
)

func (kind EventKind) String() string {
	switch kind {
	case EventStarted:
		return "started"
	case EventIPC:
		return "ipc"
	case EventClosed:
		return "closed"
	case EventVersionMismatch:
		return "version-mismatch"
	default:
		return fmt.Sprintf("EventKind(%d)", int(kind))
	}
}

func (kind EventKind) valid() bool {
	return kind >= EventStarted && kind <= EventVersionMismatch
}

// Event is one delivery to a Handler. Which fields are set depends on
// Kind.
type Event struct {
	Kind     EventKind
	Version  string
	Expected string
	Message  string
}

// Handler receives events. Handlers run one at a time on the session's
// dispatcher goroutine, in the order the events arrived and, for one
// event, in the order the handlers were registered. A handler that
// blocks delays later events but never the response path.
type Handler func(Event)

type subscription struct {
	handler Handler
	once    bool
}

type dispatch struct {
	event    Event
	handlers []Handler
}

// eventRouter maps event kinds to handler lists and runs handlers on a
// single dispatcher goroutine fed by an unbounded queue, so emit never
// blocks the read loop.
type eventRouter struct {
	logger     *slog.Logger
	ipcEnabled bool

	mu       sync.Mutex
	handlers map[EventKind][]*subscription
	queue    []dispatch
	closed   bool

	// inHandler is set while the dispatcher is running a handler.
	inHandler atomic.Bool

	signal chan struct{}
	done   chan struct{}
}

func newEventRouter(logger *slog.Logger, ipcEnabled bool) *eventRouter {
	return &eventRouter{
		logger:     logger,
		ipcEnabled: ipcEnabled,
		handlers:   make(map[EventKind][]*subscription),
		signal:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

func (router *eventRouter) on(kind EventKind, handler Handler, once bool) error {
	if !kind.valid() {
		return &ConfigurationError{Reason: fmt.Sprintf("unknown event kind %s", kind)}
	}
	if handler == nil {
		return &ConfigurationError{Reason: fmt.Sprintf("nil handler for %s events", kind)}
	}
	if kind == EventIPC && !router.ipcEnabled {
		return &ConfigurationError{Reason: "ipc events require the ipc option to be enabled"}
	}

	router.mu.Lock()
	defer router.mu.Unlock()
	router.handlers[kind] = append(router.handlers[kind], &subscription{handler: handler, once: once})
	return nil
}

// emit queues event for every handler registered for its kind at this
// moment. Once-handlers are removed in the same critical section, so a
// once-handler runs at most once even when events race.
func (router *eventRouter) emit(event Event) {
	router.mu.Lock()
	if router.closed {
		router.mu.Unlock()
		router.logger.Debug("dropping event after router closed", "event", event.Kind)
		return
	}

	subscriptions := router.handlers[event.Kind]
	handlers := make([]Handler, 0, len(subscriptions))
	kept := subscriptions[:0]
	for _, subscription := range subscriptions {
		handlers = append(handlers, subscription.handler)
		if !subscription.once {
			kept = append(kept, subscription)
		}
	}
	// Clear the tail so removed subscriptions can be collected.
	for i := len(kept); i < len(subscriptions); i++ {
		subscriptions[i] = nil
	}
	router.handlers[event.Kind] = kept

	if len(handlers) > 0 {
		router.queue = append(router.queue, dispatch{event: event, handlers: handlers})
	}
	router.mu.Unlock()

	if len(handlers) > 0 {
		router.wake()
	}
}

func (router *eventRouter) wake() {
	select {
	case router.signal <- struct{}{}:
	default:
	}
}

// run is the dispatcher loop. It returns after close once every queued
// dispatch has been delivered.
func (router *eventRouter) run() {
	defer close(router.done)
	for {
		router.mu.Lock()
		batch := router.queue
		router.queue = nil
		closed := router.closed
		router.mu.Unlock()

		for _, item := range batch {
			for _, handler := range item.handlers {
				router.invoke(handler, item.event)
			}
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-router.signal
	}
}

func (router *eventRouter) invoke(handler Handler, event Event) {
	router.inHandler.Store(true)
	defer router.inHandler.Store(false)
	defer func() {
		if recovered := recover(); recovered != nil {
			router.logger.Error("event handler panicked", "event", event.Kind, "panic", recovered)
		}
	}()
	handler(event)
}

// close stops accepting events. Already-queued events are still
// delivered; wait for drained to know when.
func (router *eventRouter) close() {
	router.mu.Lock()
	router.closed = true
	router.mu.Unlock()
	router.wake()
}

// dispatching reports whether a handler is running right now.
func (router *eventRouter) dispatching() bool {
	return router.inHandler.Load()
}

func (router *eventRouter) drained() <-chan struct{} {
	return router.done
}
