// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package webview

import (
	"sync"

	"github.com/bureau-foundation/webview/lib/wire"
)

// reply is what a waiting Send receives: the response, or the terminal
// error that ended the session first. Exactly one of the two is set.
type reply struct {
	response *wire.Response
	err      error
}

// pendingTable correlates responses with the callers awaiting them.
// Allocating an id and inserting its waiter happen under the same lock,
// so a response can never arrive for an id that is not yet registered.
type pendingTable struct {
	mu      sync.Mutex
	nextID  int64
	waiters map[int64]chan reply

	// closed is non-nil once cancelAll has run; later registrations
	// fail with it.
	closed error
}

func newPendingTable() *pendingTable {
	return &pendingTable{waiters: make(map[int64]chan reply)}
}

// register allocates the next request id and a channel that will
// receive exactly one reply for it. The channel is buffered so
// resolving never blocks on a caller that has stopped listening.
func (table *pendingTable) register() (int64, <-chan reply, error) {
	table.mu.Lock()
	defer table.mu.Unlock()

	if table.closed != nil {
		return 0, nil, table.closed
	}
	id := table.nextID
	table.nextID++
	channel := make(chan reply, 1)
	table.waiters[id] = channel
	return id, channel, nil
}

// resolve delivers response to the caller awaiting its id. It reports
// false when no caller is waiting: the id was never issued, was
// already answered, or its caller gave up.
func (table *pendingTable) resolve(response *wire.Response) bool {
	table.mu.Lock()
	channel, ok := table.waiters[response.ID]
	if ok {
		delete(table.waiters, response.ID)
	}
	table.mu.Unlock()

	if ok {
		channel <- reply{response: response}
	}
	return ok
}

// forget drops the waiter for id without delivering anything.
func (table *pendingTable) forget(id int64) {
	table.mu.Lock()
	delete(table.waiters, id)
	table.mu.Unlock()
}

// cancelAll fails every outstanding waiter with err and makes later
// registrations fail with err. Only the first call has any effect.
func (table *pendingTable) cancelAll(err error) {
	table.mu.Lock()
	if table.closed != nil {
		table.mu.Unlock()
		return
	}
	table.closed = err
	waiters := table.waiters
	table.waiters = make(map[int64]chan reply)
	table.mu.Unlock()

	for _, channel := range waiters {
		channel <- reply{err: err}
	}
}

// outstanding returns the number of registered, unresolved ids.
func (table *pendingTable) outstanding() int {
	table.mu.Lock()
	defer table.mu.Unlock()
	return len(table.waiters)
}
