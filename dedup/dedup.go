// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dedup - coalesce concurrent operations that share a key
//
// while an operation for a key is pending every further caller for the
// same key waits for, and receives, the result of that one operation.
// There is no retry, timeout or backoff here.
package dedup

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bitmark-inc/auctionsync/counter"
	"github.com/bitmark-inc/auctionsync/fault"
)

// Operation - the work to coalesce
type Operation func() (interface{}, error)

// Group - registry of pending operations
//
// the zero value is ready to use
type Group struct {
	group singleflight.Group

	sync.Mutex
	pending map[string]struct{}

	calls      counter.Counter
	executions counter.Counter
	joins      counter.Counter
}

// Do - run op unless an operation for key is already pending, in which
// case wait for that one
//
// cancelling ctx only releases this caller, the shared operation runs to
// completion and still settles for every other waiter
func (g *Group) Do(ctx context.Context, key string, op Operation) (interface{}, error) {

	g.calls.Increment()

	ch := g.group.DoChan(key, func() (interface{}, error) {
		g.executions.Increment()
		g.mark(key)
		defer g.unmark(key)
		return run(op)
	})

	select {
	case r := <-ch:
		if r.Shared {
			g.joins.Increment()
		}
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Pending - true while an operation for key is running
func (g *Group) Pending(key string) bool {
	g.Lock()
	defer g.Unlock()
	_, ok := g.pending[key]
	return ok
}

// Size - number of pending operations
func (g *Group) Size() int {
	g.Lock()
	defer g.Unlock()
	return len(g.pending)
}

// Calls - number of Do calls
func (g *Group) Calls() uint64 {
	return g.calls.Uint64()
}

// Executions - number of operations actually run
func (g *Group) Executions() uint64 {
	return g.executions.Uint64()
}

// Joins - number of calls whose result was shared with another caller
func (g *Group) Joins() uint64 {
	return g.joins.Uint64()
}

func (g *Group) mark(key string) {
	g.Lock()
	if nil == g.pending {
		g.pending = make(map[string]struct{})
	}
	g.pending[key] = struct{}{}
	g.Unlock()
}

func (g *Group) unmark(key string) {
	g.Lock()
	delete(g.pending, key)
	g.Unlock()
}

// singleflight runs DoChan operations on their own goroutine so a panic
// would take down the process
func run(op Operation) (result interface{}, err error) {
	defer func() {
		if r := recover(); nil != r {
			result = nil
			err = fmt.Errorf("%w: %v", fault.LoaderPanicked, r)
		}
	}()
	return op()
}
