// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package binding - scoped read handles over the cache store
//
// a handle combines one cache entry with the current sync state into the
// view a consumer displays, and owns any polling subscription it started.
// Every Acquire must be paired with a Release, normally by defer.
package binding

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/poller"
)

// Options - per acquisition settings
type Options struct {
	Poller         *poller.Poller // nil: no polling
	PollInterval   time.Duration  // zero: no polling
	Syncing        func() bool    // nil: never syncing
	Skip           bool           // no fetching or polling at all
	FetchOnAcquire bool           // start a revalidation in the background
}

// View - derived state of one entry
type View struct {
	Data          interface{}
	Loading       bool // nothing to show yet
	IsFetching    bool
	Err           error
	HasLoadedOnce bool
	IsStale       bool
	Timestamp     time.Time
}

// Handle - an acquired binding
type Handle struct {
	store   *cache.Store
	domain  string
	key     string
	loader  cache.Loader
	options Options

	once        sync.Once
	unsubscribe poller.Unsubscribe
}

// Acquire - bind to domain/key
func Acquire(store *cache.Store, domain string, key string, loader cache.Loader, options Options) *Handle {
	h := &Handle{
		store:   store,
		domain:  domain,
		key:     key,
		loader:  loader,
		options: options,
	}

	if options.Skip {
		return h
	}

	if nil != options.Poller && options.PollInterval > 0 {
		h.unsubscribe = options.Poller.Subscribe(domain+"/"+key, h.poll, options.PollInterval)
	}

	if options.FetchOnAcquire {
		go func() {
			_ = h.Revalidate(context.Background())
		}()
	}
	return h
}

// Domain - the bound domain
func (h *Handle) Domain() string {
	return h.domain
}

// Key - the bound key
func (h *Handle) Key() string {
	return h.key
}

// View - current state, never performs I/O
func (h *Handle) View() View {
	e, ok := h.store.Read(h.domain, h.key)

	fetching := cache.Loading == e.Status || h.store.Fetching(h.domain, h.key)
	syncing := nil != h.options.Syncing && h.options.Syncing()
	hasData := e.HasData()
	settled := ok && cache.Idle != e.Status

	return View{
		Data:          e.Data,
		Loading:       !hasData && (fetching || syncing || (!settled && !h.options.Skip)),
		IsFetching:    fetching,
		Err:           e.Err,
		HasLoadedOnce: e.Fetched || hasData,
		IsStale:       h.store.IsStale(h.domain, h.key),
		Timestamp:     e.Timestamp,
	}
}

// Refetch - fetch regardless of staleness
//
// concurrent refetches of the same key still share one loader call
func (h *Handle) Refetch(ctx context.Context) error {
	return h.store.Fetch(ctx, h.domain, h.key, h.loader)
}

// Revalidate - fetch only if the entry is stale and not already being
// fetched
func (h *Handle) Revalidate(ctx context.Context) error {
	if !h.store.IsStale(h.domain, h.key) {
		return nil
	}
	if h.store.Fetching(h.domain, h.key) {
		return nil
	}
	return h.Refetch(ctx)
}

// Release - stop polling, calling it again is a no-op
func (h *Handle) Release() {
	h.once.Do(func() {
		if nil != h.unsubscribe {
			h.unsubscribe()
		}
	})
}

// poll runs on the timer goroutine; the next period starts after it
// returns
func (h *Handle) poll() {
	_ = h.Refetch(context.Background())
}
