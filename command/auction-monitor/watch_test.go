// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/background"
	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/mocks"
	"github.com/bitmark-inc/auctionsync/synchronise"
)

func newTestStore(t *testing.T) *cache.Store {
	store := cache.New(logger.New(category))
	if err := auction.Register(store, nil); nil != err {
		t.Fatalf("register error: %s", err)
	}
	return store
}

func TestWatchListUpdate(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	reader := &auction.Reader{
		Store:   newTestStore(t),
		Loaders: mocks.NewMockLoaders(ctl),
	}
	w := newWatchList(logger.New(category), reader)

	added, removed := w.Update(WatchType{
		Auctions: []uint64{5, 5},
		Settled:  true,
		Balances: []BalanceType{{Token: "fungible", Owner: "User:aa"}},
	})
	assert.Equal(t, 4, added, "wrong added count")
	assert.Equal(t, 0, removed, "wrong removed count")
	assert.Equal(t, []string{
		"auction-summary/5",
		"bid-history/5",
		"settled-auctions/all",
		"token-balance/fungible:User:aa",
	}, w.Keys(), "wrong keys")

	added, removed = w.Update(WatchType{
		Auctions:    []uint64{5},
		Commitments: []CommitmentType{{Auction: 5, Chain: "0f3c"}},
	})
	assert.Equal(t, 2, added, "wrong added count")
	assert.Equal(t, 2, removed, "wrong removed count")
	assert.Equal(t, []string{
		"auction-summary/5",
		"bid-history/5",
		"claimable-settlement/5:0f3c",
		"user-commitment/5:0f3c",
	}, w.Keys(), "wrong keys after update")

	v, ok := w.View("auction-summary/5")
	assert.True(t, ok, "missing view")
	assert.True(t, v.Loading, "view should be loading before any fetch")

	_, ok = w.View("settled-auctions/all")
	assert.False(t, ok, "released item still viewable")

	w.ReleaseAll()
	assert.Equal(t, 0, len(w.Keys()), "bindings left after release")
}

func TestReporterQueuesChanges(t *testing.T) {
	store := newTestStore(t)
	controller := synchronise.New(logger.New(category), store, 30*time.Millisecond)
	defer controller.Stop()

	r := newReporter(logger.New(category), store, controller, nil)

	err := store.Fetch(context.Background(), auction.SummaryDomain, "5", func(context.Context) (interface{}, error) {
		return &auction.Summary{ID: 5, ItemName: "lamp", TotalSupply: auction.Tokens(10), Sold: auction.Tokens(3)}, nil
	})
	assert.Nil(t, err, "fetch error")

	// fetching and stored
	assert.Equal(t, 2, r.queue.Len(), "changes not queued")

	p := background.Start(background.Processes{r}, nil)
	deadline := time.Now().Add(time.Second)
	for r.queue.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	p.Stop()
	assert.Equal(t, 0, r.queue.Len(), "queue not drained")

	// listeners are removed when the reporter stops
	store.InvalidateAll()
	assert.Equal(t, 0, r.queue.Len(), "change queued after stop")
}
