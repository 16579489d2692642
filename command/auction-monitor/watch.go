// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"sort"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/binding"
)

// the set of bindings held for the configured watch list
type watchList struct {
	sync.Mutex
	log     *logger.L
	reader  *auction.Reader
	handles map[string]*binding.Handle
}

func newWatchList(log *logger.L, reader *auction.Reader) *watchList {
	return &watchList{
		log:     log,
		reader:  reader,
		handles: make(map[string]*binding.Handle),
	}
}

// item key and the function to acquire its binding
type watchItem struct {
	key     string
	acquire func() *binding.Handle
}

func watchItems(reader *auction.Reader, watch WatchType) []watchItem {
	items := []watchItem{}
	add := func(domain string, key string, acquire func() *binding.Handle) {
		items = append(items, watchItem{key: domain + "/" + key, acquire: acquire})
	}

	for _, n := range watch.Auctions {
		id := auction.ID(n)
		add(auction.SummaryDomain, auction.SummaryKey(id), func() *binding.Handle {
			return reader.Summary(id).Handle
		})
		add(auction.BidHistoryDomain, auction.SummaryKey(id), func() *binding.Handle {
			return reader.BidHistory(id).Handle
		})
	}
	if watch.Settled {
		add(auction.SettledAuctionsDomain, auction.SingletonKey, func() *binding.Handle {
			return reader.SettledAuctions().Handle
		})
	}
	for _, creator := range watch.Creators {
		creator := creator
		add(auction.AuctionsByCreatorDomain, creator, func() *binding.Handle {
			return reader.AuctionsByCreator(creator).Handle
		})
	}
	for _, c := range watch.Commitments {
		id := auction.ID(c.Auction)
		chain := c.Chain
		add(auction.CommitmentDomain, auction.CommitmentKey(id, chain), func() *binding.Handle {
			return reader.Commitment(id, chain).Handle
		})
		add(auction.ClaimableSettlementDomain, auction.CommitmentKey(id, chain), func() *binding.Handle {
			return reader.ClaimableSettlement(id, chain).Handle
		})
	}
	for _, b := range watch.Balances {
		token := b.Token
		owner := b.Owner
		add(auction.BalanceDomain, auction.BalanceKey(token, owner), func() *binding.Handle {
			return reader.Balance(token, owner).Handle
		})
	}
	for _, token := range watch.Tokens {
		token := token
		add(auction.TokenInfoDomain, token, func() *binding.Handle {
			return reader.TokenInfo(token).Handle
		})
	}
	return items
}

// Update - acquire bindings for new items and release those no longer
// listed, returns the counts of each
func (w *watchList) Update(watch WatchType) (int, int) {
	w.Lock()
	defer w.Unlock()

	wanted := make(map[string]struct{})
	added := 0
	for _, item := range watchItems(w.reader, watch) {
		if _, ok := wanted[item.key]; ok {
			continue
		}
		wanted[item.key] = struct{}{}
		if _, ok := w.handles[item.key]; ok {
			continue
		}
		w.handles[item.key] = item.acquire()
		added += 1
		w.log.Debugf("watch: %s", item.key)
	}

	removed := 0
	for key, h := range w.handles {
		if _, ok := wanted[key]; ok {
			continue
		}
		h.Release()
		delete(w.handles, key)
		removed += 1
		w.log.Debugf("unwatch: %s", key)
	}

	w.log.Infof("watching: %d  added: %d  removed: %d", len(w.handles), added, removed)
	return added, removed
}

// Keys - the watched items in order
func (w *watchList) Keys() []string {
	w.Lock()
	defer w.Unlock()

	keys := make([]string, 0, len(w.handles))
	for k := range w.handles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// View - the current view of a watched item
func (w *watchList) View(key string) (binding.View, bool) {
	w.Lock()
	h, ok := w.handles[key]
	w.Unlock()

	if !ok {
		return binding.View{}, false
	}
	return h.View(), true
}

// ReleaseAll - release every binding
func (w *watchList) ReleaseAll() {
	w.Lock()
	defer w.Unlock()

	for key, h := range w.handles {
		h.Release()
		delete(w.handles, key)
	}
}
