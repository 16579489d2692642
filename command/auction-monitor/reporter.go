// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/messagebus"
	"github.com/bitmark-inc/auctionsync/synchronise"
)

const (
	statsInterval = 60 * time.Second
	reporterQueue = 1000
)

// a connection changing between syncing and settled
type stateChange struct {
	name    string
	syncing bool
}

// counters shown by the periodic statistics line
type statistics interface {
	Requests() uint64
	Failures() uint64
}

// reporter - log cache changes and sync state changes outside the
// goroutines that produce them
type reporter struct {
	log        *logger.L
	queue      *messagebus.Queue
	store      *cache.Store
	controller *synchronise.Controller
	ledger     statistics
	interval   time.Duration
	now        func() time.Time
	cancel     []func()
}

func newReporter(log *logger.L, store *cache.Store, controller *synchronise.Controller, ledger statistics) *reporter {
	r := &reporter{
		log:        log,
		queue:      messagebus.New(reporterQueue),
		store:      store,
		controller: controller,
		ledger:     ledger,
		interval:   statsInterval,
		now:        time.Now,
	}

	r.cancel = append(r.cancel,
		store.OnChange(func(change cache.Change) {
			r.queue.Send("cache", change)
		}),
		controller.OnStateChange(func(name string, syncing bool) {
			r.queue.Send("synchronise", stateChange{name: name, syncing: syncing})
		}),
	)
	return r
}

// Run - background.Process
func (r *reporter) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Info("starting…")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-r.queue.Chan():
			r.process(item)
		case <-ticker.C:
			r.stats()
		}
	}

	for _, cancel := range r.cancel {
		cancel()
	}
	r.stats()
	r.log.Info("stopped")
}

func (r *reporter) process(item messagebus.Message) {
	switch m := item.Item.(type) {
	case cache.Change:
		r.change(m)
	case stateChange:
		if m.syncing {
			r.log.Infof("connection: %s  syncing", m.name)
		} else {
			r.log.Infof("connection: %s  settled", m.name)
		}
	default:
		r.log.Warnf("unexpected message from: %s  %T", item.From, item.Item)
	}
}

func (r *reporter) change(change cache.Change) {
	switch change.Kind {
	case cache.Failed:
		e, _ := r.store.Read(change.Domain, change.Key)
		r.log.Warnf("%s/%s  %s: %s", change.Domain, change.Key, change.Kind, e.Err)
		return
	case cache.Stored:
	default:
		r.log.Debugf("%s/%s  %s", change.Domain, change.Key, change.Kind)
		return
	}

	e, ok := r.store.Read(change.Domain, change.Key)
	if !ok {
		return
	}

	switch data := e.Data.(type) {
	case *auction.Summary:
		if nil == data {
			r.log.Infof("%s/%s  no such auction", change.Domain, change.Key)
			return
		}
		now := r.now()
		r.log.Infof("auction: %s  %q  status: %s  price: %s  sold: %s/%s (%.1f%%)  open: %t",
			data.ID,
			data.ItemName,
			data.Status,
			auction.CurrentPrice(data, now),
			data.Sold,
			data.TotalSupply,
			100*auction.Progress(data),
			auction.IsOpen(data, now),
		)
	case []auction.Bid:
		r.log.Infof("%s/%s  bids: %d", change.Domain, change.Key, len(data))
	case []auction.Summary:
		r.log.Infof("%s/%s  auctions: %d", change.Domain, change.Key, len(data))
	case *auction.Commitment:
		if nil == data {
			r.log.Infof("%s/%s  none", change.Domain, change.Key)
			return
		}
		r.log.Infof("%s/%s  quantity: %d  settled: %t", change.Domain, change.Key, data.TotalQuantity, nil != data.Settlement)
	case auction.Amount:
		r.log.Infof("%s/%s  balance: %s", change.Domain, change.Key, data)
	case *auction.TokenInfo:
		if nil != data {
			r.log.Infof("%s/%s  token: %s (%s)", change.Domain, change.Key, data.Name, data.Symbol)
		}
	default:
		r.log.Infof("%s/%s  stored", change.Domain, change.Key)
	}
}

func (r *reporter) stats() {
	s := r.store.Stats()
	r.log.Infof("cache fetches: %d  loads: %d  failures: %d  invalidations: %d",
		s[cache.StatFetches], s[cache.StatLoads], s[cache.StatFailures], s[cache.StatInvalidations])
	if nil != r.ledger {
		r.log.Infof("ledger requests: %d  failures: %d", r.ledger.Requests(), r.ledger.Failures())
	}
	for _, c := range r.controller.Status() {
		r.log.Infof("connection: %s  syncing: %t  notifications: %d  settles: %d  invalidations: %d",
			c.Name, c.Syncing, c.Notifications, c.Settles, c.Invalidations)
	}
	if n := r.queue.Dropped(); n > 0 {
		r.log.Warnf("reporter dropped: %d", n)
	}
}
