// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/binding"
	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/fault"
	"github.com/bitmark-inc/auctionsync/poller"
)

// summary with the values derived from the current time
type summaryInfo struct {
	*auction.Summary
	PriceNow  auction.Amount `json:"priceNow"`
	Progress  float64        `json:"progress"`
	Remaining auction.Amount `json:"remaining"`
	Open      bool           `json:"open"`
	At        time.Time      `json:"at"`
}

func makeSummaryInfo(s *auction.Summary, now time.Time) summaryInfo {
	return summaryInfo{
		Summary:   s,
		PriceNow:  auction.CurrentPrice(s, now),
		Progress:  auction.Progress(s),
		Remaining: auction.Remaining(s),
		Open:      auction.IsOpen(s, now),
		At:        now.UTC(),
	}
}

// price only
type priceInfo struct {
	Auction auction.ID     `json:"auctionId"`
	Price   auction.Amount `json:"price"`
	At      time.Time      `json:"at"`
}

// fetch through a binding and return its view, the binding is released
func fetch(m *metadata, h *binding.Handle) (binding.View, error) {
	defer h.Release()

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := h.Refetch(ctx); nil != err {
		return h.View(), err
	}
	v := h.View()
	if m.verbose {
		fmt.Fprintf(m.e, "%s/%s  fetched: %s\n", h.Domain(), h.Key(), v.Timestamp.Format(time.RFC3339))
	}
	return v, nil
}

func auctionID(c *cli.Context) (auction.ID, error) {
	if !c.IsSet("auction") {
		return 0, fmt.Errorf("%w: auction id is required", fault.InvalidKey)
	}
	return auction.ID(c.Uint64("auction")), nil
}

func viewerChain(c *cli.Context, m *metadata) (string, error) {
	chain := c.String("chain")
	if "" == chain {
		chain = m.chain
	}
	if "" == chain {
		return "", fmt.Errorf("%w: viewer chain is required", fault.InvalidKey)
	}
	return chain, nil
}

func required(c *cli.Context, name string) (string, error) {
	s := c.String(name)
	if "" == s {
		return "", fmt.Errorf("%w: %s is required", fault.InvalidKey, name)
	}
	return s, nil
}

func summary(m *metadata, id auction.ID) (*auction.Summary, error) {
	h := m.reader.Summary(id)
	if _, err := fetch(m, h.Handle); nil != err {
		return nil, err
	}
	s, _ := h.Summary()
	if nil == s {
		return nil, fmt.Errorf("auction: %s  %w", id, fault.NotFound)
	}
	return s, nil
}

func runSummary(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}

	s, err := summary(m, id)
	if nil != err {
		return err
	}
	return printJson(m.w, makeSummaryInfo(s, time.Now()))
}

func runPrice(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}

	at := time.Now()
	if s := c.String("at"); "" != s {
		at, err = time.Parse(time.RFC3339, s)
		if nil != err {
			return err
		}
	}

	s, err := summary(m, id)
	if nil != err {
		return err
	}
	return printJson(m.w, priceInfo{
		Auction: id,
		Price:   auction.CurrentPrice(s, at),
		At:      at.UTC(),
	})
}

func runBids(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}
	size := c.Int("page-size")
	if size < 0 {
		return fmt.Errorf("%w: page size: %d", fault.InvalidKey, size)
	}
	m.reader.BidPageSize = size

	h := m.reader.BidHistory(id)
	if _, err := fetch(m, h.Handle); nil != err {
		return err
	}
	bids, _ := h.Bids()
	return printJson(m.w, bids)
}

func runUserBids(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}
	owner, err := required(c, "owner")
	if nil != err {
		return err
	}

	h := m.reader.UserBids(id, owner)
	if _, err := fetch(m, h.Handle); nil != err {
		return err
	}
	bids, _ := h.Bids()
	return printJson(m.w, bids)
}

func printSummaries(m *metadata, h auction.SummariesHandle) error {
	if _, err := fetch(m, h.Handle); nil != err {
		return err
	}
	list, _ := h.Summaries()
	return printJson(m.w, list)
}

func runSettled(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	return printSummaries(m, m.reader.SettledAuctions())
}

func runAll(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	return printSummaries(m, m.reader.AllAuctions())
}

func runCreator(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	creator, err := required(c, "creator")
	if nil != err {
		return err
	}
	return printSummaries(m, m.reader.AuctionsByCreator(creator))
}

func printCommitment(m *metadata, h auction.CommitmentHandle) error {
	if _, err := fetch(m, h.Handle); nil != err {
		return err
	}
	commitment, _ := h.Commitment()
	return printJson(m.w, commitment)
}

func runCommitment(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}
	chain, err := viewerChain(c, m)
	if nil != err {
		return err
	}
	return printCommitment(m, m.reader.Commitment(id, chain))
}

func runClaimable(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}
	chain, err := viewerChain(c, m)
	if nil != err {
		return err
	}
	return printCommitment(m, m.reader.ClaimableSettlement(id, chain))
}

func runBalance(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	token, err := required(c, "token")
	if nil != err {
		return err
	}
	owner, err := required(c, "owner")
	if nil != err {
		return err
	}

	h := m.reader.Balance(token, owner)
	if _, err := fetch(m, h.Handle); nil != err {
		return err
	}
	balance, _ := h.Balance()
	return printJson(m.w, map[string]interface{}{
		"token":   token,
		"owner":   owner,
		"balance": balance,
	})
}

func runToken(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	token, err := required(c, "token")
	if nil != err {
		return err
	}

	h := m.reader.TokenInfo(token)
	if _, err := fetch(m, h.Handle); nil != err {
		return err
	}
	info, _ := h.TokenInfo()
	return printJson(m.w, info)
}

// runWatch - print the summary each time a poll stores a new value
func runWatch(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	id, err := auctionID(c)
	if nil != err {
		return err
	}
	interval := c.Duration("interval")
	if interval <= 0 {
		return fmt.Errorf("%w: %s", fault.InvalidInterval, interval)
	}
	count := c.Int("count")

	thePoller := poller.New(logger.New("poller"))
	defer thePoller.Stop()

	updated := make(chan struct{}, 1)
	key := auction.SummaryKey(id)
	cancel := m.store.OnChange(func(change cache.Change) {
		if auction.SummaryDomain != change.Domain || key != change.Key {
			return
		}
		if cache.Stored != change.Kind && cache.Failed != change.Kind {
			return
		}
		select {
		case updated <- struct{}{}:
		default:
		}
	})
	defer cancel()

	m.reader.Poller = thePoller
	m.reader.PollInterval = interval
	m.reader.FetchOnAcquire = true
	h := m.reader.Summary(id)
	defer h.Release()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	for n := 0; 0 == count || n < count; {
		select {
		case <-ch:
			return nil
		case <-updated:
		}

		v := h.View()
		if nil != v.Err {
			fmt.Fprintf(m.e, "error: %s\n", v.Err)
			continue
		}
		s, _ := h.Summary()
		if nil == s {
			fmt.Fprintf(m.e, "auction: %s not found\n", id)
			continue
		}
		if err := printJson(m.w, makeSummaryInfo(s, time.Now())); nil != err {
			return err
		}
		n += 1
	}
	return nil
}
