// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"context"
	"time"

	"github.com/bitmark-inc/auctionsync/binding"
	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/poller"
)

// Loaders - ledger queries, one per domain
//
// a zero limit means no limit
type Loaders interface {
	AuctionSummary(ctx context.Context, id ID) (*Summary, error)
	BidHistory(ctx context.Context, id ID, offset int, limit int) ([]Bid, error)
	SettledAuctions(ctx context.Context) ([]Summary, error)
	AllAuctions(ctx context.Context) ([]Summary, error)
	AuctionsByCreator(ctx context.Context, creator string) ([]Summary, error)
	Commitment(ctx context.Context, id ID, chain string) (*Commitment, error)
	UserBids(ctx context.Context, id ID, address string) ([]Bid, error)
	ClaimableSettlement(ctx context.Context, id ID, chain string) (*Commitment, error)
	Balance(ctx context.Context, token string, owner string) (Amount, error)
	TokenInfo(ctx context.Context, token string) (*TokenInfo, error)
}

// Reader - typed bindings over the auction domains
type Reader struct {
	Store          *cache.Store
	Loaders        Loaders
	Poller         *poller.Poller // nil: no polling
	PollInterval   time.Duration
	Syncing        func() bool
	FetchOnAcquire bool
	BidPageSize    int // zero: fetch the whole history in one query
}

func (r *Reader) acquire(domain string, key string, loader cache.Loader) *binding.Handle {
	return binding.Acquire(r.Store, domain, key, loader, binding.Options{
		Poller:         r.Poller,
		PollInterval:   r.PollInterval,
		Syncing:        r.Syncing,
		FetchOnAcquire: r.FetchOnAcquire,
	})
}

// SummaryHandle - binding to one auction summary
type SummaryHandle struct {
	*binding.Handle
}

// Summary - cached summary, false if none
func (h SummaryHandle) Summary() (*Summary, bool) {
	s, ok := h.View().Data.(*Summary)
	return s, ok && nil != s
}

// BidsHandle - binding to a list of bids
type BidsHandle struct {
	*binding.Handle
}

// Bids - cached bids, false if never loaded
func (h BidsHandle) Bids() ([]Bid, bool) {
	b, ok := h.View().Data.([]Bid)
	return b, ok
}

// SummariesHandle - binding to a list of auctions
type SummariesHandle struct {
	*binding.Handle
}

// Summaries - cached auctions, false if never loaded
func (h SummariesHandle) Summaries() ([]Summary, bool) {
	s, ok := h.View().Data.([]Summary)
	return s, ok
}

// CommitmentHandle - binding to a user commitment
type CommitmentHandle struct {
	*binding.Handle
}

// Commitment - cached commitment, false if none
func (h CommitmentHandle) Commitment() (*Commitment, bool) {
	c, ok := h.View().Data.(*Commitment)
	return c, ok && nil != c
}

// BalanceHandle - binding to a token balance
type BalanceHandle struct {
	*binding.Handle
}

// Balance - cached balance, false if never loaded
func (h BalanceHandle) Balance() (Amount, bool) {
	a, ok := h.View().Data.(Amount)
	return a, ok
}

// TokenInfoHandle - binding to token parameters
type TokenInfoHandle struct {
	*binding.Handle
}

// TokenInfo - cached parameters, false if none
func (h TokenInfoHandle) TokenInfo() (*TokenInfo, bool) {
	t, ok := h.View().Data.(*TokenInfo)
	return t, ok && nil != t
}

// Summary - bind an auction summary
func (r *Reader) Summary(id ID) SummaryHandle {
	return SummaryHandle{r.acquire(SummaryDomain, SummaryKey(id), func(ctx context.Context) (interface{}, error) {
		return r.Loaders.AuctionSummary(ctx, id)
	})}
}

// BidHistory - bind the bid history of an auction
func (r *Reader) BidHistory(id ID) BidsHandle {
	return BidsHandle{r.acquire(BidHistoryDomain, SummaryKey(id), func(ctx context.Context) (interface{}, error) {
		return r.allBids(ctx, id)
	})}
}

// fetch the history page by page until a short page or a page that
// holds no bid not already seen
func (r *Reader) allBids(ctx context.Context, id ID) ([]Bid, error) {
	if r.BidPageSize <= 0 {
		return r.Loaders.BidHistory(ctx, id, 0, 0)
	}

	bids := []Bid{}
	seen := make(map[uint64]struct{})
	for offset := 0; ; offset += r.BidPageSize {
		page, err := r.Loaders.BidHistory(ctx, id, offset, r.BidPageSize)
		if nil != err {
			return nil, err
		}
		added := 0
		for _, bid := range page {
			if _, ok := seen[bid.ID]; ok {
				continue
			}
			seen[bid.ID] = struct{}{}
			bids = append(bids, bid)
			added += 1
		}
		if len(page) < r.BidPageSize || 0 == added {
			return bids, nil
		}
	}
}

// SettledAuctions - bind the list of settled auctions
func (r *Reader) SettledAuctions() SummariesHandle {
	return SummariesHandle{r.acquire(SettledAuctionsDomain, SingletonKey, func(ctx context.Context) (interface{}, error) {
		return r.Loaders.SettledAuctions(ctx)
	})}
}

// AllAuctions - bind the list of every auction
func (r *Reader) AllAuctions() SummariesHandle {
	return SummariesHandle{r.acquire(AllAuctionsDomain, SingletonKey, func(ctx context.Context) (interface{}, error) {
		return r.Loaders.AllAuctions(ctx)
	})}
}

// AuctionsByCreator - bind the auctions of one creator
func (r *Reader) AuctionsByCreator(creator string) SummariesHandle {
	return SummariesHandle{r.acquire(AuctionsByCreatorDomain, creator, func(ctx context.Context) (interface{}, error) {
		return r.Loaders.AuctionsByCreator(ctx, creator)
	})}
}

// Commitment - bind a viewer chain's commitment to an auction
func (r *Reader) Commitment(id ID, chain string) CommitmentHandle {
	return CommitmentHandle{r.acquire(CommitmentDomain, CommitmentKey(id, chain), func(ctx context.Context) (interface{}, error) {
		return r.Loaders.Commitment(ctx, id, chain)
	})}
}

// UserBids - bind one account's bids in an auction
func (r *Reader) UserBids(id ID, address string) BidsHandle {
	return BidsHandle{r.acquire(UserBidsDomain, UserBidsKey(id, address), func(ctx context.Context) (interface{}, error) {
		return r.Loaders.UserBids(ctx, id, address)
	})}
}

// ClaimableSettlement - bind the settlement a viewer chain can claim
func (r *Reader) ClaimableSettlement(id ID, chain string) CommitmentHandle {
	return CommitmentHandle{r.acquire(ClaimableSettlementDomain, CommitmentKey(id, chain), func(ctx context.Context) (interface{}, error) {
		return r.Loaders.ClaimableSettlement(ctx, id, chain)
	})}
}

// Balance - bind an owner's token balance
func (r *Reader) Balance(token string, owner string) BalanceHandle {
	return BalanceHandle{r.acquire(BalanceDomain, BalanceKey(token, owner), func(ctx context.Context) (interface{}, error) {
		return r.Loaders.Balance(ctx, token, owner)
	})}
}

// TokenInfo - bind token parameters
func (r *Reader) TokenInfo(token string) TokenInfoHandle {
	return TokenInfoHandle{r.acquire(TokenInfoDomain, token, func(ctx context.Context) (interface{}, error) {
		return r.Loaders.TokenInfo(ctx, token)
	})}
}
