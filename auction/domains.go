// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/fault"
	"github.com/bitmark-inc/auctionsync/snapshot"
)

// cache domain names
const (
	SummaryDomain             = "auction-summary"
	BidHistoryDomain          = "bid-history"
	SettledAuctionsDomain     = "settled-auctions"
	AllAuctionsDomain         = "all-auctions"
	AuctionsByCreatorDomain   = "auctions-by-creator"
	CommitmentDomain          = "user-commitment"
	UserBidsDomain            = "user-bids"
	ClaimableSettlementDomain = "claimable-settlement"
	BalanceDomain             = "token-balance"
	TokenInfoDomain           = "token-info"
)

// SingletonKey - key of domains holding a single list
const SingletonKey = "all"

// Immutable - TTL value marking a domain that never ages
const Immutable = time.Duration(-1)

// DefaultTTLs - freshness window of every domain
var DefaultTTLs = map[string]time.Duration{
	SummaryDomain:             5 * time.Second,
	BidHistoryDomain:          5 * time.Second,
	SettledAuctionsDomain:     Immutable,
	AllAuctionsDomain:         10 * time.Second,
	AuctionsByCreatorDomain:   10 * time.Second,
	CommitmentDomain:          5 * time.Second,
	UserBidsDomain:            5 * time.Second,
	ClaimableSettlementDomain: 10 * time.Second,
	BalanceDomain:             5 * time.Second,
	TokenInfoDomain:           100 * time.Minute,
}

// Register - add every auction domain to the store
//
// overrides replace the default TTL of the named domains, Immutable
// makes a domain immutable
func Register(store *cache.Store, overrides map[string]time.Duration) error {
	for name := range overrides {
		if _, ok := DefaultTTLs[name]; !ok {
			return fmt.Errorf("%w: ttl for %q", fault.UnknownDomain, name)
		}
	}

	for _, name := range DomainNames() {
		ttl := DefaultTTLs[name]
		if override, ok := overrides[name]; ok {
			ttl = override
		}

		d := cache.Domain{Name: name, TTL: ttl}
		if Immutable == ttl {
			d = cache.Domain{Name: name, Immutable: true}
		}
		if err := store.Register(d); nil != err {
			return fmt.Errorf("%w: %q", err, name)
		}
	}
	return nil
}

// DomainNames - every auction domain in a fixed order
func DomainNames() []string {
	return []string{
		SummaryDomain,
		BidHistoryDomain,
		SettledAuctionsDomain,
		AllAuctionsDomain,
		AuctionsByCreatorDomain,
		CommitmentDomain,
		UserBidsDomain,
		ClaimableSettlementDomain,
		BalanceDomain,
		TokenInfoDomain,
	}
}

// SummaryKey - key of an auction
func SummaryKey(id ID) string {
	return id.String()
}

// CommitmentKey - key of a viewer chain's view of an auction
func CommitmentKey(id ID, chain string) string {
	return id.String() + ":" + chain
}

// UserBidsKey - key of one account's bids in an auction
func UserBidsKey(id ID, address string) string {
	return id.String() + ":" + address
}

// BalanceKey - key of an owner's balance of a token
func BalanceKey(token string, owner string) string {
	return token + ":" + owner
}

// Decoders - one decoder per domain, producing the same types the
// loaders store
func Decoders() map[string]snapshot.Decoder {
	summary := func(data json.RawMessage) (interface{}, error) {
		var s *Summary
		err := json.Unmarshal(data, &s)
		return s, err
	}
	summaries := func(data json.RawMessage) (interface{}, error) {
		var s []Summary
		err := json.Unmarshal(data, &s)
		return s, err
	}
	bids := func(data json.RawMessage) (interface{}, error) {
		var b []Bid
		err := json.Unmarshal(data, &b)
		return b, err
	}
	commitment := func(data json.RawMessage) (interface{}, error) {
		var c *Commitment
		err := json.Unmarshal(data, &c)
		return c, err
	}
	return map[string]snapshot.Decoder{
		SummaryDomain:             summary,
		BidHistoryDomain:          bids,
		SettledAuctionsDomain:     summaries,
		AllAuctionsDomain:         summaries,
		AuctionsByCreatorDomain:   summaries,
		CommitmentDomain:          commitment,
		UserBidsDomain:            bids,
		ClaimableSettlementDomain: commitment,
		BalanceDomain: func(data json.RawMessage) (interface{}, error) {
			var a Amount
			err := json.Unmarshal(data, &a)
			return a, err
		},
		TokenInfoDomain: func(data json.RawMessage) (interface{}, error) {
			var t *TokenInfo
			err := json.Unmarshal(data, &t)
			return t, err
		},
	}
}
