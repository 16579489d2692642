// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"

	"github.com/bitmark-inc/auctionsync/auction"
)

var _ auction.Loaders = (*Client)(nil)

const summaryFields = `auctionId itemName image maxBidAmount totalSupply startPrice floorPrice
priceDecayInterval priceDecayAmount startTime endTime creator paymentTokenApp auctionTokenApp
currentPrice sold clearingPrice status totalBids totalBidders`

const bidFields = `bidId auctionId userAccount quantity amountPaid timestamp claimed`

const commitmentFields = `totalQuantity settlement { allocatedQuantity clearingPrice totalCost refund }`

func (c *Client) auctionURL(chain string) string {
	return applicationURL(c.node, chain, c.auctionApp)
}

// AuctionSummary - nil if the indexer does not know the auction
func (c *Client) AuctionSummary(ctx context.Context, id auction.ID) (*auction.Summary, error) {
	var reply struct {
		Summary *auction.Summary `json:"auctionSummary"`
	}
	q := `query($id: Int!) { auctionSummary(auctionId: $id) { ` + summaryFields + ` } }`
	err := c.query(ctx, c.indexerURL, q, map[string]interface{}{"id": id}, &reply)
	if nil != err {
		return nil, err
	}
	return reply.Summary, nil
}

// BidHistory - bids of an auction in placement order
func (c *Client) BidHistory(ctx context.Context, id auction.ID, offset int, limit int) ([]auction.Bid, error) {
	var reply struct {
		Bids []auction.Bid `json:"bidHistory"`
	}
	variables := map[string]interface{}{
		"id":     id,
		"offset": offset,
	}
	if limit > 0 {
		variables["limit"] = limit
	}
	q := `query($id: Int!, $offset: Int, $limit: Int) { bidHistory(auctionId: $id, offset: $offset, limit: $limit) { ` + bidFields + ` } }`
	err := c.query(ctx, c.indexerURL, q, variables, &reply)
	if nil != err {
		return nil, err
	}
	return nonNilBids(reply.Bids), nil
}

// SettledAuctions - every settled auction
func (c *Client) SettledAuctions(ctx context.Context) ([]auction.Summary, error) {
	var reply struct {
		Auctions []auction.Summary `json:"settledAuctions"`
	}
	q := `query { settledAuctions { ` + summaryFields + ` } }`
	err := c.query(ctx, c.indexerURL, q, nil, &reply)
	if nil != err {
		return nil, err
	}
	return nonNilSummaries(reply.Auctions), nil
}

// AllAuctions - every auction known to the indexer
func (c *Client) AllAuctions(ctx context.Context) ([]auction.Summary, error) {
	var reply struct {
		Auctions []auction.Summary `json:"allAuctions"`
	}
	q := `query { allAuctions { ` + summaryFields + ` } }`
	err := c.query(ctx, c.indexerURL, q, nil, &reply)
	if nil != err {
		return nil, err
	}
	return nonNilSummaries(reply.Auctions), nil
}

// AuctionsByCreator - auctions created by one account
func (c *Client) AuctionsByCreator(ctx context.Context, creator string) ([]auction.Summary, error) {
	var reply struct {
		Auctions []auction.Summary `json:"auctionsByCreator"`
	}
	q := `query($creator: AccountOwner!) { auctionsByCreator(creator: $creator) { ` + summaryFields + ` } }`
	err := c.query(ctx, c.indexerURL, q, map[string]interface{}{"creator": creator}, &reply)
	if nil != err {
		return nil, err
	}
	return nonNilSummaries(reply.Auctions), nil
}

// Commitment - the commitment recorded on a user chain, nil if none
func (c *Client) Commitment(ctx context.Context, id auction.ID, chain string) (*auction.Commitment, error) {
	var reply struct {
		Commitment *auction.Commitment `json:"myCommitmentForAuction"`
	}
	q := `query($id: Int!) { myCommitmentForAuction(auctionId: $id) { ` + commitmentFields + ` } }`
	err := c.query(ctx, c.auctionURL(chain), q, map[string]interface{}{"id": id}, &reply)
	if nil != err {
		return nil, err
	}
	return reply.Commitment, nil
}

// UserBids - one account's bids, from the auction chain
func (c *Client) UserBids(ctx context.Context, id auction.ID, address string) ([]auction.Bid, error) {
	var reply struct {
		Bids []auction.Bid `json:"userBids"`
	}
	q := `query($user: AccountOwner!, $id: Int!) { userBids(user: $user, auctionId: $id) { ` + bidFields + ` } }`
	err := c.query(ctx, c.auctionURL(c.auctionChain), q, map[string]interface{}{"user": address, "id": id}, &reply)
	if nil != err {
		return nil, err
	}
	return nonNilBids(reply.Bids), nil
}

// ClaimableSettlement - settlement a user chain can claim, nil if none
func (c *Client) ClaimableSettlement(ctx context.Context, id auction.ID, chain string) (*auction.Commitment, error) {
	var reply struct {
		Commitment *auction.Commitment `json:"claimableSettlement"`
	}
	q := `query($id: Int!, $chain: ChainId!) { claimableSettlement(auctionId: $id, userChain: $chain) { ` + commitmentFields + ` } }`
	err := c.query(ctx, c.auctionURL(c.auctionChain), q, map[string]interface{}{"id": id, "chain": chain}, &reply)
	if nil != err {
		return nil, err
	}
	return reply.Commitment, nil
}

// Balance - owner's balance of a fungible token on the viewer chain,
// zero for an unknown owner
func (c *Client) Balance(ctx context.Context, token string, owner string) (auction.Amount, error) {
	var reply struct {
		Accounts struct {
			Entry struct {
				Value *auction.Amount `json:"value"`
			} `json:"entry"`
		} `json:"accounts"`
	}
	q := `query($owner: AccountOwner!) { accounts { entry(key: $owner) { value } } }`
	err := c.query(ctx, applicationURL(c.node, c.chain, token), q, map[string]interface{}{"owner": owner}, &reply)
	if nil != err {
		return auction.Amount{}, err
	}
	if nil == reply.Accounts.Entry.Value {
		return auction.Amount{}, nil
	}
	return *reply.Accounts.Entry.Value, nil
}

// TokenInfo - name and symbol of a fungible token
func (c *Client) TokenInfo(ctx context.Context, token string) (*auction.TokenInfo, error) {
	var reply struct {
		Name   string `json:"name"`
		Symbol string `json:"tickerSymbol"`
	}
	q := `query { name tickerSymbol }`
	err := c.query(ctx, applicationURL(c.node, c.chain, token), q, nil, &reply)
	if nil != err {
		return nil, err
	}
	return &auction.TokenInfo{Name: reply.Name, Symbol: reply.Symbol}, nil
}

// an empty list is data, keep it distinct from never loaded
func nonNilBids(bids []auction.Bid) []auction.Bid {
	if nil == bids {
		return []auction.Bid{}
	}
	return bids
}

func nonNilSummaries(summaries []auction.Summary) []auction.Summary {
	if nil == summaries {
		return []auction.Summary{}
	}
	return summaries
}
