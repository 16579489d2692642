// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/auctionsync/fault"
)

// ID - auction identifier
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID - decimal auction identifier
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if nil != err {
		return 0, fault.InvalidKey
	}
	return ID(n), nil
}

// Timestamp - microseconds since the Unix epoch
type Timestamp uint64

// TimestampOf - convert a time, times before the epoch become zero
func TimestampOf(t time.Time) Timestamp {
	us := t.UnixNano() / 1000
	if us < 0 {
		return 0
	}
	return Timestamp(us)
}

// Time - as a UTC time
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)*1000).UTC()
}

// UnmarshalJSON - from a number or a quoted number
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	n, err := strconv.ParseUint(strings.Trim(string(data), `"`), 10, 64)
	if nil != err {
		return err
	}
	*t = Timestamp(n)
	return nil
}

// Status - lifecycle of an auction
type Status int

// auction states
const (
	Scheduled Status = iota
	Active
	Settled
	Pruned
	Cancelled
)

var statusNames = []string{"Scheduled", "Active", "Settled", "Pruned", "Cancelled"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "Unknown"
	}
	return statusNames[s]
}

// MarshalJSON - as the ledger's enum name
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON - the ledger's enum name, GraphQL upper case accepted
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); nil != err {
		return err
	}
	for i, n := range statusNames {
		if strings.EqualFold(n, name) {
			*s = Status(i)
			return nil
		}
	}
	return fault.InvalidStatus
}

// Summary - auction parameters with the state derived by the indexer
type Summary struct {
	ID                 ID        `json:"auctionId"`
	ItemName           string    `json:"itemName"`
	Image              string    `json:"image"`
	MaxBidAmount       Amount    `json:"maxBidAmount"`
	TotalSupply        Amount    `json:"totalSupply"`
	StartPrice         Amount    `json:"startPrice"`
	FloorPrice         Amount    `json:"floorPrice"`
	PriceDecayInterval uint64    `json:"priceDecayInterval"` // microseconds
	PriceDecayAmount   Amount    `json:"priceDecayAmount"`
	StartTime          Timestamp `json:"startTime"`
	EndTime            Timestamp `json:"endTime"`
	Creator            string    `json:"creator"`
	PaymentTokenApp    string    `json:"paymentTokenApp"`
	AuctionTokenApp    string    `json:"auctionTokenApp"`

	CurrentPrice  Amount  `json:"currentPrice"`
	Sold          Amount  `json:"sold"`
	ClearingPrice *Amount `json:"clearingPrice"`
	Status        Status  `json:"status"`
	TotalBids     uint64  `json:"totalBids"`
	TotalBidders  uint64  `json:"totalBidders"`
}

// Bid - one bid as recorded by the auction chain
type Bid struct {
	ID          uint64    `json:"bidId"`
	AuctionID   ID        `json:"auctionId"`
	UserAccount string    `json:"userAccount"`
	Quantity    Amount    `json:"quantity"`
	AmountPaid  Amount    `json:"amountPaid"`
	Timestamp   Timestamp `json:"timestamp"`
	Claimed     bool      `json:"claimed"`
}

// Settlement - allocation of a settled auction for one user
type Settlement struct {
	AllocatedQuantity uint64 `json:"allocatedQuantity"`
	ClearingPrice     Amount `json:"clearingPrice"`
	TotalCost         Amount `json:"totalCost"`
	Refund            Amount `json:"refund"`
}

// Commitment - a user's total bid quantity and its settlement, if any
type Commitment struct {
	TotalQuantity uint64      `json:"totalQuantity"`
	Settlement    *Settlement `json:"settlement"`
}

// TokenInfo - fungible token parameters
type TokenInfo struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
