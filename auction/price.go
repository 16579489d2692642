// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"time"
)

// CurrentPrice - descending clock price of an auction at a given time
//
// before the start the start price applies; afterwards the price drops
// by the decay amount once per whole decay interval and never goes below
// the floor price
func CurrentPrice(s *Summary, now time.Time) Amount {
	if nil == s {
		return Amount{}
	}
	t := TimestampOf(now)
	if t < s.StartTime || 0 == s.PriceDecayInterval {
		return s.StartPrice
	}

	intervals := uint64(t-s.StartTime) / s.PriceDecayInterval
	decay := s.PriceDecayAmount.SaturatingMul(intervals)
	return s.StartPrice.SaturatingSub(decay).Max(s.FloorPrice)
}

// Progress - sold fraction of the total supply in [0, 1]
func Progress(s *Summary) float64 {
	if nil == s || s.TotalSupply.IsZero() {
		return 0
	}
	p := s.Sold.Float64() / s.TotalSupply.Float64()
	if p > 1 {
		return 1
	}
	return p
}

// Remaining - unsold quantity
func Remaining(s *Summary) Amount {
	if nil == s {
		return Amount{}
	}
	return s.TotalSupply.SaturatingSub(s.Sold)
}

// IsOpen - true if bids are accepted at the given time
func IsOpen(s *Summary, now time.Time) bool {
	if nil == s || Active != s.Status {
		return false
	}
	t := TimestampOf(now)
	return t >= s.StartTime && (0 == s.EndTime || t < s.EndTime)
}
