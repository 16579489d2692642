// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package auction

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/bitmark-inc/auctionsync/fault"
)

// Decimals - fractional digits of an Amount
const Decimals = 18

var (
	scale     = new(big.Int).Exp(big.NewInt(10), big.NewInt(Decimals), nil)
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

// Amount - unsigned 128 bit fixed point token quantity
//
// the zero value is zero; arithmetic saturates instead of wrapping
type Amount struct {
	atto *big.Int
}

// Tokens - whole token amount
func Tokens(n uint64) Amount {
	v := new(big.Int).SetUint64(n)
	return Amount{atto: v.Mul(v, scale)}
}

// Atto - amount in the smallest unit
func Atto(n uint64) Amount {
	return Amount{atto: new(big.Int).SetUint64(n)}
}

// ParseAmount - decode "12", "12." or "12.345"
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if "" == s {
		return Amount{}, fault.InvalidAmount
	}

	whole := s
	fraction := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole = s[:i]
		fraction = s[i+1:]
	}
	if "" == whole {
		whole = "0"
	}
	if len(fraction) > Decimals {
		return Amount{}, fault.InvalidAmount
	}
	fraction += strings.Repeat("0", Decimals-len(fraction))

	for _, c := range whole + fraction {
		if c < '0' || c > '9' {
			return Amount{}, fault.InvalidAmount
		}
	}

	v, ok := new(big.Int).SetString(whole+fraction, 10)
	if !ok || v.Cmp(maxAmount) > 0 {
		return Amount{}, fault.InvalidAmount
	}
	return Amount{atto: v}, nil
}

func (a Amount) value() *big.Int {
	if nil == a.atto {
		return new(big.Int)
	}
	return a.atto
}

// IsZero - true for zero
func (a Amount) IsZero() bool {
	return 0 == a.value().Sign()
}

// Cmp - -1, 0 or +1
func (a Amount) Cmp(b Amount) int {
	return a.value().Cmp(b.value())
}

// Max - the larger of a and b
func (a Amount) Max(b Amount) Amount {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

// SaturatingSub - a - b, zero if b > a
func (a Amount) SaturatingSub(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return Amount{}
	}
	return Amount{atto: new(big.Int).Sub(a.value(), b.value())}
}

// SaturatingMul - a * n, limited to the largest amount
func (a Amount) SaturatingMul(n uint64) Amount {
	v := new(big.Int).Mul(a.value(), new(big.Int).SetUint64(n))
	if v.Cmp(maxAmount) > 0 {
		v.Set(maxAmount)
	}
	return Amount{atto: v}
}

// Float64 - approximate value in tokens
func (a Amount) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(a.value(), scale).Float64()
	return f
}

// String - "12." for whole amounts, otherwise without trailing zeros
func (a Amount) String() string {
	q, r := new(big.Int).QuoRem(a.value(), scale, new(big.Int))
	if 0 == r.Sign() {
		return q.String() + "."
	}
	fraction := r.String()
	fraction = strings.Repeat("0", Decimals-len(fraction)) + fraction
	return q.String() + "." + strings.TrimRight(fraction, "0")
}

// MarshalJSON - as a string
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON - from a string or a bare number
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := ParseAmount(s)
	if nil != err {
		return err
	}
	*a = v
	return nil
}
