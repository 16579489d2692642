// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// DefaultWindow - how long an announcement is remembered
const DefaultWindow = 10 * time.Second

// Filter - drops announcements already seen inside the window
type Filter struct {
	window time.Duration
	seen   *cache.Cache
}

// NewFilter - a non-positive window selects DefaultWindow
func NewFilter(window time.Duration) *Filter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Filter{
		window: window,
		seen:   cache.New(window, 2*window),
	}
}

// Window - the suppression window
func (f *Filter) Window() time.Duration {
	return f.window
}

// Fresh - true the first time an announcement is offered inside the
// window, false for repeats
func (f *Filter) Fresh(chain string, event string, payload [][]byte) bool {
	return nil == f.seen.Add(Identifier(chain, event, payload), struct{}{}, cache.DefaultExpiration)
}

// Size - number of remembered announcements, including expired ones not
// yet cleaned up
func (f *Filter) Size() int {
	return f.seen.ItemCount()
}

// Identifier - chain/event/digest of the payload frames
func Identifier(chain string, event string, payload [][]byte) string {
	h := sha256.New()
	for _, frame := range payload {
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(frame)))
		h.Write(size[:])
		h.Write(frame)
	}
	return chain + "/" + event + "/" + hex.EncodeToString(h.Sum(nil))
}
