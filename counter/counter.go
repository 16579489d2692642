// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package counter - lock free counters for fetch and request statistics
package counter

import (
	"sort"
	"sync/atomic"
)

// Counter - type to denote a counter that can be synchronously increments or decremented
// just a 64 bit unsigned integer
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// IsZero - check if zero
func (ic *Counter) IsZero() bool {
	return 0 == ic.Uint64()
}

// Stats - a fixed set of named counters
//
// the names are fixed at creation so lookups need no locking
type Stats struct {
	counters map[string]*Counter
}

// NewStats - create a counter for each name
func NewStats(names ...string) *Stats {
	s := &Stats{
		counters: make(map[string]*Counter, len(names)),
	}
	for _, name := range names {
		s.counters[name] = new(Counter)
	}
	return s
}

// Increment - add one to a named counter, unknown names are ignored
func (s *Stats) Increment(name string) {
	if c, ok := s.counters[name]; ok {
		c.Increment()
	}
}

// Get - value of a named counter, zero for unknown names
func (s *Stats) Get(name string) uint64 {
	if c, ok := s.counters[name]; ok {
		return c.Uint64()
	}
	return 0
}

// Names - sorted list of counter names
func (s *Stats) Names() []string {
	names := make([]string, 0, len(s.counters))
	for name := range s.counters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot - copy of all counter values
func (s *Stats) Snapshot() map[string]uint64 {
	m := make(map[string]uint64, len(s.counters))
	for name, c := range s.counters {
		m[name] = c.Uint64()
	}
	return m
}
