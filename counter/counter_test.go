// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/counter"
)

// test incrementing/decrementing a counter
func TestCounter(t *testing.T) {

	var c1 counter.Counter

	if !c1.IsZero() {
		t.Errorf("counter is not zero at start: %d", c1.Uint64())
	}

	c1.Increment()
	c1.Increment()
	c1.Increment()

	if 3 != c1.Uint64() {
		t.Errorf("counter is not 3 after incrementing: %d", c1.Uint64())
	}

	c1.Decrement()
	c1.Decrement()
	c1.Decrement()

	if !c1.IsZero() {
		t.Errorf("counter did not return to zero: %d", c1.Uint64())
	}

	c1.Decrement()

	// check against underflow, i.e. twos complement -1
	if ^uint64(0) != c1.Uint64() {
		t.Errorf("counter did not underflow: %d", c1.Uint64())
	}
}

func TestStats(t *testing.T) {
	s := counter.NewStats("loads", "failures")

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Increment("loads")
		}()
	}
	wg.Wait()

	s.Increment("failures")
	s.Increment("no-such-counter")

	assert.Equal(t, uint64(workers), s.Get("loads"), "wrong load count")
	assert.Equal(t, uint64(1), s.Get("failures"), "wrong failure count")
	assert.Equal(t, uint64(0), s.Get("no-such-counter"), "unknown counter created")
	assert.Equal(t, []string{"failures", "loads"}, s.Names(), "wrong names")
	assert.Equal(t, map[string]uint64{"loads": workers, "failures": 1}, s.Snapshot(), "wrong snapshot")
}
