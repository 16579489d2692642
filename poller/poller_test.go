// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package poller_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/poller"
)

const interval = 40 * time.Millisecond

func TestSharedTimer(t *testing.T) {
	p := poller.New(logger.New(category))
	defer p.Stop()

	var calls int32
	refresh := func() { atomic.AddInt32(&calls, 1) }

	unsubscribe1 := p.Subscribe("auction-summary/5", refresh, interval)
	unsubscribe2 := p.Subscribe("auction-summary/5", refresh, interval)

	assert.Equal(t, 1, p.Size(), "more than one timer created")
	assert.Equal(t, 2, p.Subscribers("auction-summary/5"), "wrong subscriber count")

	// two subscribers share a single timer so the call count is not doubled
	time.Sleep(3*interval + interval/2)
	n := atomic.LoadInt32(&calls)
	assert.True(t, n >= 2 && n <= 4, "refresh called: %d times", n)

	// one subscriber left, timer keeps running
	unsubscribe1()
	assert.True(t, p.Active("auction-summary/5"), "timer stopped with a subscriber left")
	before := atomic.LoadInt32(&calls)
	time.Sleep(2*interval + interval/2)
	assert.True(t, atomic.LoadInt32(&calls) > before, "timer stopped with a subscriber left")

	// last subscriber gone, no further calls
	unsubscribe2()
	assert.False(t, p.Active("auction-summary/5"), "timer still active")
	time.Sleep(interval / 2)
	stopped := atomic.LoadInt32(&calls)
	time.Sleep(3 * interval)
	assert.Equal(t, stopped, atomic.LoadInt32(&calls), "refresh called after last unsubscribe")
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	p := poller.New(logger.New(category))
	defer p.Stop()

	refresh := func() {}
	unsubscribe1 := p.Subscribe("k", refresh, interval)
	_ = p.Subscribe("k", refresh, interval)

	unsubscribe1()
	unsubscribe1()
	unsubscribe1()

	assert.Equal(t, 1, p.Subscribers("k"), "repeated unsubscribe decremented more than once")
	assert.True(t, p.Active("k"), "timer stopped by repeated unsubscribe")
}

func TestFirstIntervalWins(t *testing.T) {
	p := poller.New(logger.New(category))
	defer p.Stop()

	refresh := func() {}
	u1 := p.Subscribe("k", refresh, interval)
	u2 := p.Subscribe("k", refresh, 5*interval)
	defer u1()
	defer u2()

	assert.Equal(t, interval, p.Interval("k"), "later interval replaced the first")
}

func TestResubscribeAfterRelease(t *testing.T) {
	p := poller.New(logger.New(category))
	defer p.Stop()

	var calls int32
	refresh := func() { atomic.AddInt32(&calls, 1) }

	old := p.Subscribe("k", refresh, interval)
	old()

	fresh := p.Subscribe("k", refresh, 2*interval)
	assert.Equal(t, 2*interval, p.Interval("k"), "new subscription did not set interval")

	// a stale unsubscribe must not affect the new subscription
	old()
	assert.Equal(t, 1, p.Subscribers("k"), "stale unsubscribe released new subscription")

	time.Sleep(3 * interval)
	assert.True(t, atomic.LoadInt32(&calls) >= 1, "new timer not running")
	fresh()
	assert.False(t, p.Active("k"), "timer still active")
}

func TestInvalidInterval(t *testing.T) {
	p := poller.New(logger.New(category))
	defer p.Stop()

	unsubscribe := p.Subscribe("k", func() {}, 0)
	assert.False(t, p.Active("k"), "zero interval started a timer")
	unsubscribe()

	unsubscribe = p.Subscribe("k", nil, interval)
	assert.False(t, p.Active("k"), "nil refresh started a timer")
	unsubscribe()
}

func TestStop(t *testing.T) {
	p := poller.New(logger.New(category))

	var calls int32
	refresh := func() { atomic.AddInt32(&calls, 1) }
	u1 := p.Subscribe("a", refresh, interval)
	_ = p.Subscribe("b", refresh, interval)

	p.Stop()
	assert.Equal(t, 0, p.Size(), "table not emptied")

	time.Sleep(2 * interval)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "refresh called after stop")

	// harmless after stop
	u1()
}
