// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/debounce"
)

const delay = 30 * time.Millisecond

func TestOneShotFiresOnce(t *testing.T) {
	var n int32
	d := debounce.New(delay, func() { atomic.AddInt32(&n, 1) })

	assert.False(t, d.Active(), "armed before start")
	assert.True(t, d.Start(), "start did not arm")
	assert.True(t, d.Active(), "not armed after start")

	time.Sleep(3 * delay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&n), "wrong number of firings")
	assert.False(t, d.Active(), "still armed after firing")
}

func TestStartDoesNotExtend(t *testing.T) {
	var n int32
	d := debounce.New(delay, func() { atomic.AddInt32(&n, 1) })

	assert.True(t, d.Start(), "first start did not arm")
	time.Sleep(delay / 2)
	assert.False(t, d.Start(), "second start re-armed")

	time.Sleep(delay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&n), "start extended the deadline")
}

func TestResetCollapsesBurst(t *testing.T) {
	var n int32
	d := debounce.New(delay, func() { atomic.AddInt32(&n, 1) })

	for i := 0; i < 5; i += 1 {
		d.Reset()
		time.Sleep(delay / 3)
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&n), "fired during burst")

	time.Sleep(3 * delay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&n), "burst not collapsed to one firing")
}

func TestCancel(t *testing.T) {
	var n int32
	d := debounce.New(delay, func() { atomic.AddInt32(&n, 1) })

	assert.False(t, d.Cancel(), "cancel of idle timer reported armed")
	d.Start()
	assert.True(t, d.Cancel(), "cancel of armed timer reported idle")

	time.Sleep(3 * delay)
	assert.Equal(t, int32(0), atomic.LoadInt32(&n), "fired after cancel")
}

func TestPeriodic(t *testing.T) {
	var n int32
	d := debounce.NewPeriodic(delay, func() { atomic.AddInt32(&n, 1) })

	d.Start()
	time.Sleep(delay*4 + delay/2)
	d.Cancel()
	fired := atomic.LoadInt32(&n)
	assert.True(t, fired >= 2 && fired <= 5, "unexpected number of periodic firings: %d", fired)

	time.Sleep(3 * delay)
	assert.Equal(t, fired, atomic.LoadInt32(&n), "fired after cancel")
	assert.False(t, d.Active(), "still armed after cancel")
}

func TestPeriodicCancelDuringCallback(t *testing.T) {
	var n int32
	var d *debounce.Timer
	d = debounce.NewPeriodic(delay, func() {
		atomic.AddInt32(&n, 1)
		d.Cancel()
	})

	d.Start()
	time.Sleep(4 * delay)
	assert.Equal(t, int32(1), atomic.LoadInt32(&n), "re-armed after cancel inside callback")
}
