// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/background"
)

type bg1 struct {
	count int
	final int
}

const (
	initialCount1 = 246
	finalCount1   = 987654321
	initialCount2 = 777
	finalCount2   = 897645312
)

func TestBackground(t *testing.T) {

	proc1 := &bg1{
		count: initialCount1,
		final: finalCount1,
	}
	proc2 := &bg1{
		count: initialCount2,
		final: finalCount2,
	}

	// list of background processes to start
	var processes = background.Processes{
		proc1,
		proc2,
	}

	p := background.Start(processes, t)
	time.Sleep(50 * time.Millisecond)
	p.Stop()

	assert.Equal(t, finalCount1, proc1.count, "stop failed for process 1")
	assert.Equal(t, finalCount2, proc2.count, "stop failed for process 2")
	assert.True(t, p.Stopped(), "not marked as stopped")
}

func TestStopTwice(t *testing.T) {
	p := background.Start(background.Processes{&bg1{final: 1}}, t)
	p.Stop()
	p.Stop()
	assert.True(t, p.Stopped(), "not marked as stopped")
}

func TestStopNil(t *testing.T) {
	var p *background.T
	p.Stop()
}

func (state *bg1) Run(args interface{}, shutdown <-chan struct{}) {

	t := args.(*testing.T)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}
		state.count += 9
		t.Logf("state: %v", state)
		time.Sleep(time.Millisecond)
	}

	// test for the stop operation
	state.count = state.final
}
