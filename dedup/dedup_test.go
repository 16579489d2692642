// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dedup_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/dedup"
	"github.com/bitmark-inc/auctionsync/fault"
)

func TestConcurrentCallsShareOneExecution(t *testing.T) {
	var g dedup.Group

	release := make(chan struct{})
	var invocations int32

	op := func() (interface{}, error) {
		atomic.AddInt32(&invocations, 1)
		<-release
		return "value", nil
	}

	const callers = 10
	results := make([]interface{}, callers)
	errs := make([]error, callers)

	var started sync.WaitGroup
	var wg sync.WaitGroup
	for i := 0; i < callers; i += 1 {
		started.Add(1)
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			started.Done()
			results[n], errs[n] = g.Do(context.Background(), "auction/5", op)
		}(i)
	}
	started.Wait()

	// let every caller reach the pending operation
	time.Sleep(20 * time.Millisecond)
	assert.True(t, g.Pending("auction/5"), "operation not pending")
	assert.Equal(t, 1, g.Size(), "wrong number of pending operations")

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&invocations), "operation invoked more than once")
	for i := 0; i < callers; i += 1 {
		assert.Nil(t, errs[i], "unexpected error")
		assert.Equal(t, "value", results[i], "wrong result")
	}
	assert.False(t, g.Pending("auction/5"), "key not removed after settlement")
	assert.Equal(t, 0, g.Size(), "registry not empty")
	assert.Equal(t, uint64(callers), g.Calls(), "wrong call count")
	assert.Equal(t, uint64(1), g.Executions(), "wrong execution count")
}

func TestFailureIsSharedAndCleared(t *testing.T) {
	var g dedup.Group

	failure := errors.New("network down")
	release := make(chan struct{})
	var invocations int32

	op := func() (interface{}, error) {
		atomic.AddInt32(&invocations, 1)
		<-release
		return nil, failure
	}

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range errs {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = g.Do(context.Background(), "k", op)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, err := range errs {
		assert.Equal(t, failure, err, "wrong error")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&invocations), "operation invoked more than once")

	// the next call starts a fresh operation
	v, err := g.Do(context.Background(), "k", func() (interface{}, error) {
		atomic.AddInt32(&invocations, 1)
		return 42, nil
	})
	assert.Nil(t, err, "unexpected error")
	assert.Equal(t, 42, v, "wrong value")
	assert.Equal(t, int32(2), atomic.LoadInt32(&invocations), "fresh operation not started")
}

func TestDistinctKeysRunIndependently(t *testing.T) {
	var g dedup.Group

	var invocations int32
	op := func() (interface{}, error) {
		atomic.AddInt32(&invocations, 1)
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	}

	var wg sync.WaitGroup
	for _, key := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(k string) {
			defer wg.Done()
			_, _ = g.Do(context.Background(), k, op)
		}(key)
	}
	wg.Wait()

	assert.Equal(t, int32(3), atomic.LoadInt32(&invocations), "distinct keys were coalesced")
}

func TestCancelledWaiterDoesNotCancelOperation(t *testing.T) {
	var g dedup.Group

	release := make(chan struct{})
	done := make(chan interface{}, 1)

	op := func() (interface{}, error) {
		<-release
		return "late", nil
	}

	go func() {
		v, _ := g.Do(context.Background(), "slow", op)
		done <- v
	}()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Do(ctx, "slow", op)
	assert.Equal(t, context.Canceled, err, "cancelled waiter not released")

	close(release)
	assert.Equal(t, "late", <-done, "shared operation was disturbed")
}

func TestPanicBecomesError(t *testing.T) {
	var g dedup.Group

	_, err := g.Do(context.Background(), "boom", func() (interface{}, error) {
		panic("loader exploded")
	})
	assert.True(t, errors.Is(err, fault.LoaderPanicked), "panic not converted: %v", err)
	assert.False(t, g.Pending("boom"), "key left pending after panic")
}
