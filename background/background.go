// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - start and stop a set of long running goroutines
//
// each process receives a shutdown channel that is closed by Stop and
// Stop does not return until every process has returned from Run
package background

import (
	"sync"
)

// Process - type signature for background process
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle type
type T struct {
	sync.Mutex
	shutdown chan struct{}
	wg       sync.WaitGroup
	stopped  bool
}

// Start - start up a set of background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		shutdown: make(chan struct{}),
	}

	for _, p := range processes {
		register.wg.Add(1)
		go func(p Process) {
			defer register.wg.Done()
			p.Run(args, register.shutdown)
		}(p)
	}
	return register
}

// Stop - stop a set of background processes
//
// a second call is a no-op
func (t *T) Stop() {
	if nil == t {
		return
	}

	t.Lock()
	if t.stopped {
		t.Unlock()
		return
	}
	t.stopped = true
	close(t.shutdown)
	t.Unlock()

	t.wg.Wait()
}

// Stopped - true once Stop has been called
func (t *T) Stopped() bool {
	t.Lock()
	defer t.Unlock()
	return t.stopped
}
