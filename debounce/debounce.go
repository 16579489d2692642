// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package debounce - a restartable timer with start, reset and cancel
//
// a one-shot timer calls its function once per arming; a periodic timer
// keeps calling it every delay until cancelled.  A firing that races
// with Cancel or Reset and loses never calls the function.
package debounce

import (
	"sync"
	"time"
)

// Timer - handle for a debounced or periodic function
type Timer struct {
	sync.Mutex
	delay      time.Duration
	fn         func()
	periodic   bool
	armed      bool
	generation uint64
	timer      *time.Timer
}

// New - one-shot timer, not armed until Start or Reset
func New(delay time.Duration, fn func()) *Timer {
	return &Timer{
		delay: delay,
		fn:    fn,
	}
}

// NewPeriodic - repeating timer, not armed until Start or Reset
//
// the next period starts after fn returns so calls never overlap
func NewPeriodic(delay time.Duration, fn func()) *Timer {
	return &Timer{
		delay:    delay,
		fn:       fn,
		periodic: true,
	}
}

// Start - arm the timer unless it is already armed
//
// returns true if this call armed it
func (t *Timer) Start() bool {
	t.Lock()
	defer t.Unlock()

	if t.armed {
		return false
	}
	t.arm()
	return true
}

// Reset - cancel any pending firing and arm again from now
func (t *Timer) Reset() {
	t.Lock()
	defer t.Unlock()

	t.disarm()
	t.arm()
}

// Cancel - disarm the timer
//
// returns true if it was armed
func (t *Timer) Cancel() bool {
	t.Lock()
	defer t.Unlock()

	wasArmed := t.armed
	t.disarm()
	return wasArmed
}

// Active - true while armed
func (t *Timer) Active() bool {
	t.Lock()
	defer t.Unlock()
	return t.armed
}

// Delay - the configured delay
func (t *Timer) Delay() time.Duration {
	return t.delay
}

// must hold lock
func (t *Timer) arm() {
	t.generation += 1
	generation := t.generation
	t.armed = true
	t.timer = time.AfterFunc(t.delay, func() {
		t.fire(generation)
	})
}

// must hold lock
func (t *Timer) disarm() {
	if nil != t.timer {
		t.timer.Stop()
		t.timer = nil
	}
	t.generation += 1
	t.armed = false
}

func (t *Timer) fire(generation uint64) {
	t.Lock()
	if !t.armed || generation != t.generation {
		t.Unlock()
		return
	}
	if !t.periodic {
		t.armed = false
		t.timer = nil
	}
	t.Unlock()

	t.fn()

	if !t.periodic {
		return
	}

	t.Lock()
	if t.armed && generation == t.generation {
		t.arm()
	}
	t.Unlock()
}
