// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package poller - reference counted periodic refresh per key
//
// the first subscriber for a key starts a timer, later subscribers share
// it and the last unsubscribe stops it.  The interval is fixed by the
// first subscriber; an interval supplied by a later subscriber is ignored.
package poller

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/debounce"
)

// Unsubscribe - release one subscription, calling it again is a no-op
type Unsubscribe func()

// Poller - the subscription table
type Poller struct {
	sync.Mutex
	log           *logger.L
	subscriptions map[string]*subscription
}

type subscription struct {
	timer       *debounce.Timer
	subscribers int
	interval    time.Duration
}

// New - create an empty subscription table
func New(log *logger.L) *Poller {
	return &Poller{
		log:           log,
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe - call refresh every interval until unsubscribed
//
// refresh must not block for long; it normally starts a deduplicated
// cache fetch
func (p *Poller) Subscribe(key string, refresh func(), interval time.Duration) Unsubscribe {

	if interval <= 0 || nil == refresh {
		p.log.Errorf("subscribe: %q rejected, interval: %s  refresh set: %t", key, interval, nil != refresh)
		return func() {}
	}

	p.Lock()
	defer p.Unlock()

	s, ok := p.subscriptions[key]
	if ok {
		s.subscribers += 1
		if interval != s.interval {
			// first subscriber wins, kept deliberately
			p.log.Debugf("subscribe: %q interval: %s ignored, timer runs every: %s", key, interval, s.interval)
		}
		p.log.Tracef("subscribe: %q subscribers: %d", key, s.subscribers)
	} else {
		s = &subscription{
			timer:       debounce.NewPeriodic(interval, refresh),
			subscribers: 1,
			interval:    interval,
		}
		p.subscriptions[key] = s
		s.timer.Start()
		p.log.Debugf("subscribe: %q start timer every: %s", key, interval)
	}

	released := false
	return func() {
		p.Lock()
		defer p.Unlock()

		if released {
			return
		}
		released = true
		p.release(key, s)
	}
}

// must hold lock
func (p *Poller) release(key string, s *subscription) {

	if current, ok := p.subscriptions[key]; !ok || current != s {
		return
	}

	s.subscribers -= 1
	if s.subscribers > 0 {
		p.log.Tracef("unsubscribe: %q subscribers: %d", key, s.subscribers)
		return
	}

	s.timer.Cancel()
	delete(p.subscriptions, key)
	p.log.Debugf("unsubscribe: %q stop timer", key)
}

// Active - true if a timer is running for key
func (p *Poller) Active(key string) bool {
	p.Lock()
	defer p.Unlock()
	_, ok := p.subscriptions[key]
	return ok
}

// Subscribers - current subscriber count for key
func (p *Poller) Subscribers(key string) int {
	p.Lock()
	defer p.Unlock()
	if s, ok := p.subscriptions[key]; ok {
		return s.subscribers
	}
	return 0
}

// Interval - the interval in force for key, zero if not subscribed
func (p *Poller) Interval(key string) time.Duration {
	p.Lock()
	defer p.Unlock()
	if s, ok := p.subscriptions[key]; ok {
		return s.interval
	}
	return 0
}

// Size - number of keys being polled
func (p *Poller) Size() int {
	p.Lock()
	defer p.Unlock()
	return len(p.subscriptions)
}

// Stop - cancel every timer and empty the table
//
// outstanding Unsubscribe functions become no-ops
func (p *Poller) Stop() {
	p.Lock()
	defer p.Unlock()

	for key, s := range p.subscriptions {
		s.timer.Cancel()
		delete(p.subscriptions, key)
	}
	p.log.Info("stopped")
}
