// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package synchronise

import (
	"sort"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/debounce"
	"github.com/bitmark-inc/auctionsync/fault"
)

// DefaultSettleDelay - quiet period after the last notification
const DefaultSettleDelay = 2 * time.Second

// Invalidator - the global refetch operation of the cache
type Invalidator interface {
	InvalidateAll()
}

// Source - something that says "the ledger moved", with no payload
type Source interface {
	OnNotification(handler func()) (cancel func())
}

// StateListener - called when a connection changes between syncing and
// settled
type StateListener func(name string, syncing bool)

// ConnectionStatus - counters for one tracked connection
type ConnectionStatus struct {
	Name          string
	Syncing       bool
	Settled       bool // initial sync has completed
	Notifications uint64
	Settles       uint64
	Invalidations uint64
}

// Controller - per connection sync state
type Controller struct {
	sync.Mutex
	log         *logger.L
	invalidator Invalidator
	settleDelay time.Duration
	connections map[string]*connection
	stopped     bool

	listenerLock sync.Mutex
	listeners    map[uint64]StateListener
	nextListener uint64
}

type connection struct {
	name        string
	syncing     bool
	initialDone bool // one-shot latch, set by the first settle
	timer       *debounce.Timer
	cancel      func()

	notifications uint64
	settles       uint64
	invalidations uint64
}

// New - create a controller
//
// a non-positive settle delay selects DefaultSettleDelay
func New(log *logger.L, invalidator Invalidator, settleDelay time.Duration) *Controller {
	if settleDelay <= 0 {
		settleDelay = DefaultSettleDelay
	}
	log.Infof("settle delay: %s", settleDelay)
	return &Controller{
		log:         log,
		invalidator: invalidator,
		settleDelay: settleDelay,
		connections: make(map[string]*connection),
		listeners:   make(map[uint64]StateListener),
	}
}

// SettleDelay - the debounce period
func (c *Controller) SettleDelay() time.Duration {
	return c.settleDelay
}

// Track - start observing a connection
func (c *Controller) Track(name string, source Source) error {
	if "" == name {
		return fault.InvalidKey
	}
	if nil == source {
		return fault.InvalidSource
	}

	c.Lock()
	if c.stopped {
		c.Unlock()
		return fault.Stopped
	}
	if _, ok := c.connections[name]; ok {
		c.Unlock()
		return fault.ConnectionAlreadyTracked
	}

	conn := &connection{
		name: name,
	}
	conn.timer = debounce.New(c.settleDelay, func() {
		c.settle(name)
	})
	c.connections[name] = conn
	c.Unlock()

	// outside the lock, a source may deliver immediately
	cancel := source.OnNotification(func() {
		_ = c.Notify(name)
	})

	c.Lock()
	if c.stopped {
		c.Unlock()
		if nil != cancel {
			cancel()
		}
		return fault.Stopped
	}
	conn.cancel = cancel
	c.Unlock()

	c.log.Infof("track: %q", name)
	return nil
}

// Notify - record a notification for a connection
func (c *Controller) Notify(name string) error {
	c.Lock()
	if c.stopped {
		c.Unlock()
		return fault.Stopped
	}
	conn, ok := c.connections[name]
	if !ok {
		c.Unlock()
		c.log.Warnf("notify: %q unknown connection", name)
		return fault.UnknownConnection
	}

	conn.notifications += 1
	started := !conn.syncing
	conn.syncing = true
	conn.timer.Reset()
	c.Unlock()

	if started {
		c.log.Debugf("%q: syncing", name)
		c.stateChanged(name, true)
	} else {
		c.log.Tracef("%q: settle timer extended", name)
	}
	return nil
}

// called from the settle timer
func (c *Controller) settle(name string) {
	c.Lock()
	conn, ok := c.connections[name]
	if !ok || c.stopped || !conn.syncing {
		c.Unlock()
		return
	}

	// a notification re-armed the timer after this firing was
	// released, the newer firing settles
	if conn.timer.Active() {
		c.Unlock()
		return
	}

	conn.syncing = false
	conn.settles += 1
	initial := !conn.initialDone
	conn.initialDone = true
	if !initial {
		conn.invalidations += 1
	}
	c.Unlock()

	c.stateChanged(name, false)

	if initial {
		c.log.Infof("%q: initial sync settled, invalidation suppressed", name)
		return
	}

	c.log.Infof("%q: settled, invalidate all", name)
	c.invalidator.InvalidateAll()
}

// IsSyncing - true if any connection is syncing
func (c *Controller) IsSyncing() bool {
	c.Lock()
	defer c.Unlock()

	for _, conn := range c.connections {
		if conn.syncing {
			return true
		}
	}
	return false
}

// IsConnectionSyncing - state of one connection
func (c *Controller) IsConnectionSyncing(name string) (bool, error) {
	c.Lock()
	defer c.Unlock()

	conn, ok := c.connections[name]
	if !ok {
		return false, fault.UnknownConnection
	}
	return conn.syncing, nil
}

// Status - counters of every connection sorted by name
func (c *Controller) Status() []ConnectionStatus {
	c.Lock()
	defer c.Unlock()

	status := make([]ConnectionStatus, 0, len(c.connections))
	for _, conn := range c.connections {
		status = append(status, ConnectionStatus{
			Name:          conn.name,
			Syncing:       conn.syncing,
			Settled:       conn.initialDone,
			Notifications: conn.notifications,
			Settles:       conn.settles,
			Invalidations: conn.invalidations,
		})
	}
	sort.Slice(status, func(i, j int) bool {
		return status[i].Name < status[j].Name
	})
	return status
}

// OnStateChange - add a listener, the returned function removes it and
// may be called repeatedly
//
// listeners run on the timer or notifying goroutine and must not block
func (c *Controller) OnStateChange(listener StateListener) func() {
	c.listenerLock.Lock()
	defer c.listenerLock.Unlock()

	c.nextListener += 1
	id := c.nextListener
	c.listeners[id] = listener

	return func() {
		c.listenerLock.Lock()
		delete(c.listeners, id)
		c.listenerLock.Unlock()
	}
}

func (c *Controller) stateChanged(name string, syncing bool) {
	c.listenerLock.Lock()
	ids := make([]uint64, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]StateListener, len(ids))
	for i, id := range ids {
		listeners[i] = c.listeners[id]
	}
	c.listenerLock.Unlock()

	for _, l := range listeners {
		l(name, syncing)
	}
}

// Stop - cancel every settle timer and source subscription
//
// pending settles are discarded, so no invalidation happens after Stop
func (c *Controller) Stop() {
	c.Lock()
	if c.stopped {
		c.Unlock()
		return
	}
	c.stopped = true
	connections := make([]*connection, 0, len(c.connections))
	for _, conn := range c.connections {
		conn.timer.Cancel()
		connections = append(connections, conn)
	}
	c.Unlock()

	for _, conn := range connections {
		if nil != conn.cancel {
			conn.cancel()
		}
	}
	c.log.Info("stopped")
}
