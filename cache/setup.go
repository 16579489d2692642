// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/counter"
	"github.com/bitmark-inc/auctionsync/dedup"
	"github.com/bitmark-inc/auctionsync/fault"
)

// names of the statistics counters
const (
	StatFetches       = "fetches"
	StatLoads         = "loads"
	StatFailures      = "failures"
	StatInvalidations = "invalidations"
)

// Store - the set of domain maps
type Store struct {
	log   *logger.L
	clock func() time.Time
	group dedup.Group
	stats *counter.Stats

	ctx    context.Context
	cancel context.CancelFunc

	sync.RWMutex
	domains map[string]*domainData

	listenerLock sync.Mutex
	listeners    map[uint64]func(Change)
	nextListener uint64
}

type domainData struct {
	sync.Mutex // serialises writers, readers use the snapshot
	Domain
	entries atomic.Value // map[string]Entry
}

// Option - construction time setting
type Option func(*Store)

// WithClock - replace time.Now
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithContext - parent of the context handed to loaders
func WithContext(ctx context.Context) Option {
	return func(s *Store) {
		s.ctx = ctx
	}
}

// New - create an empty store, domains must be registered before use
func New(log *logger.L, options ...Option) *Store {
	s := &Store{
		log:       log,
		clock:     time.Now,
		ctx:       context.Background(),
		stats:     counter.NewStats(StatFetches, StatLoads, StatFailures, StatInvalidations),
		domains:   make(map[string]*domainData),
		listeners: make(map[uint64]func(Change)),
	}
	for _, option := range options {
		option(s)
	}
	s.ctx, s.cancel = context.WithCancel(s.ctx)
	return s
}

// Close - cancel the context of every running loader
//
// entries remain readable
func (s *Store) Close() {
	s.cancel()
	s.log.Info("closed")
}

// Register - add a domain
func (s *Store) Register(domain Domain) error {
	if "" == domain.Name {
		return fault.InvalidDomain
	}
	if !domain.Immutable && domain.TTL <= 0 {
		return fault.InvalidDomain
	}

	s.Lock()
	defer s.Unlock()

	if _, ok := s.domains[domain.Name]; ok {
		return fault.DomainAlreadyRegistered
	}

	d := &domainData{
		Domain: domain,
	}
	d.entries.Store(make(map[string]Entry))
	s.domains[domain.Name] = d

	if domain.Immutable {
		s.log.Infof("register domain: %q  immutable", domain.Name)
	} else {
		s.log.Infof("register domain: %q  ttl: %s", domain.Name, domain.TTL)
	}
	return nil
}

// Domains - registered domains sorted by name
func (s *Store) Domains() []Domain {
	s.RLock()
	defer s.RUnlock()

	domains := make([]Domain, 0, len(s.domains))
	for _, d := range s.domains {
		domains = append(domains, d.Domain)
	}
	sort.Slice(domains, func(i, j int) bool {
		return domains[i].Name < domains[j].Name
	})
	return domains
}

// Stats - current value of every statistics counter
func (s *Store) Stats() map[string]uint64 {
	return s.stats.Snapshot()
}

// OnChange - call listener after every committed write
//
// listeners run on the writing goroutine and must not block, the
// returned function removes the listener and may be called repeatedly
func (s *Store) OnChange(listener func(Change)) func() {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()

	s.nextListener += 1
	id := s.nextListener
	s.listeners[id] = listener

	return func() {
		s.listenerLock.Lock()
		delete(s.listeners, id)
		s.listenerLock.Unlock()
	}
}

func (s *Store) notify(changes ...Change) {
	s.listenerLock.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]func(Change), len(ids))
	for i, id := range ids {
		listeners[i] = s.listeners[id]
	}
	s.listenerLock.Unlock()

	for _, c := range changes {
		for _, l := range listeners {
			l(c)
		}
	}
}

func (s *Store) domain(name string) (*domainData, error) {
	s.RLock()
	defer s.RUnlock()

	d, ok := s.domains[name]
	if !ok {
		return nil, fault.UnknownDomain
	}
	return d, nil
}

func (s *Store) allDomains() []*domainData {
	s.RLock()
	defer s.RUnlock()

	all := make([]*domainData, 0, len(s.domains))
	for _, d := range s.domains {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

func (d *domainData) snapshot() map[string]Entry {
	return d.entries.Load().(map[string]Entry)
}

// replace entries in a copy of the current map and publish the copy
//
// update returns false to leave an entry unchanged; the change list
// holds the keys actually written
func (d *domainData) commit(keys []string, update func(e *Entry, exists bool) bool) []string {
	d.Lock()
	defer d.Unlock()

	current := d.snapshot()
	next := make(map[string]Entry, len(current)+1)
	for k, v := range current {
		next[k] = v
	}

	changed := make([]string, 0, len(keys))
	for _, key := range keys {
		e, exists := next[key]
		if !exists {
			e = Entry{Key: key}
		}
		if update(&e, exists) {
			next[key] = e
			changed = append(changed, key)
		}
	}
	if 0 != len(changed) {
		d.entries.Store(next)
	}
	return changed
}
