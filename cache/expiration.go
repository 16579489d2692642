// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"sort"
	"time"
)

// IsStale - true if the entry is missing, invalidated or older than the
// domain TTL; immutable domains never age
func (s *Store) IsStale(domain string, key string) bool {
	d, err := s.domain(domain)
	if nil != err {
		return true
	}

	e, ok := d.snapshot()[key]
	if !ok || e.Timestamp.IsZero() {
		return true
	}
	if d.Immutable {
		return false
	}
	return s.clock().Sub(e.Timestamp) > d.TTL
}

// Invalidate - zero the timestamp of the given keys, or of every entry in
// the domain if no keys are given; data is kept
//
// keys without an entry are ignored
func (s *Store) Invalidate(domain string, keys ...string) error {
	d, err := s.domain(domain)
	if nil != err {
		return err
	}
	s.invalidate(d, keys)
	return nil
}

// InvalidateAll - invalidate every entry of every domain
func (s *Store) InvalidateAll() {
	total := 0
	for _, d := range s.allDomains() {
		total += s.invalidate(d, nil)
	}
	s.log.Infof("invalidate all: %d entries", total)
}

func (s *Store) invalidate(d *domainData, keys []string) int {
	if 0 == len(keys) {
		current := d.snapshot()
		keys = make([]string, 0, len(current))
		for k := range current {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	changed := d.commit(keys, func(e *Entry, exists bool) bool {
		if !exists {
			return false
		}
		e.Timestamp = time.Time{}
		return true
	})

	s.stats.Increment(StatInvalidations)

	changes := make([]Change, len(changed))
	for i, key := range changed {
		changes[i] = Change{Domain: d.Name, Key: key, Kind: Invalidated}
	}
	s.notify(changes...)
	return len(changed)
}
