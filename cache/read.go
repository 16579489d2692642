// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"sort"
)

// Read - current entry, never performs I/O
func (s *Store) Read(domain string, key string) (Entry, bool) {
	d, err := s.domain(domain)
	if nil != err {
		return Entry{}, false
	}
	e, ok := d.snapshot()[key]
	return e, ok
}

// Keys - sorted keys of a domain
func (s *Store) Keys(domain string) []string {
	d, err := s.domain(domain)
	if nil != err {
		return nil
	}
	entries := d.snapshot()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each - call fn for every entry of one consistent snapshot of a domain,
// in key order
func (s *Store) Each(domain string, fn func(Entry)) error {
	d, err := s.domain(domain)
	if nil != err {
		return err
	}
	entries := d.snapshot()
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(entries[k])
	}
	return nil
}

// Restore - seed an entry from persistent storage
//
// the entry is stale and not marked as fetched; an existing entry is
// never overwritten.  Returns true if the entry was created.
func (s *Store) Restore(domain string, key string, data interface{}) (bool, error) {
	d, err := s.domain(domain)
	if nil != err {
		return false, err
	}

	changed := d.commit([]string{key}, func(e *Entry, exists bool) bool {
		if exists {
			return false
		}
		e.Data = data
		e.Status = Idle
		return true
	})
	if 0 == len(changed) {
		return false, nil
	}

	s.notify(Change{Domain: domain, Key: key, Kind: Restored})
	return true, nil
}
