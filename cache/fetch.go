// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/auctionsync/fault"
)

// Fetch - load a fresh value for domain/key and record the outcome
//
// concurrent fetches of the same domain/key share one loader call.  The
// entry is marked loading (data kept); success replaces data and
// timestamp and clears the error, failure records a FetchFailure and
// keeps data.  The returned error is the shared outcome; cancelling ctx
// only stops this caller waiting.
func (s *Store) Fetch(ctx context.Context, domain string, key string, loader Loader) error {
	d, err := s.domain(domain)
	if nil != err {
		return err
	}
	if nil == loader {
		return fault.MissingLoader
	}

	s.stats.Increment(StatFetches)

	_, err = s.group.Do(ctx, domain+"/"+key, func() (interface{}, error) {
		return nil, s.load(d, key, loader)
	})
	return err
}

// Fetching - true while a loader call for domain/key is in flight
func (s *Store) Fetching(domain string, key string) bool {
	return s.group.Pending(domain + "/" + key)
}

// runs once per pending window, inside the deduplicator
func (s *Store) load(d *domainData, key string, loader Loader) error {

	d.commit([]string{key}, func(e *Entry, _ bool) bool {
		e.Status = Loading
		return true
	})
	s.notify(Change{Domain: d.Name, Key: key, Kind: Fetching})

	s.stats.Increment(StatLoads)
	s.log.Tracef("load: %s/%s", d.Name, key)

	data, err := callLoader(s.ctx, loader)

	if nil != err {
		failure := &FetchFailure{
			Domain: d.Name,
			Key:    key,
			Err:    err,
		}
		d.commit([]string{key}, func(e *Entry, _ bool) bool {
			e.Status = Error
			e.Err = failure
			return true
		})
		s.stats.Increment(StatFailures)
		s.log.Warnf("load: %s/%s  error: %s", d.Name, key, err)
		s.notify(Change{Domain: d.Name, Key: key, Kind: Failed})
		return failure
	}

	now := s.clock()
	d.commit([]string{key}, func(e *Entry, _ bool) bool {
		e.Data = data
		e.Timestamp = now
		e.Err = nil
		e.Status = Success
		e.Fetched = true
		return true
	})
	s.log.Debugf("load: %s/%s  stored", d.Name, key)
	s.notify(Change{Domain: d.Name, Key: key, Kind: Stored})
	return nil
}

func callLoader(ctx context.Context, loader Loader) (data interface{}, err error) {
	defer func() {
		if r := recover(); nil != r {
			data = nil
			err = fmt.Errorf("%w: %v", fault.LoaderPanicked, r)
		}
	}()
	return loader(ctx)
}
