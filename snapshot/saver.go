// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snapshot

import (
	"time"

	"github.com/bitmark-inc/auctionsync/cache"
)

// DefaultSaveInterval - period of the background saver
const DefaultSaveInterval = 5 * time.Minute

// Saver - background process saving the store periodically and once
// more at shutdown
type Saver struct {
	database *Database
	store    *cache.Store
	interval time.Duration
}

// NewSaver - a non-positive interval selects DefaultSaveInterval
func NewSaver(database *Database, store *cache.Store, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = DefaultSaveInterval
	}
	return &Saver{
		database: database,
		store:    store,
		interval: interval,
	}
}

// Run - background.Process
func (s *Saver) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.database.log
	log.Infof("saver starting, interval: %s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			if _, err := s.database.Save(s.store); nil != err {
				log.Errorf("periodic save error: %s", err)
			}
		}
	}

	n, err := s.database.Save(s.store)
	if nil != err {
		log.Errorf("final save error: %s", err)
		return
	}
	log.Infof("saver stopped, final save: %d entries", n)
}
