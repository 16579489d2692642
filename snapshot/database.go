// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/fault"
)

const currentVersion = 1

var versionKey = []byte("\x00version")

const separator = '\x00'

// Decoder - rebuild the value of a domain from its saved JSON
type Decoder func(data json.RawMessage) (interface{}, error)

type record struct {
	Data  json.RawMessage `json:"data"`
	Saved time.Time       `json:"saved"`
}

// Database - an open snapshot
type Database struct {
	sync.Mutex
	log *logger.L
	db  *leveldb.DB
}

// Open - open or create a snapshot database
func Open(log *logger.L, name string, readOnly bool) (*Database, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		if !readOnly {
			v := make([]byte, 4)
			binary.BigEndian.PutUint32(v, currentVersion)
			err = db.Put(versionKey, v, nil)
		} else {
			err = nil
		}
	} else if nil == err && 4 != len(versionValue) {
		err = fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	} else if nil == err {
		if version := binary.BigEndian.Uint32(versionValue); currentVersion != version {
			err = fmt.Errorf("database version: %d  current version: %d", version, currentVersion)
		}
	}
	if nil != err {
		db.Close()
		return nil, err
	}

	log.Infof("opened: %s  read only: %t", name, readOnly)
	return &Database{
		log: log,
		db:  db,
	}, nil
}

// Close - close the database, later calls fail with NotInitialised
func (d *Database) Close() {
	d.Lock()
	defer d.Unlock()

	if nil != d.db {
		d.db.Close()
		d.db = nil
		d.log.Info("closed")
	}
}

func makeKey(domain string, key string) []byte {
	k := make([]byte, 0, len(domain)+1+len(key))
	k = append(k, domain...)
	k = append(k, separator)
	return append(k, key...)
}

func splitKey(k []byte) (string, string, bool) {
	i := bytes.IndexByte(k, separator)
	if i <= 0 {
		return "", "", false
	}
	return string(k[:i]), string(k[i+1:]), true
}

// Save - write every entry that holds data, returns the number written
func (d *Database) Save(store *cache.Store) (int, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return 0, fault.NotInitialised
	}

	now := time.Now().UTC()
	batch := new(leveldb.Batch)
	for _, domain := range store.Domains() {
		err := store.Each(domain.Name, func(e cache.Entry) {
			if !e.HasData() {
				return
			}
			data, err := json.Marshal(e.Data)
			if nil != err {
				d.log.Warnf("save: %s/%s  error: %s", domain.Name, e.Key, err)
				return
			}
			saved := e.Timestamp
			if saved.IsZero() {
				saved = now
			}
			value, err := json.Marshal(record{Data: data, Saved: saved})
			if nil != err {
				d.log.Warnf("save: %s/%s  error: %s", domain.Name, e.Key, err)
				return
			}
			batch.Put(makeKey(domain.Name, e.Key), value)
		})
		if nil != err {
			return 0, err
		}
	}

	err := d.db.Write(batch, &ldb_opt.WriteOptions{Sync: true})
	if nil != err {
		return 0, err
	}
	d.log.Debugf("saved: %d entries", batch.Len())
	return batch.Len(), nil
}

// Restore - seed the store from saved entries, returns the number
// restored
//
// records of unregistered domains, domains without a decoder and
// undecodable records are logged and skipped; entries already present in
// the store are kept
func (d *Database) Restore(store *cache.Store, decoders map[string]Decoder) (int, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return 0, fault.NotInitialised
	}

	iter := d.db.NewIterator(nil, nil)
	defer iter.Release()

	restored := 0
	for iter.Next() {
		if bytes.Equal(versionKey, iter.Key()) {
			continue
		}
		domain, key, ok := splitKey(iter.Key())
		if !ok {
			d.log.Warnf("restore: malformed key: %x", iter.Key())
			continue
		}

		decoder, ok := decoders[domain]
		if !ok {
			d.log.Debugf("restore: %s/%s  no decoder", domain, key)
			continue
		}

		var r record
		if err := json.Unmarshal(iter.Value(), &r); nil != err {
			d.log.Warnf("restore: %s/%s  error: %s", domain, key, err)
			continue
		}
		data, err := decoder(r.Data)
		if nil != err {
			d.log.Warnf("restore: %s/%s  decode error: %s", domain, key, err)
			continue
		}

		created, err := store.Restore(domain, key, data)
		if nil != err {
			d.log.Warnf("restore: %s/%s  error: %s", domain, key, err)
			continue
		}
		if created {
			restored += 1
			d.log.Tracef("restore: %s/%s  saved: %s", domain, key, r.Saved)
		}
	}
	if err := iter.Error(); nil != err {
		return restored, err
	}

	d.log.Infof("restored: %d entries", restored)
	return restored, nil
}

// Count - number of saved entries
func (d *Database) Count() (int, error) {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return 0, fault.NotInitialised
	}

	iter := d.db.NewIterator(nil, nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		if !bytes.Equal(versionKey, iter.Key()) {
			n += 1
		}
	}
	return n, iter.Error()
}
