// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cache maintains the normalised memory store of ledger data
//
//  ***** Data Structure *****
//
//  Store                      Key                     Value          TTL
//  |___ <domain>              compound key            Entry          per domain
//  |___ <domain>              compound key            Entry          never (immutable)
//  |___ ...
//
//  Entry
//  |___ Data       last known good value, only replaced by a successful fetch
//  |___ Status     idle | loading | success | error
//  |___ Timestamp  time of last success, zero after invalidation
//  |___ Err        last failure, kept alongside stale Data
//
//  ***** Rules *****
//
//  entries are created by the first fetch for a key (or a restore) and
//  are never deleted, maps only grow
//
//  each domain map is an immutable snapshot, every write copies the map
//  and replaces it so a reader never sees a partially updated entry
//
//  fetches for the same domain/key are coalesced so at most one loader
//  call per key is in flight
//
//  invalidation only zeroes Timestamp, Data and Err are untouched
package cache
