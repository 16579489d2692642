// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// auction-monitor - keep a set of auctions and balances fresh
//
// the monitor subscribes to the ledger notification publishers listed in
// the configuration file, invalidates its cache whenever a connection
// settles after a burst of notifications, polls the watched items and
// logs every change.  The cache is saved to a LevelDB snapshot on
// shutdown and restored at start.
//
// the watch list is reloaded when the configuration file is modified.
package main
