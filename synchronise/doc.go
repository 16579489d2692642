// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package synchronise - turn bursts of ledger notifications into cache
// invalidation
//
// each tracked connection is either settled or syncing:
//
//   settled --notification--> syncing       (settle timer reset)
//   syncing --notification--> syncing       (settle timer reset)
//   syncing --timer fires---> settled       (invalidate all)
//
// the first syncing to settled transition of every connection does not
// invalidate, it is the initial catch up and the cache is still being
// filled for the first time.
//
// the controller as a whole is syncing if any connection is syncing.
package synchronise
