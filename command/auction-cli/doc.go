// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// auction-cli - query the auction indexer and print JSON
//
// every command reads through a cache binding, so the output is what a
// monitor would hold for the same item.  The node and application ids
// can be given as flags or in the environment:
//
//   AUCTION_NODE, AUCTION_INDEXER_CHAIN, AUCTION_INDEXER_APP,
//   AUCTION_CHAIN, AUCTION_APP, AUCTION_VIEWER_CHAIN
package main
