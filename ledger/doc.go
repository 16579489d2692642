// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - GraphQL queries against the ledger node service
//
// application URLs have the form:
//
//   <node>/chains/<chain id>/applications/<application id>
//
// the indexer application serves auction summaries and bid history, the
// auction application serves per user data and the fungible token
// applications serve balances.  Every query is rate limited; the HTTP
// client timeout is the only request timeout.
package ledger
