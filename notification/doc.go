// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package notification - sources of "the ledger moved" signals
//
// a Subscriber listens on a ZeroMQ SUB socket to a ledger node's
// publisher.  Messages are multipart:
//
//   [0] chain id
//   [1] event name
//   [2...] opaque payload
//
// the payload is only used to recognise repeats: an announcement with
// the same chain, event and payload digest seen again inside the
// suppression window is dropped.  Everything else calls every handler.
//
// Manual is a source driven by calls to Notify.
package notification
