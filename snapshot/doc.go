// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package snapshot - persist cache entries between runs
//
// LevelDB layout:
//
//   \x00 "version"       4 byte big endian version
//   domain \x00 key      JSON {"data": ..., "saved": time}
//
// restored entries are stale, so the first read after a restart shows
// the saved value while a fresh one is fetched.
package snapshot
