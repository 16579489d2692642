// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a bounded queue for events raised on goroutines
// that must not block, such as cache change listeners, and consumed by
// a background process
package messagebus
