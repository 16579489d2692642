// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances for the synchronisation core
//
// Every error is a single instance of one of a small number of
// classes so callers compare with == or test the class with the IsErr
// functions rather than matching on strings
package fault
