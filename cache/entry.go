// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/auctionsync/fault"
)

// Status - fetch state of an entry
type Status int

// possible states
const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Entry - cached state for one key of one domain
//
// values are immutable once stored, updates replace the whole entry
type Entry struct {
	Key       string
	Data      interface{}
	Status    Status
	Timestamp time.Time
	Err       error
	Fetched   bool // at least one fetch has succeeded
}

// HasData - true if a value is held
func (e Entry) HasData() bool {
	return nil != e.Data
}

// Domain - a named family of entries sharing a freshness window
type Domain struct {
	Name      string
	TTL       time.Duration
	Immutable bool // stale only when missing or invalidated
}

// Loader - fetch the current value from the ledger
type Loader func(ctx context.Context) (interface{}, error)

// FetchFailure - the only error kind recorded on an entry
type FetchFailure struct {
	Domain string
	Key    string
	Err    error
}

func (f *FetchFailure) Error() string {
	return fmt.Sprintf("fetch %s/%s failed: %s", f.Domain, f.Key, f.Err)
}

// Unwrap - the loader's error
func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// Is - every fetch failure is of class fault.FetchFailed
func (f *FetchFailure) Is(target error) bool {
	return fault.FetchFailed == target
}

// ChangeKind - what happened to an entry
type ChangeKind int

// kinds of change
const (
	Fetching ChangeKind = iota
	Stored
	Failed
	Invalidated
	Restored
)

func (k ChangeKind) String() string {
	switch k {
	case Fetching:
		return "fetching"
	case Stored:
		return "stored"
	case Failed:
		return "failed"
	case Invalidated:
		return "invalidated"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}

// Change - notification sent to listeners after a committed write
type Change struct {
	Domain string
	Key    string
	Kind   ChangeKind
}
