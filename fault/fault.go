// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	ConnectionAlreadyTracked = ExistsError("connection already tracked")
	DomainAlreadyRegistered  = ExistsError("domain already registered")
	KeyFileAlreadyExists     = ExistsError("key file already exists")

	InvalidAmount        = InvalidError("invalid amount")
	InvalidConfiguration = InvalidError("invalid configuration")
	InvalidDomain        = InvalidError("invalid domain")
	InvalidInterval      = InvalidError("invalid interval")
	InvalidKey           = InvalidError("invalid key")
	InvalidSettleDelay   = InvalidError("invalid settle delay")
	InvalidSource        = InvalidError("invalid notification source")
	InvalidStatus        = InvalidError("invalid auction status")
	MissingLoader        = InvalidError("missing loader")

	NotFound          = NotFoundError("not found")
	UnknownConnection = NotFoundError("unknown connection")
	UnknownDomain     = NotFoundError("unknown domain")

	FetchFailed    = ProcessError("fetch failed")
	LoaderPanicked = ProcessError("loader panicked")
	NotInitialised = ProcessError("not initialised")
	QueryFailed    = ProcessError("query failed")
	RateLimiting   = ProcessError("rate limiting")
	Stopped        = ProcessError("stopped")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
