// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification

// Manual - a source that notifies on request
type Manual struct {
	handlers handlers
}

// NewManual - create a manual source
func NewManual() *Manual {
	return &Manual{}
}

// OnNotification - register a handler
func (m *Manual) OnNotification(handler func()) func() {
	return m.handlers.add(handler)
}

// Notify - call every handler, returns the number called
func (m *Manual) Notify() int {
	return m.handlers.call()
}

// Handlers - number of registered handlers
func (m *Manual) Handlers() int {
	return m.handlers.count()
}
