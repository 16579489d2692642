// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification

import (
	"sort"
	"sync"
)

// registered handlers of a source
type handlers struct {
	sync.Mutex
	next     uint64
	handlers map[uint64]func()
}

func (h *handlers) add(handler func()) func() {
	h.Lock()
	defer h.Unlock()

	if nil == h.handlers {
		h.handlers = make(map[uint64]func())
	}
	h.next += 1
	id := h.next
	h.handlers[id] = handler

	return func() {
		h.Lock()
		delete(h.handlers, id)
		h.Unlock()
	}
}

// call every handler in registration order, outside the lock
func (h *handlers) call() int {
	h.Lock()
	ids := make([]uint64, 0, len(h.handlers))
	for id := range h.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	list := make([]func(), len(ids))
	for i, id := range ids {
		list[i] = h.handlers[id]
	}
	h.Unlock()

	for _, handler := range list {
		handler()
	}
	return len(list)
}

func (h *handlers) count() int {
	h.Lock()
	defer h.Unlock()
	return len(h.handlers)
}
