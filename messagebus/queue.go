// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

import (
	"github.com/bitmark-inc/auctionsync/counter"
)

// default queue depth
const defaultQueueSize = 1000

// Message - a queued item
type Message struct {
	From string
	Item interface{}
}

// Queue - bounded message queue
type Queue struct {
	queue   chan Message
	dropped counter.Counter
}

// New - create a queue holding up to size messages, size <= 0 selects
// the default
func New(size int) *Queue {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Queue{
		queue: make(chan Message, size),
	}
}

// Send - queue an item without blocking
//
// returns false and counts the message as dropped when the queue is full
func (q *Queue) Send(from string, item interface{}) bool {
	select {
	case q.queue <- Message{From: from, Item: item}:
		return true
	default:
		q.dropped.Increment()
		return false
	}
}

// Chan - channel to read from
func (q *Queue) Chan() <-chan Message {
	return q.queue
}

// Len - number of queued messages
func (q *Queue) Len() int {
	return len(q.queue)
}

// Dropped - number of messages discarded because the queue was full
func (q *Queue) Dropped() uint64 {
	return q.dropped.Uint64()
}
