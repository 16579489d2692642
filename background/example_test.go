// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package background_test

import (
	"fmt"

	"github.com/bitmark-inc/auctionsync/background"
)

// a process that reports its name and the shared argument
type named struct {
	name string
	out  chan<- string
}

func (n *named) Run(args interface{}, shutdown <-chan struct{}) {
	n.out <- fmt.Sprintf("%s started with: %v", n.name, args)
	<-shutdown
	n.out <- n.name + " stopped"
}

func Example() {
	out := make(chan string, 4)

	p := background.Start(background.Processes{
		&named{name: "saver", out: out},
	}, "cache.leveldb")

	fmt.Println(<-out)
	p.Stop()
	fmt.Println(<-out)

	// a second stop does nothing
	p.Stop()

	// Output:
	// saver started with: cache.leveldb
	// saver stopped
}
