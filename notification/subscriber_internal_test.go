// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification

import (
	"errors"
	"syscall"
	"testing"

	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"
)

func TestTerminated(t *testing.T) {
	assert.True(t, terminated(zmq.ETERM), "ETERM not terminal")
	assert.False(t, terminated(syscall.EINTR), "EINTR terminal")
	assert.False(t, terminated(errors.New("other")), "plain error terminal")
	assert.False(t, terminated(nil), "nil terminal")
}
