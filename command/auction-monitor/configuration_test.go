// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/fault"
)

const testConfiguration = `
local M = {}

M.data_directory = "."
M.pidfile = "monitor.pid"

M.snapshot = {
    file = "snap.leveldb",
    interval = 60,
}

M.ledger = {
    node_url = "http://127.0.0.1:8080",
    indexer_chain = "e476187f",
    indexer_app = "1db1936d",
    auction_chain = "e476187f",
    auction_app = "ab2b4b0a",
    chain = "0f3cf5a7",
    rate_limit = 5,
    burst = 8,
    request_timeout = 2.5,
}

M.connections = {
    {
        name = "local",
        publish = "tcp://127.0.0.1:2140",
        chains = { "e476187f" },
        window = 30,
    },
}

M.cache = {
    ttl = {
        ["auction-summary"] = 2,
        ["token-info"] = -1,
    },
    settle_delay = 0.5,
}

M.watch = {
    auctions = { 5, 7 },
    settled = true,
    balances = {
        { token = "fungible", owner = "User:0f3c" },
    },
    poll_interval = 3,
}

M.logging = {
    size = 1048576,
    count = 5,
    levels = {
        DEFAULT = "info",
    },
}

return M
`

func writeConfiguration(t *testing.T, content string) (string, string) {
	d, err := ioutil.TempDir("", "monitor")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	name := filepath.Join(d, "auction-monitor.conf")
	if err := ioutil.WriteFile(name, []byte(content), 0600); nil != err {
		t.Fatalf("write error: %s", err)
	}
	return d, name
}

func TestGetConfiguration(t *testing.T) {
	d, name := writeConfiguration(t, testConfiguration)
	defer os.RemoveAll(d)

	d, err := filepath.EvalSymlinks(d)
	assert.Nil(t, err, "eval symlinks")

	conf, err := getConfiguration(name)
	if !assert.Nil(t, err, "configuration error") {
		return
	}

	assert.Equal(t, filepath.Join(d, "monitor.pid"), resolve(conf.PidFile), "pid file not absolute")
	assert.Equal(t, filepath.Join(d, "snap.leveldb"), resolve(conf.Snapshot.File), "snapshot not absolute")
	assert.Equal(t, time.Minute, conf.snapshotInterval(), "wrong snapshot interval")
	assert.Equal(t, filepath.Join(d, defaultLogDirectory), resolve(conf.Logging.Directory), "log directory not absolute")
	assert.Equal(t, defaultLogFile, conf.Logging.File, "log file default lost")
	assert.Equal(t, 5, conf.Logging.Count, "wrong log count")

	l := conf.ledgerConfiguration()
	assert.Equal(t, "http://127.0.0.1:8080", l.NodeURL, "wrong node")
	assert.Equal(t, "ab2b4b0a", l.AuctionApp, "wrong auction app")
	assert.Equal(t, 5.0, l.RateLimit, "wrong rate")
	assert.Equal(t, 8, l.Burst, "wrong burst")
	assert.Equal(t, 2500*time.Millisecond, l.RequestTimeout, "wrong timeout")

	assert.Equal(t, 1, len(conf.Connections), "wrong connection count")
	s, err := conf.Connections[0].subscriberConfiguration()
	assert.Nil(t, err, "subscriber configuration error")
	assert.Equal(t, "local", s.Name, "wrong name")
	assert.Equal(t, []string{"e476187f"}, s.Chains, "wrong chains")
	assert.Equal(t, 30*time.Second, s.Window, "wrong window")
	assert.Equal(t, "", s.PublicKey, "key read without curve")

	ttl := conf.ttlOverrides()
	assert.Equal(t, 2*time.Second, ttl[auction.SummaryDomain], "wrong summary ttl")
	assert.Equal(t, auction.Immutable, ttl[auction.TokenInfoDomain], "token info not immutable")
	assert.Equal(t, 500*time.Millisecond, conf.settleDelay(), "wrong settle delay")

	assert.Equal(t, []uint64{5, 7}, conf.Watch.Auctions, "wrong auctions")
	assert.True(t, conf.Watch.Settled, "settled not watched")
	assert.Equal(t, []BalanceType{{Token: "fungible", Owner: "User:0f3c"}}, conf.Watch.Balances, "wrong balances")
	assert.Equal(t, 3*time.Second, conf.pollInterval(), "wrong poll interval")
}

func resolve(path string) string {
	dir, file := filepath.Split(path)
	if d, err := filepath.EvalSymlinks(dir); nil == err {
		return filepath.Join(d, file)
	}
	return path
}

func TestGetConfigurationDefaults(t *testing.T) {
	d, name := writeConfiguration(t, `return { data_directory = "." }`)
	defer os.RemoveAll(d)

	conf, err := getConfiguration(name)
	if !assert.Nil(t, err, "configuration error") {
		return
	}
	assert.Equal(t, "", conf.PidFile, "pid file not optional")
	assert.Equal(t, defaultPollInterval*time.Second, conf.pollInterval(), "wrong default poll interval")
	assert.Equal(t, time.Duration(0), conf.settleDelay(), "settle delay should select the default")
	assert.Equal(t, 0, len(conf.ttlOverrides()), "unexpected overrides")
	assert.Equal(t, 0, len(conf.Connections), "unexpected connections")
}

func TestGetConfigurationErrors(t *testing.T) {
	items := []struct {
		content string
		err     error
	}{
		{`return { data_directory = "" }`, fault.InvalidConfiguration},
		{`return { data_directory = ".", cache = { settle_delay = -1 } }`, fault.InvalidSettleDelay},
		{`return { data_directory = ".", cache = { ttl = { nonsense = 4 } } }`, fault.InvalidConfiguration},
		{`return { data_directory = ".", watch = { poll_interval = -2 } }`, fault.InvalidInterval},
		{`return { data_directory = ".", connections = { { publish = "tcp://127.0.0.1:1" } } }`, fault.InvalidConfiguration},
		{`return { data_directory = ".", connections = { { name = "a", publish = "tcp://127.0.0.1:1" }, { name = "a", publish = "tcp://127.0.0.1:2" } } }`, fault.InvalidConfiguration},
		{`return { data_directory = ".", connections = { { name = "a" } } }`, fault.InvalidConfiguration},
		{`return { data_directory = ".", watch = { balances = { { token = "t" } } } }`, fault.InvalidConfiguration},
		{`return { data_directory = ".", logging = { file = "sub/x.log" } }`, fault.InvalidConfiguration},
	}

	for i, item := range items {
		d, name := writeConfiguration(t, item.content)
		_, err := getConfiguration(name)
		assert.True(t, errors.Is(err, item.err), "%d: expected: %s  actual: %v", i, item.err, err)
		os.RemoveAll(d)
	}
}
