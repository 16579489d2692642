// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/configuration"
	"github.com/bitmark-inc/auctionsync/fault"
)

type item struct {
	Name  string `gluamapper:"name"`
	Value int    `gluamapper:"value"`
}

type sample struct {
	Directory string            `gluamapper:"data_directory"`
	Rate      float64           `gluamapper:"rate"`
	Items     []item            `gluamapper:"items"`
	Table     map[string]string `gluamapper:"table"`
	Untouched string            `gluamapper:"untouched"`
}

const sampleFile = `
local dir = arg["dir"] or "."
return {
    data_directory = dir,
    rate = 2.5,
    items = {
        { name = "one", value = 1 },
        { name = "two", value = 2 },
    },
    table = {
        main = "info",
    },
}
`

func writeFile(t *testing.T, content string) (string, func()) {
	d, err := ioutil.TempDir("", "configuration")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	name := filepath.Join(d, "test.conf")
	if err := ioutil.WriteFile(name, []byte(content), 0600); nil != err {
		t.Fatalf("write error: %s", err)
	}
	return name, func() { _ = os.RemoveAll(d) }
}

func TestParseConfigurationFile(t *testing.T) {
	name, cleanup := writeFile(t, sampleFile)
	defer cleanup()

	s := sample{Untouched: "default"}
	err := configuration.ParseConfigurationFile(name, &s, map[string]string{"dir": "/var/lib/monitor"})
	assert.Nil(t, err, "parse error")

	assert.Equal(t, "/var/lib/monitor", s.Directory, "variable not passed")
	assert.Equal(t, 2.5, s.Rate, "wrong rate")
	assert.Equal(t, []item{{"one", 1}, {"two", 2}}, s.Items, "wrong items")
	assert.Equal(t, map[string]string{"main": "info"}, s.Table, "wrong table")
	assert.Equal(t, "default", s.Untouched, "default overwritten")
}

func TestParseConfigurationFileDefaultVariable(t *testing.T) {
	name, cleanup := writeFile(t, sampleFile)
	defer cleanup()

	s := sample{}
	err := configuration.ParseConfigurationFile(name, &s, nil)
	assert.Nil(t, err, "parse error")
	assert.Equal(t, ".", s.Directory, "wrong default")
}

func TestParseConfigurationFileErrors(t *testing.T) {
	name, cleanup := writeFile(t, "return 42\n")
	defer cleanup()

	err := configuration.ParseConfigurationFile(name, &sample{}, nil)
	assert.True(t, errors.Is(err, fault.InvalidConfiguration), "expected invalid configuration")

	bad, cleanup2 := writeFile(t, "return {\n")
	defer cleanup2()

	err = configuration.ParseConfigurationFile(bad, &sample{}, nil)
	assert.NotNil(t, err, "syntax error not reported")

	err = configuration.ParseConfigurationFile(filepath.Join(os.TempDir(), "no-such-file.conf"), &sample{}, nil)
	assert.NotNil(t, err, "missing file not reported")
}

func TestEnsureAbsolute(t *testing.T) {
	assert.Equal(t, "/data/log", configuration.EnsureAbsolute("/data", "log"), "relative")
	assert.Equal(t, "/var/log", configuration.EnsureAbsolute("/data", "/var/log/"), "absolute")
	assert.Equal(t, "/data", configuration.EnsureAbsolute("/data", "sub/.."), "clean")
}
