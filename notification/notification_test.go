// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification_test

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/auctionsync/fault"
	"github.com/bitmark-inc/auctionsync/notification"
)

// from the CurveZMQ reference
const (
	z85Public  = "rq:rM>}U?@Lns47E1%kR.o@n%FcmmsL/@{H8]yf7"
	z85Private = "JTKVSB%%)wK0E.X)V>+}o?pNmC{O&4W4b!Ni{Lh6"
	hexPublic  = "PUBLIC:" + "54fcba24e93249969316fb617c872bb0c1d1ff14800427c594cbfacf1bc2d652"
	hexPrivate = "PRIVATE:" + "8e0bdd697628b91d8f245587ee95c5b04d48963f79259877b49cd9063aead3b7"
)

func TestManual(t *testing.T) {
	m := notification.NewManual()

	var order []int
	cancel1 := m.OnNotification(func() { order = append(order, 1) })
	m.OnNotification(func() { order = append(order, 2) })

	assert.Equal(t, 2, m.Notify(), "wrong handler count")
	cancel1()
	cancel1()
	assert.Equal(t, 1, m.Notify(), "cancelled handler called")
	assert.Equal(t, []int{1, 2, 2}, order, "wrong call order")
	assert.Equal(t, 1, m.Handlers(), "wrong registration count")
}

func TestFilter(t *testing.T) {
	f := notification.NewFilter(50 * time.Millisecond)
	payload := [][]byte{[]byte("height"), []byte("42")}

	assert.True(t, f.Fresh("chain-a", "block", payload), "first announcement dropped")
	assert.False(t, f.Fresh("chain-a", "block", payload), "repeat not dropped")
	assert.True(t, f.Fresh("chain-b", "block", payload), "other chain dropped")
	assert.True(t, f.Fresh("chain-a", "block", [][]byte{[]byte("height"), []byte("43")}), "other payload dropped")

	time.Sleep(80 * time.Millisecond)
	assert.True(t, f.Fresh("chain-a", "block", payload), "repeat after window dropped")

	assert.Equal(t, notification.DefaultWindow, notification.NewFilter(0).Window(), "wrong default window")
}

func TestIdentifierFraming(t *testing.T) {
	a := notification.Identifier("c", "e", [][]byte{[]byte("ab"), []byte("c")})
	b := notification.Identifier("c", "e", [][]byte{[]byte("a"), []byte("bc")})
	assert.NotEqual(t, a, b, "frame boundaries ignored")
	assert.True(t, strings.HasPrefix(a, "c/e/"), "wrong prefix: %s", a)

	// each frame is preceded by its big endian 32 bit length
	digest := sha256.Sum256([]byte{0x00, 0x00, 0x00, 0x02, 'a', 'b'})
	expected := "c/e/" + hex.EncodeToString(digest[:])
	actual := notification.Identifier("c", "e", [][]byte{[]byte("ab")})
	assert.Equal(t, expected, actual, "wrong identifier")
}

func newSubscriber(t *testing.T, configuration notification.Configuration) *notification.Subscriber {
	s, err := notification.NewSubscriber(logger.New(category), configuration)
	if nil != err {
		t.Fatalf("new subscriber error: %s", err)
	}
	return s
}

func TestSubscriberReceive(t *testing.T) {
	s := newSubscriber(t, notification.Configuration{
		Name:    "public",
		Publish: "tcp://127.0.0.1:2140",
	})
	assert.Equal(t, "public", s.Name(), "wrong name")

	calls := 0
	s.OnNotification(func() { calls += 1 })

	assert.True(t, s.Receive([][]byte{[]byte("chain"), []byte("block"), []byte("1")}), "message dropped")
	assert.False(t, s.Receive([][]byte{[]byte("chain"), []byte("block"), []byte("1")}), "repeat delivered")
	assert.True(t, s.Receive([][]byte{[]byte("chain"), []byte("block"), []byte("2")}), "message dropped")
	assert.False(t, s.Receive([][]byte{[]byte("chain")}), "malformed delivered")

	assert.Equal(t, 2, calls, "wrong handler calls")
	assert.Equal(t, uint64(4), s.Received(), "wrong received count")
	assert.Equal(t, uint64(2), s.Dropped(), "wrong dropped count")
	assert.Equal(t, uint64(2), s.Delivered(), "wrong delivered count")
}

func TestSubscriberChainFilter(t *testing.T) {
	s := newSubscriber(t, notification.Configuration{
		Name:    "public",
		Publish: "tcp://127.0.0.1:2140",
		Chains:  []string{"indexer"},
	})

	assert.False(t, s.Receive([][]byte{[]byte("other"), []byte("block")}), "other chain delivered")
	assert.True(t, s.Receive([][]byte{[]byte("indexer"), []byte("block")}), "tracked chain dropped")
}

func TestSubscriberConfiguration(t *testing.T) {
	items := []notification.Configuration{
		{Publish: "tcp://127.0.0.1:2140"},
		{Name: "x"},
		{Name: "x", Publish: "tcp://127.0.0.1:2140", ServerPublicKey: "short"},
		{Name: "x", Publish: "tcp://127.0.0.1:2140", ServerPublicKey: z85Public, PublicKey: z85Public, PrivateKey: hexPublic},
	}
	for i, item := range items {
		_, err := notification.NewSubscriber(logger.New(category), item)
		assert.True(t, errors.Is(err, fault.InvalidConfiguration), "%d: wrong error: %v", i, err)
	}

	_, err := notification.NewSubscriber(logger.New(category), notification.Configuration{
		Name:            "wallet",
		Publish:         "tcp://127.0.0.1:2140",
		ServerPublicKey: hexPublic,
		PublicKey:       z85Public,
		PrivateKey:      z85Private,
	})
	assert.Nil(t, err, "curve configuration rejected")
}

func TestReadKeys(t *testing.T) {
	fromZ85, err := notification.ReadPublicKey(z85Public)
	assert.Nil(t, err, "Z85 key error")
	assert.Equal(t, 32, len(fromZ85), "wrong key length")

	fromHex, err := notification.ReadPublicKey(hexPublic)
	assert.Nil(t, err, "hex key error")
	assert.Equal(t, fromZ85, fromHex, "encodings differ")

	private, err := notification.ReadPrivateKey(hexPrivate)
	assert.Nil(t, err, "private key error")
	assert.Equal(t, 32, len(private), "wrong key length")

	_, err = notification.ReadPublicKey(hexPrivate)
	assert.True(t, errors.Is(err, fault.InvalidConfiguration), "private key accepted as public")

	_, err = notification.ReadPrivateKey("PRIVATE:0011")
	assert.True(t, errors.Is(err, fault.InvalidConfiguration), "short key accepted")
}

func TestMakeKeyPair(t *testing.T) {
	d, err := ioutil.TempDir("", "keys")
	if nil != err {
		t.Fatalf("temp dir error: %s", err)
	}
	defer os.RemoveAll(d)

	public := filepath.Join(d, "monitor.public")
	private := filepath.Join(d, "monitor.private")

	err = notification.MakeKeyPair(public, private)
	assert.Nil(t, err, "make key pair error")

	s, err := notification.ReadKeyFile(public)
	assert.Nil(t, err, "read public error")
	assert.True(t, strings.HasPrefix(s, "PUBLIC:"), "untagged public key")
	key, err := notification.ReadPublicKey(s)
	assert.Nil(t, err, "decode public error")
	assert.Equal(t, 32, len(key), "wrong public key length")

	s, err = notification.ReadKeyFile(private)
	assert.Nil(t, err, "read private error")
	key, err = notification.ReadPrivateKey(s)
	assert.Nil(t, err, "decode private error")
	assert.Equal(t, 32, len(key), "wrong private key length")

	err = notification.MakeKeyPair(public, private)
	assert.Equal(t, fault.KeyFileAlreadyExists, err, "existing files overwritten")
}
