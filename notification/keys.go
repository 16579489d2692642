// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification

import (
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/auctionsync/fault"
)

const (
	taggedPublic  = "PUBLIC:"
	taggedPrivate = "PRIVATE:"
	keyLength     = 32
	z85KeyLength  = 40
)

// ReadPublicKey - decode a public key, either "PUBLIC:<hex>" or Z85
// (ZeroMQ Base-85 Encoding) see: http://rfc.zeromq.org/spec:32
func ReadPublicKey(key string) ([]byte, error) {
	return parseKey(key, taggedPublic, taggedPrivate)
}

// ReadPrivateKey - decode a private key, either "PRIVATE:<hex>" or Z85
func ReadPrivateKey(key string) ([]byte, error) {
	return parseKey(key, taggedPrivate, taggedPublic)
}

func parseKey(key string, tag string, otherTag string) ([]byte, error) {
	s := strings.TrimSpace(key)

	if strings.HasPrefix(s, otherTag) {
		return nil, fmt.Errorf("%w: expected %s key", fault.InvalidConfiguration, strings.TrimSuffix(tag, ":"))
	}

	if strings.HasPrefix(s, tag) {
		h, err := hex.DecodeString(s[len(tag):])
		if nil != err {
			return nil, fmt.Errorf("%w: key: %s", fault.InvalidConfiguration, err)
		}
		if keyLength != len(h) {
			return nil, fmt.Errorf("%w: key length: %d", fault.InvalidConfiguration, len(h))
		}
		return h, nil
	}

	if z85KeyLength != len(s) {
		return nil, fmt.Errorf("%w: Z85 key length: %d", fault.InvalidConfiguration, len(s))
	}
	d := zmq.Z85decode(s)
	if keyLength != len(d) {
		return nil, fmt.Errorf("%w: invalid Z85 key", fault.InvalidConfiguration)
	}
	return []byte(d), nil
}

// MakeKeyPair - create a CurveZMQ key pair in tagged hex form, existing
// files are never overwritten
func MakeKeyPair(publicKeyFileName string, privateKeyFileName string) error {
	for _, name := range []string{publicKeyFileName, privateKeyFileName} {
		if _, err := os.Stat(name); nil == err {
			return fault.KeyFileAlreadyExists
		}
	}

	publicKey, privateKey, err := zmq.NewCurveKeypair()
	if nil != err {
		return err
	}

	publicKey = taggedPublic + hex.EncodeToString([]byte(zmq.Z85decode(publicKey))) + "\n"
	privateKey = taggedPrivate + hex.EncodeToString([]byte(zmq.Z85decode(privateKey))) + "\n"

	if err = ioutil.WriteFile(publicKeyFileName, []byte(publicKey), 0666); nil != err {
		return err
	}

	if err = ioutil.WriteFile(privateKeyFileName, []byte(privateKey), 0600); nil != err {
		os.Remove(publicKeyFileName)
		return err
	}

	return nil
}

// ReadKeyFile - read a key from a file, in either form accepted by
// ReadPublicKey or ReadPrivateKey
func ReadKeyFile(fileName string) (string, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
