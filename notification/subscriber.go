// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package notification

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/auctionsync/counter"
	"github.com/bitmark-inc/auctionsync/fault"
)

const (
	heartbeatInterval = 15 * time.Second
	heartbeatTimeout  = 60 * time.Second
	heartbeatTTL      = 120 * time.Second
)

// Configuration - one publisher connection
type Configuration struct {
	Name            string
	Publish         string // e.g. tcp://127.0.0.1:2140
	ServerPublicKey string // empty: no CurveZMQ
	PublicKey       string
	PrivateKey      string
	Chains          []string // empty: every chain
	Window          time.Duration
}

// Subscriber - a ZeroMQ notification source
type Subscriber struct {
	log      *logger.L
	name     string
	publish  string
	filter   *Filter
	chains   map[string]struct{}
	handlers handlers

	curve           bool
	serverPublicKey []byte
	publicKey       []byte
	privateKey      []byte

	received  counter.Counter
	dropped   counter.Counter
	delivered counter.Counter
}

var signalCount struct {
	sync.Mutex
	n int
}

// NewSubscriber - validate the configuration, no socket is opened until
// Run
func NewSubscriber(log *logger.L, configuration Configuration) (*Subscriber, error) {

	if "" == configuration.Name {
		return nil, fmt.Errorf("%w: subscriber without a name", fault.InvalidConfiguration)
	}
	if "" == configuration.Publish {
		return nil, fmt.Errorf("%w: %q: empty publish address", fault.InvalidConfiguration, configuration.Name)
	}

	s := &Subscriber{
		log:     log,
		name:    configuration.Name,
		publish: configuration.Publish,
		filter:  NewFilter(configuration.Window),
	}

	if 0 != len(configuration.Chains) {
		s.chains = make(map[string]struct{})
		for _, c := range configuration.Chains {
			s.chains[c] = struct{}{}
		}
	}

	if "" != configuration.ServerPublicKey {
		var err error
		s.curve = true
		s.serverPublicKey, err = ReadPublicKey(configuration.ServerPublicKey)
		if nil != err {
			return nil, fmt.Errorf("%q: server public key: %w", configuration.Name, err)
		}
		s.publicKey, err = ReadPublicKey(configuration.PublicKey)
		if nil != err {
			return nil, fmt.Errorf("%q: public key: %w", configuration.Name, err)
		}
		s.privateKey, err = ReadPrivateKey(configuration.PrivateKey)
		if nil != err {
			return nil, fmt.Errorf("%q: private key: %w", configuration.Name, err)
		}
	}

	return s, nil
}

// Name - connection name
func (s *Subscriber) Name() string {
	return s.name
}

// OnNotification - register a handler
func (s *Subscriber) OnNotification(handler func()) func() {
	return s.handlers.add(handler)
}

// Received - messages read from the socket
func (s *Subscriber) Received() uint64 {
	return s.received.Uint64()
}

// Dropped - messages discarded as malformed, filtered or repeated
func (s *Subscriber) Dropped() uint64 {
	return s.dropped.Uint64()
}

// Delivered - messages passed to the handlers
func (s *Subscriber) Delivered() uint64 {
	return s.delivered.Uint64()
}

// Receive - process one multipart message, returns true if handlers
// were called
func (s *Subscriber) Receive(frames [][]byte) bool {
	s.received.Increment()

	if len(frames) < 2 {
		s.dropped.Increment()
		s.log.Warnf("%q: malformed message with %d frames", s.name, len(frames))
		return false
	}

	chain := string(frames[0])
	event := string(frames[1])

	if nil != s.chains {
		if _, ok := s.chains[chain]; !ok {
			s.dropped.Increment()
			s.log.Tracef("%q: ignore chain: %s", s.name, chain)
			return false
		}
	}

	if !s.filter.Fresh(chain, event, frames[2:]) {
		s.dropped.Increment()
		s.log.Tracef("%q: repeat: %s/%s", s.name, chain, event)
		return false
	}

	s.delivered.Increment()
	s.log.Debugf("%q: received: %s/%s", s.name, chain, event)
	s.handlers.call()
	return true
}

// Run - background process reading the publisher until shutdown
func (s *Subscriber) Run(args interface{}, shutdown <-chan struct{}) {

	log := s.log
	log.Infof("%q: starting…", s.name)

	signalCount.Lock()
	signalCount.n += 1
	signal := fmt.Sprintf("inproc://notification-subscriber-%d", signalCount.n)
	signalCount.Unlock()

	push, pull, err := newSignalPair(signal)
	if nil != err {
		log.Errorf("%q: signal pair error: %s", s.name, err)
		<-shutdown
		return
	}

	socket, err := s.openSocket()
	if nil != err {
		log.Errorf("%q: connect to: %q  error: %s", s.name, s.publish, err)
		push.Close()
		pull.Close()
		<-shutdown
		return
	}
	log.Infof("%q: connected to: %q  curve: %t", s.name, s.publish, s.curve)

	done := make(chan struct{})
	go func() {
		defer close(done)

		poller := zmq.NewPoller()
		poller.Add(socket, zmq.POLLIN)
		poller.Add(pull, zmq.POLLIN)
	loop:
		for {
			sockets, err := poller.Poll(-1)
			if nil != err {
				if terminated(err) {
					log.Errorf("%q: context terminated", s.name)
					break loop
				}
				log.Errorf("%q: poll error: %s", s.name, err)
				continue
			}
			for _, polled := range sockets {
				switch p := polled.Socket; p {
				case pull:
					_, _ = p.Recv(0)
					break loop
				default:
					data, err := p.RecvMessageBytes(0)
					if nil != err {
						log.Errorf("%q: receive error: %s", s.name, err)
						continue
					}
					s.Receive(data)
				}
			}
		}
		pull.Close()
		socket.Close()
	}()

	<-shutdown
	_, _ = push.SendMessage("stop")
	<-done
	push.Close()
	log.Infof("%q: stopped", s.name)
}

// true once the zmq context is gone, no socket can be read again
func terminated(err error) bool {
	return nil != err && zmq.ETERM == zmq.AsErrno(err)
}

func (s *Subscriber) openSocket() (*zmq.Socket, error) {

	socket, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		return nil, err
	}

	if s.curve {
		err = socket.SetCurveServer(0)
		if nil != err {
			goto failure
		}
		err = socket.SetCurvePublickey(string(s.publicKey))
		if nil != err {
			goto failure
		}
		err = socket.SetCurveSecretkey(string(s.privateKey))
		if nil != err {
			goto failure
		}
		err = socket.SetCurveServerkey(string(s.serverPublicKey))
		if nil != err {
			goto failure
		}
	}

	err = socket.SetLinger(0)
	if nil != err {
		goto failure
	}

	// keep-alive settings
	err = socket.SetTcpKeepalive(1)
	if nil != err {
		goto failure
	}

	// this need zmq 4.2
	err = socket.SetHeartbeatIvl(heartbeatInterval)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTimeout(heartbeatTimeout)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}
	err = socket.SetHeartbeatTtl(heartbeatTTL)
	if nil != err && zmq.ErrorNotImplemented42 != err {
		goto failure
	}

	// set subscription prefix - empty => receive everything
	err = socket.SetSubscribe("")
	if nil != err {
		goto failure
	}

	err = socket.Connect(s.publish)
	if nil != err {
		goto failure
	}
	return socket, nil

failure:
	socket.Close()
	return nil, err
}

// return a pair of connected push/pull sockets for shutdown signalling
func newSignalPair(signal string) (*zmq.Socket, *zmq.Socket, error) {

	push, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return nil, nil, err
	}
	push.SetLinger(0)
	err = push.Bind(signal)
	if nil != err {
		push.Close()
		return nil, nil, err
	}

	pull, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		push.Close()
		return nil, nil, err
	}
	pull.SetLinger(0)
	err = pull.Connect(signal)
	if nil != err {
		push.Close()
		pull.Close()
		return nil, nil, err
	}

	return push, pull, nil
}
