// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/configuration"
	"github.com/bitmark-inc/auctionsync/fault"
	"github.com/bitmark-inc/auctionsync/ledger"
	"github.com/bitmark-inc/auctionsync/notification"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultSnapshotFile     = "cache.leveldb"
	defaultSnapshotInterval = 300 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "auction-monitor.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultPollInterval = 5 // seconds
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// all durations are in seconds
type LedgerType struct {
	NodeURL        string  `gluamapper:"node_url" json:"node_url"`
	IndexerChain   string  `gluamapper:"indexer_chain" json:"indexer_chain"`
	IndexerApp     string  `gluamapper:"indexer_app" json:"indexer_app"`
	AuctionChain   string  `gluamapper:"auction_chain" json:"auction_chain"`
	AuctionApp     string  `gluamapper:"auction_app" json:"auction_app"`
	Chain          string  `gluamapper:"chain" json:"chain"`
	RateLimit      float64 `gluamapper:"rate_limit" json:"rate_limit"`
	Burst          int     `gluamapper:"burst" json:"burst"`
	RequestTimeout float64 `gluamapper:"request_timeout" json:"request_timeout"`
}

// server public key in Z85 (ZeroMQ Base-85 Encoding) see: http://rfc.zeromq.org/spec:32
// or tagged hex, client keys are file names
type ConnectionType struct {
	Name            string   `gluamapper:"name" json:"name"`
	Publish         string   `gluamapper:"publish" json:"publish"`
	ServerPublicKey string   `gluamapper:"server_public_key" json:"server_public_key"`
	PublicKey       string   `gluamapper:"public_key" json:"public_key"`
	PrivateKey      string   `gluamapper:"private_key" json:"private_key"`
	Chains          []string `gluamapper:"chains" json:"chains"`
	Window          float64  `gluamapper:"window" json:"window"`
}

type SnapshotType struct {
	File     string  `gluamapper:"file" json:"file"`
	Interval float64 `gluamapper:"interval" json:"interval"`
}

// a negative ttl makes the domain immutable
type CacheType struct {
	TTL         map[string]float64 `gluamapper:"ttl" json:"ttl"`
	SettleDelay float64            `gluamapper:"settle_delay" json:"settle_delay"`
}

type BalanceType struct {
	Token string `gluamapper:"token" json:"token"`
	Owner string `gluamapper:"owner" json:"owner"`
}

type CommitmentType struct {
	Auction uint64 `gluamapper:"auction" json:"auction"`
	Chain   string `gluamapper:"chain" json:"chain"`
}

type WatchType struct {
	Auctions     []uint64         `gluamapper:"auctions" json:"auctions"`
	Settled      bool             `gluamapper:"settled" json:"settled"`
	Creators     []string         `gluamapper:"creators" json:"creators"`
	Commitments  []CommitmentType `gluamapper:"commitments" json:"commitments"`
	Balances     []BalanceType    `gluamapper:"balances" json:"balances"`
	Tokens       []string         `gluamapper:"tokens" json:"tokens"`
	PollInterval float64          `gluamapper:"poll_interval" json:"poll_interval"`
	BidPageSize  int              `gluamapper:"bid_page_size" json:"bid_page_size"`
}

type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Snapshot      SnapshotType         `gluamapper:"snapshot" json:"snapshot"`
	Ledger        LedgerType           `gluamapper:"ledger" json:"ledger"`
	Connections   []ConnectionType     `gluamapper:"connections" json:"connections"`
	Cache         CacheType            `gluamapper:"cache" json:"cache"`
	Watch         WatchType            `gluamapper:"watch" json:"watch"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Snapshot: SnapshotType{
			File:     defaultSnapshotFile,
			Interval: defaultSnapshotInterval,
		},

		Ledger: LedgerType{
			RateLimit: ledger.DefaultRateLimit,
			Burst:     ledger.DefaultBurst,
		},

		Watch: WatchType{
			PollInterval: defaultPollInterval,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	variables := map[string]string{
		"config_directory": dataDirectory,
	}
	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("%w: path: %q is not a valid directory", fault.InvalidConfiguration, options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("%w: path: %q is not a directory", fault.InvalidConfiguration, options.DataDirectory)
	}

	if err := options.validate(); nil != err {
		return nil, err
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.Snapshot.File,
	}
	for i := range options.Connections {
		optionalAbsolute = append(optionalAbsolute,
			&options.Connections[i].PublicKey,
			&options.Connections[i].PrivateKey,
		)
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = configuration.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if the log file is not a simple file name
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("%w: files: %q is not plain name", fault.InvalidConfiguration, options.Logging.File)
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Logging.Directory,
	} {
		*d = configuration.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

func (c *Configuration) validate() error {
	if c.Cache.SettleDelay < 0 {
		return fmt.Errorf("%w: settle_delay: %g", fault.InvalidSettleDelay, c.Cache.SettleDelay)
	}

	for name := range c.Cache.TTL {
		if _, ok := auction.DefaultTTLs[name]; !ok {
			return fmt.Errorf("%w: cache.ttl: unknown domain: %q", fault.InvalidConfiguration, name)
		}
	}

	if c.Watch.PollInterval < 0 {
		return fmt.Errorf("%w: watch.poll_interval: %g", fault.InvalidInterval, c.Watch.PollInterval)
	}
	if c.Snapshot.Interval < 0 {
		return fmt.Errorf("%w: snapshot.interval: %g", fault.InvalidInterval, c.Snapshot.Interval)
	}

	names := make(map[string]struct{})
	for i, connection := range c.Connections {
		if "" == connection.Name {
			return fmt.Errorf("%w: connections[%d]: empty name", fault.InvalidConfiguration, i+1)
		}
		if _, ok := names[connection.Name]; ok {
			return fmt.Errorf("%w: connections[%d]: duplicate name: %q", fault.InvalidConfiguration, i+1, connection.Name)
		}
		names[connection.Name] = struct{}{}
		if "" == connection.Publish {
			return fmt.Errorf("%w: connection: %q: empty publish address", fault.InvalidConfiguration, connection.Name)
		}
	}

	for i, balance := range c.Watch.Balances {
		if "" == balance.Token || "" == balance.Owner {
			return fmt.Errorf("%w: watch.balances[%d]: token and owner required", fault.InvalidConfiguration, i+1)
		}
	}
	for i, commitment := range c.Watch.Commitments {
		if "" == commitment.Chain {
			return fmt.Errorf("%w: watch.commitments[%d]: chain required", fault.InvalidConfiguration, i+1)
		}
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c *Configuration) ledgerConfiguration() ledger.Configuration {
	return ledger.Configuration{
		NodeURL:        c.Ledger.NodeURL,
		IndexerChain:   c.Ledger.IndexerChain,
		IndexerApp:     c.Ledger.IndexerApp,
		AuctionChain:   c.Ledger.AuctionChain,
		AuctionApp:     c.Ledger.AuctionApp,
		Chain:          c.Ledger.Chain,
		RateLimit:      c.Ledger.RateLimit,
		Burst:          c.Ledger.Burst,
		RequestTimeout: seconds(c.Ledger.RequestTimeout),
	}
}

func (c *Configuration) ttlOverrides() map[string]time.Duration {
	overrides := make(map[string]time.Duration, len(c.Cache.TTL))
	for name, ttl := range c.Cache.TTL {
		if ttl < 0 {
			overrides[name] = auction.Immutable
		} else {
			overrides[name] = seconds(ttl)
		}
	}
	return overrides
}

// zero selects the controller default
func (c *Configuration) settleDelay() time.Duration {
	return seconds(c.Cache.SettleDelay)
}

func (c *Configuration) pollInterval() time.Duration {
	return seconds(c.Watch.PollInterval)
}

func (c *Configuration) snapshotInterval() time.Duration {
	return seconds(c.Snapshot.Interval)
}

// read the client key files of a connection
func (c *ConnectionType) subscriberConfiguration() (notification.Configuration, error) {
	conf := notification.Configuration{
		Name:            c.Name,
		Publish:         c.Publish,
		ServerPublicKey: c.ServerPublicKey,
		Chains:          c.Chains,
		Window:          seconds(c.Window),
	}
	if "" == c.ServerPublicKey {
		return conf, nil
	}

	publicKey, err := notification.ReadKeyFile(c.PublicKey)
	if nil != err {
		return conf, fmt.Errorf("%w: connection: %q: %s", fault.InvalidConfiguration, c.Name, err)
	}
	privateKey, err := notification.ReadKeyFile(c.PrivateKey)
	if nil != err {
		return conf, fmt.Errorf("%w: connection: %q: %s", fault.InvalidConfiguration, c.Name, err)
	}
	conf.PublicKey = publicKey
	conf.PrivateKey = privateKey
	return conf, nil
}
