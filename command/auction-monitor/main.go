// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/background"
	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/ledger"
	"github.com/bitmark-inc/auctionsync/notification"
	"github.com/bitmark-inc/auctionsync/poller"
	"github.com/bitmark-inc/auctionsync/snapshot"
	"github.com/bitmark-inc/auctionsync/synchronise"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// the cache and its domains
	store := cache.New(logger.New("cache"))
	defer store.Close()

	err = auction.Register(store, theConfiguration.ttlOverrides())
	if nil != err {
		log.Criticalf("cache domain error: %s", err)
		exitwithstatus.Message("cache domain error: %s", err)
	}

	processes := background.Processes{}

	// restore any previously saved entries before anything can fetch
	if "" != theConfiguration.Snapshot.File {
		database, err := snapshot.Open(logger.New("snapshot"), theConfiguration.Snapshot.File, false)
		if nil != err {
			log.Criticalf("snapshot open error: %s", err)
			exitwithstatus.Message("snapshot open error: %s", err)
		}
		defer database.Close()

		n, err := database.Restore(store, auction.Decoders())
		if nil != err {
			log.Errorf("snapshot restore error: %s", err)
		}
		log.Infof("restored: %d entries", n)

		processes = append(processes, snapshot.NewSaver(database, store, theConfiguration.snapshotInterval()))
	}

	// ledger queries
	client, err := ledger.New(logger.New("ledger"), theConfiguration.ledgerConfiguration())
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}

	// invalidation of the whole cache after each burst of notifications
	controller := synchronise.New(logger.New("synchronise"), store, theConfiguration.settleDelay())
	defer controller.Stop()

	for _, connection := range theConfiguration.Connections {
		conf, err := connection.subscriberConfiguration()
		if nil != err {
			log.Criticalf("connection: %q  error: %s", connection.Name, err)
			exitwithstatus.Message("connection: %q  error: %s", connection.Name, err)
		}
		subscriber, err := notification.NewSubscriber(logger.New("subscriber"), conf)
		if nil != err {
			log.Criticalf("subscriber: %q  error: %s", connection.Name, err)
			exitwithstatus.Message("subscriber: %q  error: %s", connection.Name, err)
		}
		if err := controller.Track(connection.Name, subscriber); nil != err {
			log.Criticalf("track: %q  error: %s", connection.Name, err)
			exitwithstatus.Message("track: %q  error: %s", connection.Name, err)
		}
		processes = append(processes, subscriber)
	}

	reporter := newReporter(logger.New("reporter"), store, controller, client)
	processes = append(processes, reporter)

	// polled bindings for the watch list
	thePoller := poller.New(logger.New("poller"))
	defer thePoller.Stop()

	reader := &auction.Reader{
		Store:          store,
		Loaders:        client,
		Poller:         thePoller,
		PollInterval:   theConfiguration.pollInterval(),
		Syncing:        controller.IsSyncing,
		FetchOnAcquire: true,
		BidPageSize:    theConfiguration.Watch.BidPageSize,
	}
	watching := newWatchList(log, reader)
	defer watching.ReleaseAll()
	watching.Update(theConfiguration.Watch)

	watcher, err := newFileWatcher(logger.New("watcher"), configurationFile, func(conf *Configuration) {
		watching.Update(conf.Watch)
	})
	if nil != err {
		log.Errorf("configuration file watcher error: %s", err)
	} else {
		processes = append(processes, watcher)
	}

	running := background.Start(processes, nil)
	defer running.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
