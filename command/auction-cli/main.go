// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/auctionsync/auction"
	"github.com/bitmark-inc/auctionsync/cache"
	"github.com/bitmark-inc/auctionsync/ledger"
)

type metadata struct {
	store   *cache.Store
	client  *ledger.Client
	reader  *auction.Reader
	chain   string
	timeout time.Duration
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "auction-cli"
	app.Usage = "query auctions through the ledger indexer"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:   "node, n",
			Value:  "http://127.0.0.1:8080",
			Usage:  " ledger node `URL`",
			EnvVar: "AUCTION_NODE",
		},
		cli.StringFlag{
			Name:   "indexer-chain",
			Usage:  "*indexer `CHAIN` id",
			EnvVar: "AUCTION_INDEXER_CHAIN",
		},
		cli.StringFlag{
			Name:   "indexer-app",
			Usage:  "*indexer `APPLICATION` id",
			EnvVar: "AUCTION_INDEXER_APP",
		},
		cli.StringFlag{
			Name:   "auction-chain",
			Usage:  "*auction `CHAIN` id",
			EnvVar: "AUCTION_CHAIN",
		},
		cli.StringFlag{
			Name:   "auction-app",
			Usage:  "*auction `APPLICATION` id",
			EnvVar: "AUCTION_APP",
		},
		cli.StringFlag{
			Name:   "chain, c",
			Usage:  " viewer `CHAIN` id",
			EnvVar: "AUCTION_VIEWER_CHAIN",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: 30 * time.Second,
			Usage: " request `TIMEOUT`",
		},
		cli.StringFlag{
			Name:  "log-directory",
			Value: os.TempDir(),
			Usage: " `DIR` for the debug log",
		},
	}

	auctionFlag := cli.Uint64Flag{
		Name:  "auction, a",
		Usage: "*auction `ID`",
	}
	chainFlag := cli.StringFlag{
		Name:  "chain, c",
		Value: "",
		Usage: " viewer `CHAIN` [default global chain]",
	}

	app.Commands = []cli.Command{
		{
			Name:      "summary",
			Usage:     "auction summary with its current price",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{auctionFlag},
			Action:    runSummary,
		},
		{
			Name:      "price",
			Usage:     "price of an auction at a given time",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				auctionFlag,
				cli.StringFlag{
					Name:  "at",
					Value: "",
					Usage: " RFC3339 `TIME` [default now]",
				},
			},
			Action: runPrice,
		},
		{
			Name:      "bids",
			Usage:     "bid history of an auction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				auctionFlag,
				cli.IntFlag{
					Name:  "page-size, p",
					Value: 100,
					Usage: " `COUNT` of bids per query, 0 for a single query",
				},
			},
			Action: runBids,
		},
		{
			Name:      "user-bids",
			Usage:     "bids of one account in an auction",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				auctionFlag,
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*account `ADDRESS`",
				},
			},
			Action: runUserBids,
		},
		{
			Name:      "settled",
			Usage:     "list settled auctions",
			ArgsUsage: " ",
			Action:    runSettled,
		},
		{
			Name:      "all",
			Usage:     "list every auction",
			ArgsUsage: " ",
			Action:    runAll,
		},
		{
			Name:      "creator",
			Usage:     "list the auctions of a creator",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "creator, c",
					Value: "",
					Usage: "*creator `ADDRESS`",
				},
			},
			Action: runCreator,
		},
		{
			Name:      "commitment",
			Usage:     "a viewer chain's commitment to an auction",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{auctionFlag, chainFlag},
			Action:    runCommitment,
		},
		{
			Name:      "claimable",
			Usage:     "settlement a viewer chain can claim",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{auctionFlag, chainFlag},
			Action:    runClaimable,
		},
		{
			Name:      "balance",
			Usage:     "token balance of an owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token, T",
					Value: "",
					Usage: "*token `APPLICATION` id",
				},
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: "*owner `ACCOUNT`",
				},
			},
			Action: runBalance,
		},
		{
			Name:      "token",
			Usage:     "token name and symbol",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "token, T",
					Value: "",
					Usage: "*token `APPLICATION` id",
				},
			},
			Action: runToken,
		},
		{
			Name:      "watch",
			Usage:     "poll an auction summary and print each change",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				auctionFlag,
				cli.DurationFlag{
					Name:  "interval, i",
					Value: 5 * time.Second,
					Usage: " polling `INTERVAL`",
				},
				cli.IntFlag{
					Name:  "count",
					Value: 0,
					Usage: " stop after `COUNT` updates, 0 for no limit",
				},
			},
			Action: runWatch,
		},
		{
			Name:  "version",
			Usage: "display auction-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		command := c.Args().Get(0)
		if "version" == command || "help" == command || "" == command {
			return nil
		}

		level := "critical"
		if verbose {
			level = "debug"
		}
		logging := logger.Configuration{
			Directory: c.GlobalString("log-directory"),
			File:      app.Name + ".log",
			Size:      1048576,
			Count:     2,
			Console:   false,
			Levels: map[string]string{
				logger.DefaultTag: level,
			},
		}
		if err := logger.Initialise(logging); nil != err {
			return err
		}

		conf := ledger.Configuration{
			NodeURL:        c.GlobalString("node"),
			IndexerChain:   c.GlobalString("indexer-chain"),
			IndexerApp:     c.GlobalString("indexer-app"),
			AuctionChain:   c.GlobalString("auction-chain"),
			AuctionApp:     c.GlobalString("auction-app"),
			Chain:          c.GlobalString("chain"),
			RequestTimeout: c.GlobalDuration("timeout"),
		}
		if verbose {
			fmt.Fprintf(e, "node: %s\n", conf.NodeURL)
			fmt.Fprintf(e, "indexer: %s/%s\n", conf.IndexerChain, conf.IndexerApp)
			fmt.Fprintf(e, "auction: %s/%s\n", conf.AuctionChain, conf.AuctionApp)
		}

		client, err := ledger.New(logger.New("ledger"), conf)
		if nil != err {
			return err
		}

		store := cache.New(logger.New("cache"))
		if err := auction.Register(store, nil); nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			store:  store,
			client: client,
			reader: &auction.Reader{
				Store:   store,
				Loaders: client,
			},
			chain:   conf.Chain,
			timeout: c.GlobalDuration("timeout"),
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		m, ok := c.App.Metadata["config"].(*metadata)
		if !ok {
			return nil
		}
		if m.verbose {
			fmt.Fprintf(m.e, "requests: %d  failures: %d\n", m.client.Requests(), m.client.Failures())
		}
		m.store.Close()
		logger.Finalise()
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

