// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/auctionsync/counter"
	"github.com/bitmark-inc/auctionsync/fault"
)

// defaults for zero configuration values
const (
	DefaultRateLimit      = 10.0
	DefaultBurst          = 20
	DefaultRequestTimeout = 30 * time.Second
)

// Configuration - where the applications live
type Configuration struct {
	NodeURL        string
	IndexerChain   string
	IndexerApp     string
	AuctionChain   string
	AuctionApp     string
	Chain          string // viewer chain, balances are read here
	RateLimit      float64
	Burst          int
	RequestTimeout time.Duration
}

// Client - rate limited GraphQL client
type Client struct {
	log     *logger.L
	client  *http.Client
	limiter *rate.Limiter

	node         string
	indexerURL   string
	auctionChain string
	auctionApp   string
	chain        string

	requests counter.Counter
	failures counter.Counter
}

// New - create a client
func New(log *logger.L, configuration Configuration) (*Client, error) {

	if "" == configuration.NodeURL {
		return nil, fmt.Errorf("%w: empty node url", fault.InvalidConfiguration)
	}
	if "" == configuration.IndexerChain || "" == configuration.IndexerApp {
		return nil, fmt.Errorf("%w: indexer chain and application required", fault.InvalidConfiguration)
	}
	if "" == configuration.AuctionChain || "" == configuration.AuctionApp {
		return nil, fmt.Errorf("%w: auction chain and application required", fault.InvalidConfiguration)
	}

	limit := configuration.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	burst := configuration.Burst
	if burst <= 0 {
		burst = DefaultBurst
	}
	timeout := configuration.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	node := strings.TrimRight(configuration.NodeURL, "/")
	c := &Client{
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:      rate.NewLimiter(rate.Limit(limit), burst),
		node:         node,
		indexerURL:   applicationURL(node, configuration.IndexerChain, configuration.IndexerApp),
		auctionChain: configuration.AuctionChain,
		auctionApp:   configuration.AuctionApp,
		chain:        configuration.Chain,
	}

	log.Infof("node: %s  rate: %g/s  burst: %d  timeout: %s", node, limit, burst, timeout)
	return c, nil
}

func applicationURL(node string, chain string, application string) string {
	return node + "/chains/" + chain + "/applications/" + application
}

// Requests - number of queries sent
func (c *Client) Requests() uint64 {
	return c.requests.Uint64()
}

// Failures - number of queries that did not produce data
func (c *Client) Failures() uint64 {
	return c.failures.Uint64()
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type queryError struct {
	Message string `json:"message"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []queryError    `json:"errors"`
}

// send one query and decode its data into reply
func (c *Client) query(ctx context.Context, url string, query string, variables map[string]interface{}, reply interface{}) error {

	if err := c.limiter.Wait(ctx); nil != err {
		return fmt.Errorf("%w: %s", fault.RateLimiting, err)
	}

	c.requests.Increment()
	err := c.post(ctx, url, query, variables, reply)
	if nil != err {
		c.failures.Increment()
		c.log.Debugf("query: %s  error: %s", url, err)
	}
	return err
}

func (c *Client) post(ctx context.Context, url string, query string, variables map[string]interface{}, reply interface{}) error {

	body, err := json.Marshal(request{Query: query, Variables: variables})
	if nil != err {
		return err
	}
	c.log.Tracef("request: %s  body: %s", url, body)

	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if nil != err {
		return err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if nil != err {
		return err
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if nil != err {
		return err
	}
	c.log.Tracef("reply: %s  status: %d  body: %s", url, res.StatusCode, data)

	if http.StatusOK != res.StatusCode {
		return fmt.Errorf("%w: status: %d %q on: %q", fault.QueryFailed, res.StatusCode, res.Status, url)
	}

	var r response
	if err := json.Unmarshal(data, &r); nil != err {
		return fmt.Errorf("%w: malformed response: %s", fault.QueryFailed, err)
	}
	if 0 != len(r.Errors) {
		messages := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			messages[i] = e.Message
		}
		return fmt.Errorf("%w: %s", fault.QueryFailed, strings.Join(messages, "; "))
	}
	if 0 == len(r.Data) || "null" == string(r.Data) {
		return fmt.Errorf("%w: no data", fault.QueryFailed)
	}
	return json.Unmarshal(r.Data, reply)
}
