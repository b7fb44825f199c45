/*
 * Copyright (c) 2023-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package screener

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/result"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const DefaultTimeout = 20 * time.Second

// DefaultHeaders are sent with every request unless overridden.
var DefaultHeaders = map[string]string{
	"authority":          "scanner.tradingview.com",
	"sec-ch-ua":          `" Not A;Brand";v="99", "Chromium";v="98", "Google Chrome";v="98"`,
	"accept":             "text/plain, */*; q=0.01",
	"content-type":       "application/x-www-form-urlencoded; charset=UTF-8",
	"sec-ch-ua-mobile":   "?0",
	"user-agent":         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko)Chrome/98.0.4758.102 Safari/537.36",
	"sec-ch-ua-platform": `"Windows"`,
	"origin":             "https://www.tradingview.com",
	"sec-fetch-site":     "same-site",
	"sec-fetch-mode":     "cors",
	"sec-fetch-dest":     "empty",
	"referer":            "https://www.tradingview.com/",
	"accept-language":    "en-US,en;q=0.9,it;q=0.8",
}

const (
	endpointScan    = "scan"
	endpointSymbols = "symbols"
)

// A RemoteClient talks to the screener service over HTTP.
type RemoteClient struct {
	httpClient *http.Client
	baseURL    string
	headers    map[string]string
	cookies    map[string]string
	log        zerolog.Logger
	metrics    MetricsStore
}

type Option func(*RemoteClient)

func WithBaseURL(u string) Option {
	return func(c *RemoteClient) {
		c.baseURL = u
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *RemoteClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client, including its
// timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *RemoteClient) {
		c.httpClient = h
	}
}

// WithHeaders adds headers to every request, replacing defaults with the
// same name.
func WithHeaders(h map[string]string) Option {
	return func(c *RemoteClient) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// WithCookies sends cookies with every request. A "sessionid" cookie from a
// logged in browser session gives access to live data.
func WithCookies(cookies map[string]string) Option {
	return func(c *RemoteClient) {
		for k, v := range cookies {
			c.cookies[k] = v
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *RemoteClient) {
		c.log = l
	}
}

func WithMetrics(m MetricsStore) Option {
	return func(c *RemoteClient) {
		c.metrics = m
	}
}

func NewRemoteClient(opts ...Option) *RemoteClient {
	c := &RemoteClient{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    query.DefaultBaseURL,
		headers:    make(map[string]string, len(DefaultHeaders)),
		cookies:    map[string]string{},
		log:        zerolog.Nop(),
		metrics:    NewMetricsStore(),
	}
	for k, v := range DefaultHeaders {
		c.headers[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (client *RemoteClient) Metrics() MetricsStore {
	return client.metrics
}

func (client *RemoteClient) do(ctx context.Context, method, url, market, endpoint string, body []byte) ([]byte, error) {
	id := uuid.NewString()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create request")
	}
	for k, v := range client.headers {
		req.Header.Set(k, v)
	}
	for k, v := range client.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}

	client.log.Trace().Str("request", id).Str("method", method).Str("url", url).Bytes("body", body).Msg("sending request")

	start := time.Now()
	resp, err := client.httpClient.Do(req)
	if err != nil {
		client.metrics.IncRequests(market, endpoint, "error")
		client.log.Error().Err(err).Str("request", id).Str("url", url).Msg("request failed")
		return nil, errors.Wrap(err, "unable to reach screener")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	client.metrics.ObserveResponseNS(market, endpoint, elapsed.Nanoseconds())
	client.metrics.IncRequests(market, endpoint, strconv.Itoa(resp.StatusCode))
	if err != nil {
		client.log.Error().Err(err).Str("request", id).Str("url", url).Msg("unable to read response")
		return nil, errors.Wrap(err, "unable to read response body")
	}
	client.metrics.AddResponseBytes(market, endpoint, len(data))

	client.log.Debug().
		Str("request", id).
		Str("market", market).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Str("size", humanize.Bytes(uint64(len(data)))).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &TransportError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(data)}
		client.log.Error().Str("request", id).Int("status", resp.StatusCode).Str("body", terr.Body).Msg("screener rejected request")
		return nil, terr
	}

	return data, nil
}

func (client *RemoteClient) post(ctx context.Context, q *query.Query) (query.Request, []byte, error) {
	req, err := q.Build()
	if err != nil {
		return query.Request{}, nil, err
	}

	data, err := client.do(ctx, http.MethodPost, req.URL, q.Market(), endpointScan, req.Body)
	if err != nil {
		return query.Request{}, nil, err
	}
	return req, data, nil
}

func (client *RemoteClient) ScanRaw(ctx context.Context, q *query.Query) ([]byte, error) {
	_, data, err := client.post(ctx, q)
	return data, err
}

func (client *RemoteClient) Scan(ctx context.Context, q *query.Query) (int, result.Table, error) {
	req, data, err := client.post(ctx, q)
	if err != nil {
		return 0, result.Table{}, err
	}

	total, table, err := result.Decode(bytes.NewReader(data), req.Columns)
	if err != nil {
		client.log.Error().Err(err).Str("url", req.URL).Msg("unable to decode scan response")
		return 0, result.Table{}, err
	}
	return total, table, nil
}

func (client *RemoteClient) AllSymbols(ctx context.Context, market string) ([]string, error) {
	if market == "" {
		market = query.DefaultMarket
	}

	url := query.ScanURL(client.baseURL, market)
	data, err := client.do(ctx, http.MethodGet, url, market, endpointSymbols, nil)
	if err != nil {
		return nil, err
	}

	return result.DecodeSymbols(bytes.NewReader(data))
}
