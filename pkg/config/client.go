/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package config

import (
	screener "github.com/dburkart/screener/api"
	"github.com/dburkart/screener/pkg/query"
	"github.com/rs/zerolog"
)

// QueryOptions returns the options every query built under c needs.
func (c Config) QueryOptions() []query.Option {
	opts := []query.Option{
		query.WithBaseURL(c.URL),
		query.WithOption("lang", c.Lang),
	}
	if c.Fields == FieldsCatalog {
		opts = append(opts, query.WithResolver(query.Catalog))
	}
	return opts
}

// NewQuery returns a fresh query for the configured service.
func (c Config) NewQuery() *query.Query {
	return query.New(c.QueryOptions()...)
}

// NewClient returns a client for the configured service.
func (c Config) NewClient(log zerolog.Logger, metrics screener.MetricsStore) *screener.RemoteClient {
	return screener.NewRemoteClient(
		screener.WithBaseURL(c.URL),
		screener.WithTimeout(c.Timeout),
		screener.WithHeaders(c.Headers),
		screener.WithCookies(c.Cookies),
		screener.WithLogger(log),
		screener.WithMetrics(metrics),
	)
}
