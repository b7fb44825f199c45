/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package screener

import (
	"context"

	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/result"
)

// A Client runs queries against the screener service. Requests are never
// retried; every failure is returned to the caller.
type Client interface {
	// Scan posts q and decodes the response against the columns q was
	// built with.
	Scan(ctx context.Context, q *query.Query) (int, result.Table, error)
	// ScanRaw posts q and returns the undecoded response body.
	ScanRaw(ctx context.Context, q *query.Query) ([]byte, error)
	// AllSymbols lists every ticker of a market.
	AllSymbols(ctx context.Context, market string) ([]string, error)
}

// NewClient creates a Client for the screener service at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	return NewRemoteClient(append([]Option{WithBaseURL(baseURL)}, opts...)...)
}
