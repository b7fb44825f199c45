/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

// Package scanners holds ready made screener queries for the pre- and
// post-market sessions.
package scanners

import (
	"fmt"

	"github.com/dburkart/screener/pkg/query"
)

type preset struct {
	name  string
	build func(opts ...query.Option) *query.Query
}

func session(prefix string, orderBy query.Column, ascending bool) func(...query.Option) *query.Query {
	return func(opts ...query.Option) *query.Query {
		columns := []query.Column{}
		for _, c := range query.DefaultColumns() {
			columns = append(columns, query.Column(c))
		}
		columns = append(columns,
			query.Column(prefix+"_change"),
			query.Column(prefix+"_change_abs"),
			query.Column(prefix+"_volume"),
		)
		return query.New(opts...).Select(columns...).OrderBy(orderBy, ascending, false)
	}
}

var presets = []preset{
	{"premarket_gainers", session("premarket", "premarket_change", false)},
	{"premarket_losers", session("premarket", "premarket_change", true)},
	{"premarket_most_active", session("premarket", "premarket_volume", false)},
	{"premarket_gappers", session("premarket", "premarket_gap", false)},
	{"postmarket_gainers", session("postmarket", "postmarket_change", false)},
	{"postmarket_losers", session("postmarket", "postmarket_change", true)},
	{"postmarket_most_active", session("postmarket", "postmarket_volume", false)},
}

// Names returns the preset names in registration order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.name)
	}
	return names
}

// Get returns a fresh query for the named preset, built with opts. Callers
// may modify it freely.
func Get(name string, opts ...query.Option) (*query.Query, error) {
	for _, p := range presets {
		if p.name == name {
			return p.build(opts...), nil
		}
	}
	return nil, fmt.Errorf("unknown scanner %q", name)
}
