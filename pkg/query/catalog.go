/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

// A Resolver turns a user supplied field name into its wire name.
type Resolver interface {
	Resolve(name string) (string, error)
}

type passthrough struct{}

func (passthrough) Resolve(name string) (string, error) {
	return name, nil
}

// Passthrough accepts every name as-is and leaves validation to the server.
// It is the default Resolver of a Query.
var Passthrough Resolver = passthrough{}

// A FieldCatalog is a two-way alias table between display names and wire
// names. Names that are neither are rejected with ErrUnknownField.
type FieldCatalog struct {
	aliases map[string]string
	names   map[string]struct{}
}

func NewFieldCatalog(aliases map[string]string) *FieldCatalog {
	c := &FieldCatalog{
		aliases: make(map[string]string, len(aliases)),
		names:   make(map[string]struct{}, len(aliases)),
	}
	for display, wire := range aliases {
		c.aliases[display] = wire
		c.names[wire] = struct{}{}
	}
	return c
}

func (c *FieldCatalog) Resolve(name string) (string, error) {
	if wire, ok := c.aliases[name]; ok {
		return wire, nil
	}
	if _, ok := c.names[name]; ok {
		return name, nil
	}
	return "", invalid("column", name, ErrUnknownField)
}

// Column resolves name and returns it as a Column.
func (c *FieldCatalog) Column(name string) (Column, error) {
	wire, err := c.Resolve(name)
	if err != nil {
		return "", err
	}
	return Column(wire), nil
}

// Len returns the number of wire names known to the catalog.
func (c *FieldCatalog) Len() int {
	return len(c.names)
}

// Catalog holds the commonly used screener fields.
var Catalog = NewFieldCatalog(map[string]string{
	"Name":                            "name",
	"Description":                     "description",
	"Type":                            "type",
	"Subtype":                         "subtype",
	"Exchange":                        "exchange",
	"Market":                          "market",
	"Country":                         "country",
	"Currency":                        "currency",
	"Sector":                          "sector",
	"Industry":                        "industry",
	"Price":                           "close",
	"Close":                           "close",
	"Open":                            "open",
	"High":                            "high",
	"Low":                             "low",
	"Change %":                        "change",
	"Change":                          "change_abs",
	"Change from Open %":              "change_from_open",
	"Gap %":                           "gap",
	"Volume":                          "volume",
	"Average Volume (10 day)":         "average_volume_10d_calc",
	"Average Volume (30 day)":         "average_volume_30d_calc",
	"Relative Volume":                 "relative_volume_10d_calc",
	"Volume*Price":                    "Value.Traded",
	"Market Capitalization":           "market_cap_basic",
	"Price to Earnings Ratio (TTM)":   "price_earnings_ttm",
	"Basic EPS (TTM)":                 "earnings_per_share_basic_ttm",
	"Dividend Yield Forward":          "dividend_yield_recent",
	"52 Week High":                    "price_52_week_high",
	"52 Week Low":                     "price_52_week_low",
	"VWAP":                            "VWAP",
	"Volatility":                      "Volatility.D",
	"Relative Strength Index (14)":    "RSI",
	"MACD Level (12, 26)":             "MACD.macd",
	"MACD Signal (12, 26)":            "MACD.signal",
	"Exponential Moving Average (5)":  "EMA5",
	"Exponential Moving Average (20)": "EMA20",
	"Exponential Moving Average (50)": "EMA50",
	"Simple Moving Average (50)":      "SMA50",
	"Simple Moving Average (200)":     "SMA200",
	"Technical Rating":                "Recommend.All",
	"Moving Averages Rating":          "Recommend.MA",
	"Oscillators Rating":              "Recommend.Other",
	"Pre-market Close":                "premarket_close",
	"Pre-market Change %":             "premarket_change",
	"Pre-market Change":               "premarket_change_abs",
	"Pre-market Volume":               "premarket_volume",
	"Pre-market Gap %":                "premarket_gap",
	"Post-market Close":               "postmarket_close",
	"Post-market Change %":            "postmarket_change",
	"Post-market Change":              "postmarket_change_abs",
	"Post-market Volume":              "postmarket_volume",
	"Type Specs":                      "typespecs",
	"Active Symbol":                   "active_symbol",
	"Logo":                            "logoid",
	"Update Mode":                     "update_mode",
})
