/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"errors"
	"testing"
)

func TestCatalogResolve(t *testing.T) {
	tt := []struct {
		name string
		wire string
		err  error
	}{
		{"Price", "close", nil},
		{"close", "close", nil},
		{"52 Week High", "price_52_week_high", nil},
		{"Technical Rating", "Recommend.All", nil},
		{"Volume*Price", "Value.Traded", nil},
		{"nonexistent", "", ErrUnknownField},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			wire, err := Catalog.Resolve(tc.name)
			if !errors.Is(err, tc.err) {
				t.Fatalf("error mismatch: %v != %v", err, tc.err)
			}
			if wire != tc.wire {
				t.Errorf("wire name mismatch: %s != %s", wire, tc.wire)
			}
		})
	}
}

func TestFieldCatalog(t *testing.T) {
	c := NewFieldCatalog(map[string]string{"Price": "close", "Close": "close", "Volume": "volume"})
	if c.Len() != 2 {
		t.Errorf("expected 2 wire names, got %d", c.Len())
	}

	col, err := c.Column("Volume")
	if err != nil || col != "volume" {
		t.Errorf("unexpected column %q (%v)", col, err)
	}

	_, err = c.Column("open")
	var invalid *InvalidConfiguration
	if !errors.As(err, &invalid) || invalid.Value != "open" {
		t.Errorf("wanted InvalidConfiguration for open, got %v", err)
	}
}

func TestPassthrough(t *testing.T) {
	name, err := Passthrough.Resolve("anything at all")
	if err != nil || name != "anything at all" {
		t.Errorf("passthrough changed the name: %q (%v)", name, err)
	}
}

func TestScanURL(t *testing.T) {
	tt := []struct {
		base, market, url string
	}{
		{DefaultBaseURL, "america", "https://scanner.tradingview.com/america/scan"},
		{DefaultBaseURL + "/", "global", "https://scanner.tradingview.com/global/scan"},
		{"http://localhost:9000", "crypto", "http://localhost:9000/crypto/scan"},
	}

	for _, tc := range tt {
		if got := ScanURL(tc.base, tc.market); got != tc.url {
			t.Errorf("url mismatch: %s != %s", got, tc.url)
		}
	}
}

func TestIsMarket(t *testing.T) {
	for _, m := range []string{"america", "crypto", "forex", "israel", "uk"} {
		if !IsMarket(m) {
			t.Errorf("%s should be a known market", m)
		}
	}
	for _, m := range []string{"", "global", "America", "atlantis"} {
		if IsMarket(m) {
			t.Errorf("%s should not be a known market", m)
		}
	}
}
