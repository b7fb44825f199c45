/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package result

import (
	"reflect"
	"testing"
)

func TestFormatTechnicalRating(t *testing.T) {
	tt := []struct {
		rating float64
		want   string
	}{
		{1, "Strong Buy"},
		{0.5, "Strong Buy"},
		{0.49, "Buy"},
		{0.1, "Buy"},
		{0.05, "Neutral"},
		{-0.1, "Neutral"},
		{-0.2, "Sell"},
		{-0.5, "Sell"},
		{-0.51, "Strong Sell"},
		{-1, "Strong Sell"},
	}

	for _, tc := range tt {
		if got := FormatTechnicalRating(tc.rating); got != tc.want {
			t.Errorf("rating %v: %s != %s", tc.rating, got, tc.want)
		}
	}
}

func TestTableValues(t *testing.T) {
	table := Table{
		Columns: []string{"ticker", "close", "volume", "Recommend.All", "is_primary", "sector"},
		Rows: [][]any{
			{"NASDAQ:TSLA", 248.5, float64(118559595), 0.6, true, nil},
		},
	}

	plain := [][]string{{"NASDAQ:TSLA", "248.5", "118559595", "0.6", "true", ""}}
	if got := table.Values(); !reflect.DeepEqual(got, plain) {
		t.Errorf("plain values mismatch: %v != %v", got, plain)
	}

	pretty := [][]string{{"NASDAQ:TSLA", "248.5", "118,559,595", "Strong Buy", "true", ""}}
	if got := table.Pretty(); !reflect.DeepEqual(got, pretty) {
		t.Errorf("pretty values mismatch: %v != %v", got, pretty)
	}

	if got := table.Tickers(); !reflect.DeepEqual(got, []string{"NASDAQ:TSLA"}) {
		t.Errorf("tickers mismatch: %v", got)
	}
}

func TestSymbolTable(t *testing.T) {
	symbols := []string{"NASDAQ:TSLA", "NYSE:GME"}
	table := SymbolTable(symbols)

	if !reflect.DeepEqual(table.Headers(), []string{TickerColumn}) {
		t.Errorf("unexpected headers %v", table.Headers())
	}
	if !reflect.DeepEqual(table.Tickers(), symbols) {
		t.Errorf("%v != %v", table.Tickers(), symbols)
	}
}
