/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
)

func serialize(t *testing.T, q *Query) (string, string) {
	t.Helper()
	url, body, err := q.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	return url, string(body)
}

func TestDefaultQuery(t *testing.T) {
	url, body := serialize(t, New())

	want := `{"markets":["america"],"symbols":{"query":{"types":[]},"tickers":[]},` +
		`"options":{"lang":"en"},"columns":["name","close","volume","market_cap_basic"],` +
		`"sort":{"sortBy":"Value.Traded","sortOrder":"desc"},"range":[0,50]}`

	if url != "https://scanner.tradingview.com/america/scan" {
		t.Errorf("unexpected url %s", url)
	}
	if body != want {
		t.Errorf("Expectation not met:\n%s", diff.LineDiff(want, body))
	}
}

func TestSetMarkets(t *testing.T) {
	tt := []struct {
		markets []string
		url     string
	}{
		{[]string{"crypto"}, "https://scanner.tradingview.com/crypto/scan"},
		{[]string{"forex"}, "https://scanner.tradingview.com/forex/scan"},
		{[]string{"america"}, "https://scanner.tradingview.com/america/scan"},
		{[]string{"israel"}, "https://scanner.tradingview.com/israel/scan"},
		{[]string{"america", "israel"}, "https://scanner.tradingview.com/global/scan"},
		{[]string{"crypto", "israel"}, "https://scanner.tradingview.com/global/scan"},
	}

	for _, tc := range tt {
		t.Run(strings.Join(tc.markets, ","), func(t *testing.T) {
			q := New().SetMarkets(tc.markets...)
			if q.Err() != nil {
				t.Fatal(q.Err())
			}
			if q.URL() != tc.url {
				t.Errorf("url mismatch: %s != %s", q.URL(), tc.url)
			}
			doc := q.Document()
			if strings.Join(doc.Markets, ",") != strings.Join(tc.markets, ",") {
				t.Errorf("markets mismatch: %v != %v", doc.Markets, tc.markets)
			}
		})
	}
}

func TestSetMarketsInvalid(t *testing.T) {
	q := New().SetMarkets()
	if !errors.Is(q.Err(), ErrNoMarkets) {
		t.Errorf("wanted ErrNoMarkets, got %v", q.Err())
	}

	q = New().SetMarkets("america", "atlantis")
	var invalid *InvalidConfiguration
	if !errors.As(q.Err(), &invalid) || invalid.Value != "atlantis" {
		t.Fatalf("wanted InvalidConfiguration for atlantis, got %v", q.Err())
	}
	if q.URL() != "https://scanner.tradingview.com/america/scan" {
		t.Errorf("failed call should not change the url, got %s", q.URL())
	}
	if got := q.Document().Markets; len(got) != 1 || got[0] != "america" {
		t.Errorf("failed call should not change markets, got %v", got)
	}

	if _, _, err := q.Serialize(); err == nil {
		t.Error("Serialize should return the recorded error")
	}

	// later calls are ignored once an error is recorded
	q.Limit(5)
	if q.Document().Range[1] != 50 {
		t.Error("calls after an error should not mutate the query")
	}
}

func TestLimitOffset(t *testing.T) {
	tt := []struct {
		test   string
		build  func(q *Query) *Query
		offset int
		limit  int
	}{
		{"limit then offset", func(q *Query) *Query { return q.Limit(10).Offset(5) }, 5, 10},
		{"offset then limit", func(q *Query) *Query { return q.Offset(5).Limit(10) }, 5, 10},
		{"only limit", func(q *Query) *Query { return q.Limit(100) }, 0, 100},
		{"only offset", func(q *Query) *Query { return q.Offset(20) }, 20, 50},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			q := tc.build(New())
			r := q.Document().Range
			if r[0] != tc.offset || r[1] != tc.limit {
				t.Errorf("range mismatch: %v != [%d %d]", *r, tc.offset, tc.limit)
			}
		})
	}

	if DefaultRange != [2]int{0, 50} {
		t.Errorf("DefaultRange was mutated: %v", DefaultRange)
	}
	if r := New().Document().Range; r[0] != 0 || r[1] != 50 {
		t.Errorf("fresh query should start at the default window, got %v", *r)
	}
}

func TestLimitWithoutRange(t *testing.T) {
	q := New().SetProperty("range", nil)
	if q.Document().Range != nil {
		t.Fatal("range should have been cleared")
	}

	_, body := serialize(t, q)
	if !strings.Contains(body, `"range":[0,50]`) {
		t.Errorf("serialized query should fall back to the default window: %s", body)
	}
	if q.Document().Range != nil {
		t.Error("Serialize should not modify the query")
	}

	q.Limit(7)
	if r := q.Document().Range; r == nil || r[0] != 0 || r[1] != 7 {
		t.Errorf("limit should initialize the window, got %v", r)
	}
}

func TestSelect(t *testing.T) {
	q := New().Select("close", "volume", "close")
	if got := strings.Join(q.Columns(), ","); got != "close,volume,close" {
		t.Errorf("columns mismatch: %s", got)
	}

	q = New(WithResolver(Catalog)).Select("52 Week High", "close")
	if got := strings.Join(q.Columns(), ","); got != "price_52_week_high,close" {
		t.Errorf("columns mismatch: %s", got)
	}

	q = New(WithResolver(Catalog)).Select("close", "not a field")
	if !errors.Is(q.Err(), ErrUnknownField) {
		t.Errorf("wanted ErrUnknownField, got %v", q.Err())
	}
	if got := strings.Join(q.Columns(), ","); got != "name,close,volume,market_cap_basic" {
		t.Errorf("failed select should not change columns, got %s", got)
	}
}

func TestWhere(t *testing.T) {
	q := New().
		Select("close", "volume").
		Where(Column("close").Gt(5)).
		Where(Column("close").Lt(3), Column("volume").Gte(Column("average_volume_10d_calc")))

	_, body := serialize(t, q)
	want := `"filter":[{"left":"close","operation":"less","right":3},` +
		`{"left":"volume","operation":"egreater","right":"average_volume_10d_calc"}]`
	if !strings.Contains(body, want) {
		t.Errorf("where should replace the filter list:\n%s", diff.LineDiff(want, body))
	}
}

func TestWhereResolvesFields(t *testing.T) {
	q := New(WithResolver(Catalog)).Where(Column("Price").Gte(Column("VWAP")))
	doc := q.Document()
	if doc.Filter[0].Left != "close" {
		t.Errorf("left should resolve to close, got %s", doc.Filter[0].Left)
	}

	q = New(WithResolver(Catalog)).Where(Column("close").Between(Column("bogus"), 3))
	if !errors.Is(q.Err(), ErrUnknownField) {
		t.Errorf("wanted ErrUnknownField, got %v", q.Err())
	}

	// string literals are never resolved
	q = New(WithResolver(Catalog)).Where(Column("type").Eq("stock"))
	if q.Err() != nil {
		t.Errorf("literal operand should pass through, got %v", q.Err())
	}
}

func TestWhere2(t *testing.T) {
	q := New().Where2(And(Or(Column("close").Gt(5), Column("volume").Lt(10))))

	_, body := serialize(t, q)
	want := `"filter2":{"operator":"and","operands":[{"operation":{"operator":"or","operands":[` +
		`{"expression":{"left":"close","operation":"greater","right":5}},` +
		`{"expression":{"left":"volume","operation":"less","right":10}}]}}]}`
	if !strings.Contains(body, want) {
		t.Errorf("Expectation not met:\n%s", diff.LineDiff(want, body))
	}
	if strings.Contains(body, `"filter2":{"operation"`) {
		t.Error("the root of filter2 should not be wrapped")
	}
}

func TestFilterAndFilter2Coexist(t *testing.T) {
	q := New().
		Where(Column("close").Gt(1)).
		Where2(Or(Column("type").Eq("stock"), Column("type").Eq("fund")))

	doc := q.Document()
	if len(doc.Filter) != 1 || doc.Filter2 == nil {
		t.Errorf("filter and filter2 should both be set: %+v", doc)
	}
}

func TestOrderBy(t *testing.T) {
	_, body := serialize(t, New().OrderBy("premarket_change", false, true))
	if !strings.Contains(body, `"sort":{"sortBy":"premarket_change","sortOrder":"desc","nullsFirst":true}`) {
		t.Errorf("unexpected sort in %s", body)
	}

	_, body = serialize(t, New().OrderBy("volume", true, false))
	if !strings.Contains(body, `"sort":{"sortBy":"volume","sortOrder":"asc","nullsFirst":false}`) {
		t.Errorf("unexpected sort in %s", body)
	}
}

func TestSetTickers(t *testing.T) {
	q := New().SetTickers("NASDAQ:TSLA", "NYSE:GME")
	url, body := serialize(t, q)

	if url != "https://scanner.tradingview.com/global/scan" {
		t.Errorf("unexpected url %s", url)
	}
	if strings.Contains(body, `"markets"`) {
		t.Errorf("markets should be omitted for ticker scope: %s", body)
	}
	if !strings.Contains(body, `"symbols":{"query":{"types":[]},"tickers":["NASDAQ:TSLA","NYSE:GME"]}`) {
		t.Errorf("unexpected symbols in %s", body)
	}

	if !errors.Is(New().SetTickers().Err(), ErrNoValues) {
		t.Error("empty ticker list should be rejected")
	}
}

func TestSetIndex(t *testing.T) {
	q := New().SetIndex("SYML:SP;SPX")
	url, body := serialize(t, q)

	if url != "https://scanner.tradingview.com/global/scan" {
		t.Errorf("unexpected url %s", url)
	}
	if !strings.Contains(body, `"symbols":{"query":{"types":[]},"symbolset":["SYML:SP;SPX"],"tickers":[]}`) {
		t.Errorf("unexpected symbols in %s", body)
	}
	if !strings.Contains(body, `"preset":"index_components_market_pages"`) {
		t.Errorf("missing index preset in %s", body)
	}

	q = New().SetProperty("preset", "pre-market-gainers").SetIndex("SYML:SP;SPX")
	if q.Document().Preset != "pre-market-gainers" {
		t.Error("an existing preset should be kept")
	}
}

func TestTickerAndIndexScopeCombine(t *testing.T) {
	tt := []struct {
		name  string
		query *Query
	}{
		{"index then tickers", New().SetIndex("SYML:SP;SPX").SetTickers("NASDAQ:AAPL")},
		{"tickers then index", New().SetTickers("NASDAQ:AAPL").SetIndex("SYML:SP;SPX")},
	}

	want := `"symbols":{"query":{"types":[]},"symbolset":["SYML:SP;SPX"],"tickers":["NASDAQ:AAPL"]}`
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			url, body := serialize(t, tc.query)
			if !strings.Contains(body, want) {
				t.Errorf("Expectation not met:\n%s", diff.LineDiff(want, body))
			}
			if !strings.Contains(body, `"preset":"index_components_market_pages"`) {
				t.Errorf("missing index preset in %s", body)
			}
			if !strings.HasSuffix(url, "/global/scan") {
				t.Errorf("unexpected url %s", url)
			}
		})
	}

	a := New().SetTickers("NASDAQ:AAPL")
	b := a.Copy().SetIndex("SYML:SP;SPX")
	if a.Document().Symbols.Symbolset != nil {
		t.Error("SetIndex on a copy leaked into the original")
	}
	if b.Document().Symbols.Tickers[0] != "NASDAQ:AAPL" {
		t.Error("SetIndex should keep the tickers")
	}
}

func TestEmptyListsAreSent(t *testing.T) {
	_, body := serialize(t, New().Select().Where())

	for _, want := range []string{`"columns":[]`, `"filter":[]`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
	if strings.Contains(body, `"filter2"`) {
		t.Errorf("an unset filter tree should be left out: %s", body)
	}
}

func TestLoadKeepsEmptyLists(t *testing.T) {
	body := `{"markets":[],"symbols":{"tickers":["NYSE:GME"]},"options":{"lang":"en"},` +
		`"columns":[],"filter":[],"sort":{"sortBy":"close","sortOrder":"desc"},"range":[0,5]}`

	q, err := Load([]byte(body))
	if err != nil {
		t.Fatal(err)
	}

	url, again := serialize(t, q)
	if again != body {
		t.Errorf("Expectation not met:\n%s", diff.LineDiff(body, again))
	}
	if !strings.HasSuffix(url, "/global/scan") {
		t.Errorf("unexpected url %s", url)
	}

	q, err = Load([]byte(`{"markets":[],"columns":["close"]}`))
	if err != nil {
		t.Fatal(err)
	}
	if q.Market() != GlobalMarket {
		t.Errorf("an empty market list should use the global endpoint, got %s", q.Market())
	}
}

func TestSetProperty(t *testing.T) {
	q := New().
		SetProperty("ignore_unknown_fields", false).
		SetProperty("price_conversion", map[string]any{"to_currency": "usd"}).
		SetProperty("options", map[string]any{"lang": "it"})

	_, body := serialize(t, q)
	want := `{"markets":["america"],"symbols":{"query":{"types":[]},"tickers":[]},` +
		`"options":{"lang":"it"},"columns":["name","close","volume","market_cap_basic"],` +
		`"sort":{"sortBy":"Value.Traded","sortOrder":"desc"},"range":[0,50],` +
		`"ignore_unknown_fields":false,"price_conversion":{"to_currency":"usd"}}`
	if body != want {
		t.Errorf("Expectation not met:\n%s", diff.LineDiff(want, body))
	}

	q = New().SetProperty("markets", []string{"crypto"})
	if q.URL() != "https://scanner.tradingview.com/crypto/scan" {
		t.Errorf("markets property should update the url, got %s", q.URL())
	}

	q = New().SetProperty("range", "not a range")
	if !errors.Is(q.Err(), ErrBadProperty) {
		t.Errorf("wanted ErrBadProperty, got %v", q.Err())
	}
	if !strings.Contains(q.Err().Error(), "cannot unmarshal string") {
		t.Errorf("the decoding failure should be part of the error, got %v", q.Err())
	}
}

func TestSetOption(t *testing.T) {
	a := New()
	b := a.Copy().SetOption("active_symbols_only", true)

	if _, ok := a.Document().Options["active_symbols_only"]; ok {
		t.Error("SetOption on a copy leaked into the original")
	}
	if b.Document().Options["lang"] != "en" {
		t.Error("SetOption should keep existing options")
	}
}

func TestCopy(t *testing.T) {
	a := New().Where(Column("close").Gt(1)).Where2(And(Column("close").Gt(1)))
	b := a.Copy()

	b.Limit(10).Offset(3).SetMarkets("crypto").Select("close")
	b.Where(Column("close").Lt(2))

	doc := a.Document()
	if doc.Range[0] != 0 || doc.Range[1] != 50 {
		t.Errorf("copy shares the range window: %v", *doc.Range)
	}
	if doc.Markets[0] != "america" || a.URL() != "https://scanner.tradingview.com/america/scan" {
		t.Error("copy shares market scope")
	}
	if len(doc.Columns) != 4 {
		t.Error("copy shares columns")
	}
	if doc.Filter[0].Operation != OpGreater {
		t.Error("copy shares the filter list")
	}

	b.SetTickers("NASDAQ:AAPL")
	if a.Document().Symbols.Tickers == nil {
		t.Error("copy shares symbols")
	}

	if !a.Copy().Equal(a) {
		t.Error("a copy should equal its original")
	}
	if a.Equal(b) {
		t.Error("diverged copies should not be equal")
	}
}

func TestDocumentIsACopy(t *testing.T) {
	q := New()
	doc := q.Document()
	doc.Columns[0] = "changed"
	doc.Range[1] = 1
	doc.Symbols.Query.Types = append(doc.Symbols.Query.Types, "stock")

	if q.Columns()[0] != "name" || q.Document().Range[1] != 50 || len(q.Document().Symbols.Query.Types) != 0 {
		t.Error("Document should not expose internal state")
	}
}

func TestLoad(t *testing.T) {
	orig := New().
		SetMarkets("america", "israel").
		Select("close", "volume").
		Where(Column("close").Gt(5)).
		Where2(Or(Column("type").Eq("stock"), And(Column("type").Eq("fund"), Column("typespecs").HasNoneOf("etf")))).
		OrderBy("volume", false, false).
		SetProperty("ignore_unknown_fields", false)

	_, body := serialize(t, orig)

	loaded, err := Load([]byte(body))
	if err != nil {
		t.Fatal(err)
	}

	url, again := serialize(t, loaded)
	if url != orig.URL() {
		t.Errorf("url mismatch: %s != %s", url, orig.URL())
	}
	if again != body {
		t.Errorf("Expectation not met:\n%s", diff.LineDiff(body, again))
	}
}

func TestLoadDerivesURL(t *testing.T) {
	tt := []struct {
		test  string
		input string
		url   string
	}{
		{"no markets", `{"columns":["close"]}`, "https://scanner.tradingview.com/america/scan"},
		{"one market", `{"markets":["crypto"]}`, "https://scanner.tradingview.com/crypto/scan"},
		{"two markets", `{"markets":["crypto","forex"]}`, "https://scanner.tradingview.com/global/scan"},
		{"tickers", `{"markets":["america"],"symbols":{"tickers":["NASDAQ:AAPL"]}}`, "https://scanner.tradingview.com/global/scan"},
		{"symbolset", `{"symbols":{"symbolset":["SYML:SP;SPX"]}}`, "https://scanner.tradingview.com/global/scan"},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			q, err := Load([]byte(tc.input))
			if err != nil {
				t.Fatal(err)
			}
			if q.URL() != tc.url {
				t.Errorf("url mismatch: %s != %s", q.URL(), tc.url)
			}
		})
	}

	if _, err := Load([]byte(`{"markets":["atlantis"]}`)); !errors.Is(err, ErrUnknownMarket) {
		t.Errorf("wanted ErrUnknownMarket, got %v", err)
	}
	if _, err := Load([]byte(`{`)); err == nil {
		t.Error("malformed JSON should fail to load")
	}
}

func TestBaseURL(t *testing.T) {
	q := New(WithBaseURL("http://127.0.0.1:8080/")).SetMarkets("uk")
	if q.URL() != "http://127.0.0.1:8080/uk/scan" {
		t.Errorf("unexpected url %s", q.URL())
	}
}

func TestBuildColumnsSnapshot(t *testing.T) {
	q := New().Select("close", "volume")
	req, err := q.Build()
	if err != nil {
		t.Fatal(err)
	}

	q.Select("open")
	if strings.Join(req.Columns, ",") != "close,volume" {
		t.Errorf("request columns should not follow later selects, got %v", req.Columns)
	}
}

func TestString(t *testing.T) {
	s := New().String()
	if !strings.HasPrefix(s, "< {") || !strings.Contains(s, `url="https://scanner.tradingview.com/america/scan"`) {
		t.Errorf("unexpected repr %s", s)
	}
}

func TestWithOption(t *testing.T) {
	q := New(WithOption("lang", "it"))
	if q.Document().Options["lang"] != "it" {
		t.Errorf("unexpected options %v", q.Document().Options)
	}
	if New().Document().Options["lang"] != "en" {
		t.Error("WithOption leaked into a fresh query")
	}
}
