/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"bytes"
	"encoding/json"
	"sort"
)

// DefaultRange is the [offset, limit] window of a fresh query. It is an
// array so every document gets its own copy.
var DefaultRange = [2]int{0, 50}

const IndexPreset = "index_components_market_pages"

// DefaultColumns returns the columns selected by a fresh query.
func DefaultColumns() []string {
	return []string{"name", "close", "volume", "market_cap_basic"}
}

type Sort struct {
	SortBy     string `json:"sortBy"`
	SortOrder  string `json:"sortOrder"`
	NullsFirst *bool  `json:"nullsFirst,omitempty"`
}

type SymbolQuery struct {
	Types []string `json:"types"`
}

// Symbols scopes a query to explicit tickers or index members. A nil slice
// is left out of the wire form, an empty one is sent as [].
type Symbols struct {
	Query     *SymbolQuery
	Tickers   []string
	Symbolset []string
}

func (s Symbols) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	if s.Query != nil {
		m["query"] = s.Query
	}
	if s.Tickers != nil {
		m["tickers"] = s.Tickers
	}
	if s.Symbolset != nil {
		m["symbolset"] = s.Symbolset
	}
	return json.Marshal(m)
}

func (s *Symbols) UnmarshalJSON(b []byte) error {
	var in struct {
		Query     *SymbolQuery `json:"query"`
		Tickers   *[]string    `json:"tickers"`
		Symbolset *[]string    `json:"symbolset"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = Symbols{Query: in.Query}
	if in.Tickers != nil {
		s.Tickers = append([]string{}, (*in.Tickers)...)
	}
	if in.Symbolset != nil {
		s.Symbolset = append([]string{}, (*in.Symbolset)...)
	}
	return nil
}

func (s *Symbols) clone() *Symbols {
	if s == nil {
		return nil
	}
	c := &Symbols{
		Tickers:   cloneStrings(s.Tickers),
		Symbolset: cloneStrings(s.Symbolset),
	}
	if s.Query != nil {
		c.Query = &SymbolQuery{Types: cloneStrings(s.Query.Types)}
	}
	return c
}

// A Document is the JSON body sent to the scan endpoint. A nil slice or
// pointer is left out of the wire form, a non-nil empty slice is sent as
// []. Keys set through Query.SetProperty that have no typed slot are kept
// in Extra and sent after the typed keys.
type Document struct {
	Markets []string       `json:"markets"`
	Symbols *Symbols       `json:"symbols"`
	Options map[string]any `json:"options"`
	Columns []string       `json:"columns"`
	Filter  []Expression   `json:"filter"`
	Filter2 *Operation     `json:"filter2"`
	Sort    *Sort          `json:"sort"`
	Range   *[2]int        `json:"range"`
	Preset  string         `json:"preset"`
	Extra   map[string]any `json:"-"`
}

// documentJSON has the same fields as Document without its methods.
type documentJSON Document

var knownKeys = map[string]bool{
	"markets": true, "symbols": true, "options": true, "columns": true,
	"filter": true, "filter2": true, "sort": true, "range": true,
	"preset": true,
}

func newDocument() Document {
	r := DefaultRange
	return Document{
		Markets: []string{DefaultMarket},
		Symbols: &Symbols{Query: &SymbolQuery{Types: []string{}}, Tickers: []string{}},
		Options: map[string]any{"lang": "en"},
		Columns: DefaultColumns(),
		Sort:    &Sort{SortBy: "Value.Traded", SortOrder: "desc"},
		Range:   &r,
	}
}

type field struct {
	key   string
	value any
}

func (d Document) fields() []field {
	var out []field
	if d.Markets != nil {
		out = append(out, field{"markets", d.Markets})
	}
	if d.Symbols != nil {
		out = append(out, field{"symbols", d.Symbols})
	}
	if d.Options != nil {
		out = append(out, field{"options", d.Options})
	}
	if d.Columns != nil {
		out = append(out, field{"columns", d.Columns})
	}
	if d.Filter != nil {
		out = append(out, field{"filter", d.Filter})
	}
	if d.Filter2 != nil {
		out = append(out, field{"filter2", d.Filter2})
	}
	if d.Sort != nil {
		out = append(out, field{"sort", d.Sort})
	}
	if d.Range != nil {
		out = append(out, field{"range", d.Range})
	}
	if d.Preset != "" {
		out = append(out, field{"preset", d.Preset})
	}

	extra := make([]string, 0, len(d.Extra))
	for k := range d.Extra {
		extra = append(extra, k)
	}
	sort.Strings(extra)
	for _, k := range extra {
		out = append(out, field{k, d.Extra[k]})
	}
	return out
}

func (d Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var known documentJSON
	if err := json.Unmarshal(b, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = Document(known)
	for k, v := range raw {
		if knownKeys[k] {
			continue
		}
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return err
		}
		if d.Extra == nil {
			d.Extra = map[string]any{}
		}
		d.Extra[k] = value
	}
	return nil
}

// Clone returns a copy of d that shares no mutable state with it.
// Expression values are immutable and their operands are shared.
func (d Document) Clone() Document {
	c := Document{
		Markets: cloneStrings(d.Markets),
		Symbols: d.Symbols.clone(),
		Options: cloneMap(d.Options),
		Columns: cloneStrings(d.Columns),
		Preset:  d.Preset,
		Extra:   cloneMap(d.Extra),
	}
	if d.Filter != nil {
		c.Filter = append([]Expression{}, d.Filter...)
	}
	if d.Filter2 != nil {
		op := Operation{Operator: d.Filter2.Operator, Operands: append([]Node{}, d.Filter2.Operands...)}
		c.Filter2 = &op
	}
	if d.Sort != nil {
		s := *d.Sort
		if s.NullsFirst != nil {
			nf := *s.NullsFirst
			s.NullsFirst = &nf
		}
		c.Sort = &s
	}
	if d.Range != nil {
		r := *d.Range
		c.Range = &r
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
