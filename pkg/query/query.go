/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// A Query builds a request for the remote screener. Every setter mutates
// the query in place and returns it so calls can be chained:
//
//	q := query.New().
//		Select("name", "close", "volume").
//		Where(query.Column("close").Gt(5)).
//		OrderBy("volume", false, false).
//		Limit(10)
//
// The first invalid call is recorded and returned by Err, Build and
// Serialize. It leaves the query untouched, and later calls are ignored.
//
// A Query is not safe for concurrent use; Copy it before branching.
type Query struct {
	doc      Document
	market   string
	baseURL  string
	resolver Resolver
	err      error
}

type Option func(*Query)

// WithBaseURL sets the scheme and host the scan path is appended to.
func WithBaseURL(u string) Option {
	return func(q *Query) {
		q.baseURL = u
	}
}

// WithResolver sets the field name policy. The default is Passthrough.
func WithResolver(r Resolver) Option {
	return func(q *Query) {
		q.resolver = r
	}
}

// WithOption sets a key of the "options" object of the new query.
func WithOption(key string, value any) Option {
	return func(q *Query) {
		q.doc.Options[key] = value
	}
}

// New returns a query over the america market selecting DefaultColumns,
// sorted by traded value descending, with the DefaultRange window.
func New(opts ...Option) *Query {
	q := &Query{
		doc:      newDocument(),
		market:   DefaultMarket,
		baseURL:  DefaultBaseURL,
		resolver: Passthrough,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Load builds a query from a JSON document as sent on the wire. The URL
// path is derived from the document's symbols and markets.
func Load(b []byte, opts ...Option) (*Query, error) {
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, invalid("load", "", err)
	}

	q := New(opts...)
	q.doc = doc
	q.market = DefaultMarket

	for _, m := range doc.Markets {
		if !IsMarket(m) {
			return nil, invalid("load", m, ErrUnknownMarket)
		}
	}

	switch {
	case doc.Symbols != nil && (len(doc.Symbols.Tickers) > 0 || len(doc.Symbols.Symbolset) > 0):
		q.market = GlobalMarket
	case len(doc.Markets) == 1:
		q.market = doc.Markets[0]
	case len(doc.Markets) > 1, doc.Markets != nil && len(doc.Markets) == 0:
		q.market = GlobalMarket
	}

	return q, nil
}

func (q *Query) fail(err error) *Query {
	if q.err == nil {
		q.err = err
	}
	return q
}

// Err returns the first error recorded by a setter.
func (q *Query) Err() error {
	return q.err
}

// URL returns the scan endpoint the query will be posted to.
func (q *Query) URL() string {
	return ScanURL(q.baseURL, q.market)
}

// Market returns the URL path segment, a market code or GlobalMarket.
func (q *Query) Market() string {
	return q.market
}

// Columns returns the selected columns in request order.
func (q *Query) Columns() []string {
	return cloneStrings(q.doc.Columns)
}

// Document returns a copy of the request body.
func (q *Query) Document() Document {
	return q.doc.Clone()
}

// Select replaces the output columns. Order is kept and duplicates are
// sent as given.
func (q *Query) Select(columns ...Column) *Query {
	if q.err != nil {
		return q
	}

	names := make([]string, 0, len(columns))
	for _, c := range columns {
		name, err := q.resolver.Resolve(c.Name())
		if err != nil {
			return q.fail(err)
		}
		names = append(names, name)
	}

	q.doc.Columns = names
	return q
}

// Where replaces the filter list. The server joins the expressions with
// "and".
func (q *Query) Where(expressions ...Expression) *Query {
	if q.err != nil {
		return q
	}

	filter := make([]Expression, 0, len(expressions))
	for _, e := range expressions {
		resolved, err := q.resolveExpression(e)
		if err != nil {
			return q.fail(err)
		}
		filter = append(filter, resolved)
	}

	q.doc.Filter = filter
	return q
}

// Where2 replaces the filter tree. op is stored as the root node of the
// tree, its children are wrapped when the query is serialized.
func (q *Query) Where2(op Operation) *Query {
	if q.err != nil {
		return q
	}

	resolved, err := q.resolveNode(op)
	if err != nil {
		return q.fail(err)
	}

	root := resolved.(Operation)
	q.doc.Filter2 = &root
	return q
}

// OrderBy replaces the sort order.
func (q *Query) OrderBy(column Column, ascending, nullsFirst bool) *Query {
	if q.err != nil {
		return q
	}

	name, err := q.resolver.Resolve(column.Name())
	if err != nil {
		return q.fail(err)
	}

	order := "desc"
	if ascending {
		order = "asc"
	}

	q.doc.Sort = &Sort{SortBy: name, SortOrder: order, NullsFirst: &nullsFirst}
	return q
}

func (q *Query) window() *[2]int {
	if q.doc.Range == nil {
		r := DefaultRange
		q.doc.Range = &r
	}
	return q.doc.Range
}

// Limit sets the second element of the range window.
func (q *Query) Limit(limit int) *Query {
	if q.err != nil {
		return q
	}
	q.window()[1] = limit
	return q
}

// Offset sets the first element of the range window.
func (q *Query) Offset(offset int) *Query {
	if q.err != nil {
		return q
	}
	q.window()[0] = offset
	return q
}

// SetMarkets sets the markets to scan. A single market is queried on its
// own endpoint, several markets go to the global endpoint.
func (q *Query) SetMarkets(markets ...string) *Query {
	if q.err != nil {
		return q
	}

	if len(markets) == 0 {
		return q.fail(invalid("set_markets", "", ErrNoMarkets))
	}
	for _, m := range markets {
		if !IsMarket(m) {
			return q.fail(invalid("set_markets", m, ErrUnknownMarket))
		}
	}

	q.doc.Markets = cloneStrings(markets)
	if len(markets) == 1 {
		q.market = markets[0]
	} else {
		q.market = GlobalMarket
	}
	return q
}

// symbols returns a copy of the symbols scope to modify, so ticker and
// index scope can be combined.
func (q *Query) symbols() *Symbols {
	if s := q.doc.Symbols.clone(); s != nil {
		return s
	}
	return &Symbols{}
}

// SetTickers restricts the query to the given "EXCHANGE:SYMBOL" tickers.
// Ticker scope replaces market scope and uses the global endpoint.
func (q *Query) SetTickers(tickers ...string) *Query {
	if q.err != nil {
		return q
	}
	if len(tickers) == 0 {
		return q.fail(invalid("set_tickers", "", ErrNoValues))
	}

	symbols := q.symbols()
	symbols.Tickers = cloneStrings(tickers)
	q.doc.Symbols = symbols
	q.doc.Markets = nil
	q.market = GlobalMarket
	return q
}

// SetIndex restricts the query to the members of the given indexes, for
// example "SYML:SP;SPX". Index scope uses the global endpoint.
func (q *Query) SetIndex(indexes ...string) *Query {
	if q.err != nil {
		return q
	}
	if len(indexes) == 0 {
		return q.fail(invalid("set_index", "", ErrNoValues))
	}

	if q.doc.Preset == "" {
		q.doc.Preset = IndexPreset
	}
	symbols := q.symbols()
	symbols.Symbolset = cloneStrings(indexes)
	q.doc.Symbols = symbols
	q.doc.Markets = nil
	q.market = GlobalMarket
	return q
}

// SetOption sets a key of the "options" object, e.g. "lang".
func (q *Query) SetOption(key string, value any) *Query {
	if q.err != nil {
		return q
	}
	options := cloneMap(q.doc.Options)
	if options == nil {
		options = map[string]any{}
	}
	options[key] = value
	q.doc.Options = options
	return q
}

// SetProperty sets an arbitrary document key. Keys with a typed slot are
// decoded into it and must have a compatible shape; "markets" goes through
// SetMarkets. Other keys are sent verbatim.
func (q *Query) SetProperty(key string, value any) *Query {
	if q.err != nil {
		return q
	}

	if !knownKeys[key] {
		extra := cloneMap(q.doc.Extra)
		if extra == nil {
			extra = map[string]any{}
		}
		extra[key] = value
		q.doc.Extra = extra
		return q
	}

	b, err := json.Marshal(map[string]any{key: value})
	if err != nil {
		return q.fail(invalid("set_property", key, fmt.Errorf("%w: %v", ErrBadProperty, err)))
	}
	var tmp documentJSON
	if err := json.Unmarshal(b, &tmp); err != nil {
		return q.fail(invalid("set_property", key, fmt.Errorf("%w: %v", ErrBadProperty, err)))
	}

	switch key {
	case "markets":
		return q.SetMarkets(tmp.Markets...)
	case "symbols":
		q.doc.Symbols = tmp.Symbols
	case "options":
		q.doc.Options = tmp.Options
	case "columns":
		q.doc.Columns = tmp.Columns
	case "filter":
		q.doc.Filter = tmp.Filter
	case "filter2":
		q.doc.Filter2 = tmp.Filter2
	case "sort":
		q.doc.Sort = tmp.Sort
	case "range":
		q.doc.Range = tmp.Range
	case "preset":
		q.doc.Preset = tmp.Preset
	}
	return q
}

// A Request is a serialized query. Columns is the column list the body was
// built with and must be used to decode the response rows.
type Request struct {
	URL     string
	Body    []byte
	Columns []string
}

// Build serializes the query. A query without a range window is sent with
// DefaultRange. Build does not modify q.
func (q *Query) Build() (Request, error) {
	if q.err != nil {
		return Request{}, q.err
	}

	doc := q.doc.Clone()
	if doc.Range == nil {
		r := DefaultRange
		doc.Range = &r
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return Request{}, err
	}

	return Request{URL: q.URL(), Body: body, Columns: doc.Columns}, nil
}

// Serialize returns the target URL and the JSON body of the query.
func (q *Query) Serialize() (string, []byte, error) {
	req, err := q.Build()
	if err != nil {
		return "", nil, err
	}
	return req.URL, req.Body, nil
}

func (q *Query) MarshalJSON() ([]byte, error) {
	_, body, err := q.Serialize()
	return body, err
}

// Copy returns an independent query with a deep copy of the document.
func (q *Query) Copy() *Query {
	c := *q
	c.doc = q.doc.Clone()
	return &c
}

// Equal reports whether both queries target the same URL with the same
// document.
func (q *Query) Equal(other *Query) bool {
	if other == nil {
		return false
	}
	a, errA := json.Marshal(q.doc)
	b, errB := json.Marshal(other.doc)
	if errA != nil || errB != nil {
		return false
	}
	return q.URL() == other.URL() && bytes.Equal(a, b)
}

func (q *Query) String() string {
	b, err := json.MarshalIndent(q.doc, "", "  ")
	if err != nil {
		return fmt.Sprintf("< invalid query: %v >", err)
	}
	return fmt.Sprintf("< %s\n url=%q >", b, q.URL())
}

func (q *Query) resolveExpression(e Expression) (Expression, error) {
	left, err := q.resolver.Resolve(e.Left.Name())
	if err != nil {
		return Expression{}, err
	}
	e.Left = Column(left)

	switch right := e.Right.(type) {
	case Column:
		name, err := q.resolver.Resolve(right.Name())
		if err != nil {
			return Expression{}, err
		}
		e.Right = Column(name)
	case []any:
		values := make([]any, len(right))
		for i, v := range right {
			if c, ok := v.(Column); ok {
				name, err := q.resolver.Resolve(c.Name())
				if err != nil {
					return Expression{}, err
				}
				v = Column(name)
			}
			values[i] = v
		}
		e.Right = values
	}

	return e, nil
}

func (q *Query) resolveNode(n Node) (Node, error) {
	switch t := deref(n).(type) {
	case Expression:
		return q.resolveExpression(t)
	case Operation:
		operands := make([]Node, 0, len(t.Operands))
		for _, child := range t.Operands {
			resolved, err := q.resolveNode(child)
			if err != nil {
				return nil, err
			}
			operands = append(operands, resolved)
		}
		return Operation{Operator: t.Operator, Operands: operands}, nil
	}
	return nil, invalid("where2", fmt.Sprintf("%T", n), ErrBadNode)
}
