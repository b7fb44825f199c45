/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

// A Column names a field of the remote screener. It is used to select
// output columns, to sort, and as the left (or right) hand side of filter
// expressions:
//
//	query.Column("close").Gt(5)
//	query.Column("close").Gte(query.Column("VWAP"))
//	query.Column("market_cap_basic").Between(1_000_000, 50_000_000)
//
// The comparison methods build Expression values; they never compare
// columns. Use Equal to compare two Column values.
type Column string

// Name returns the wire name of the column.
func (c Column) Name() string {
	return string(c)
}

func (c Column) String() string {
	return string(c)
}

// Equal reports whether c and other refer to the same field.
func (c Column) Equal(other Column) bool {
	return c == other
}

// operand keeps Column values typed so they can be told apart from string
// literals, and passes everything else through.
func operand(v any) any {
	switch t := v.(type) {
	case Column:
		return t
	case *Column:
		if t == nil {
			return nil
		}
		return *t
	}
	return v
}

func operands(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = operand(v)
	}
	return out
}

func (c Column) expr(op FilterOp, right any) Expression {
	return Expression{Left: c, Operation: op, Right: right}
}

func (c Column) Gt(other any) Expression {
	return c.expr(OpGreater, operand(other))
}

func (c Column) Gte(other any) Expression {
	return c.expr(OpEGreater, operand(other))
}

func (c Column) Lt(other any) Expression {
	return c.expr(OpLess, operand(other))
}

func (c Column) Lte(other any) Expression {
	return c.expr(OpELess, operand(other))
}

// Eq builds an "equal" filter. It does not compare columns, see Equal.
func (c Column) Eq(other any) Expression {
	return c.expr(OpEqual, operand(other))
}

func (c Column) Ne(other any) Expression {
	return c.expr(OpNEqual, operand(other))
}

func (c Column) Crosses(other any) Expression {
	return c.expr(OpCrosses, operand(other))
}

func (c Column) CrossesAbove(other any) Expression {
	return c.expr(OpCrossesAbove, operand(other))
}

func (c Column) CrossesBelow(other any) Expression {
	return c.expr(OpCrossesBelow, operand(other))
}

// Between is the inclusive range filter, equivalent to SQL BETWEEN.
func (c Column) Between(lo, hi any) Expression {
	return c.expr(OpInRange, []any{operand(lo), operand(hi)})
}

func (c Column) NotBetween(lo, hi any) Expression {
	return c.expr(OpNotInRange, []any{operand(lo), operand(hi)})
}

// In matches rows whose value is one of values. It shares the in_range
// operation code with Between; the server tells them apart by the shape of
// the right hand side.
func (c Column) In(values ...any) Expression {
	return c.expr(OpInRange, operands(values))
}

func (c Column) NotIn(values ...any) Expression {
	return c.expr(OpNotInRange, operands(values))
}

// Has matches set-typed fields containing any of values.
func (c Column) Has(values ...any) Expression {
	return c.expr(OpHas, operands(values))
}

// HasNoneOf matches set-typed fields containing none of values.
func (c Column) HasNoneOf(values ...any) Expression {
	return c.expr(OpHasNoneOf, operands(values))
}

// HasValue is Has with a single value sent as a scalar rather than a list.
func (c Column) HasValue(value any) Expression {
	return c.expr(OpHas, operand(value))
}

func (c Column) HasNoneOfValue(value any) Expression {
	return c.expr(OpHasNoneOf, operand(value))
}

// Like is a case-insensitive substring match, i.e. LOWER(col) LIKE '%x%'.
func (c Column) Like(other any) Expression {
	return c.expr(OpMatch, operand(other))
}

func (c Column) NotLike(other any) Expression {
	return c.expr(OpNMatch, operand(other))
}

func (c Column) Empty() Expression {
	return c.expr(OpEmpty, nil)
}

// NotEmpty matches rows where the field is not null.
func (c Column) NotEmpty() Expression {
	return c.expr(OpNEmpty, nil)
}

// AbovePct matches rows where c is above other by more than pct, e.g.
// Column("close").AbovePct("VWAP", 1.03) for more than 3% above VWAP.
func (c Column) AbovePct(other any, pct float64) Expression {
	return c.expr(OpAbovePct, []any{operand(other), pct})
}

func (c Column) BelowPct(other any, pct float64) Expression {
	return c.expr(OpBelowPct, []any{operand(other), pct})
}

// BetweenPct matches rows where the percentage change between c and other
// lies in [lo, hi]. Omitting hi sends an open upper bound.
func (c Column) BetweenPct(other any, lo float64, hi ...float64) Expression {
	return c.expr(OpInRangePct, pctRange(other, lo, hi))
}

func (c Column) NotBetweenPct(other any, lo float64, hi ...float64) Expression {
	return c.expr(OpNotInRangePct, pctRange(other, lo, hi))
}

func pctRange(other any, lo float64, hi []float64) []any {
	var upper any
	if len(hi) > 0 {
		upper = hi[0]
	}
	return []any{operand(other), lo, upper}
}

func (c Column) InDayRange(a, b int) Expression {
	return c.expr(OpInDayRange, []any{a, b})
}

func (c Column) InWeekRange(a, b int) Expression {
	return c.expr(OpInWeekRange, []any{a, b})
}

func (c Column) InMonthRange(a, b int) Expression {
	return c.expr(OpInMonthRange, []any{a, b})
}
