/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package result

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// TickerColumn is the header of the first column of every Table.
const TickerColumn = "ticker"

// A Table is a decoded scan response. Columns is the ticker column followed
// by the selected columns in request order; every row has one value per
// column.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func (t Table) Len() int {
	return len(t.Rows)
}

func (t Table) Headers() []string {
	return t.Columns
}

// Raw returns the decoded rows with their JSON types.
func (t Table) Raw() [][]any {
	return t.Rows
}

// Values returns the rows formatted as plain strings, suitable for CSV.
func (t Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			line[i] = formatPlain(v)
		}
		out = append(out, line)
	}
	return out
}

// Pretty returns the rows formatted for reading: numbers get thousands
// separators and technical rating columns are shown as their rating.
func (t Table) Pretty() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		line := make([]string, len(row))
		for i, v := range row {
			column := ""
			if i < len(t.Columns) {
				column = t.Columns[i]
			}
			line[i] = formatPretty(column, v)
		}
		out = append(out, line)
	}
	return out
}

// SymbolTable returns a single column table holding the given tickers.
func SymbolTable(symbols []string) Table {
	t := Table{Columns: []string{TickerColumn}, Rows: make([][]any, 0, len(symbols))}
	for _, s := range symbols {
		t.Rows = append(t.Rows, []any{s})
	}
	return t
}

// Tickers returns the first column of every row.
func (t Table) Tickers() []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if len(row) == 0 {
			continue
		}
		if s, ok := row[0].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func formatPlain(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// IsRatingColumn reports whether column holds a technical rating in [-1, 1].
func IsRatingColumn(column string) bool {
	return strings.HasPrefix(column, "Recommend.")
}

func formatPretty(column string, v any) string {
	f, ok := v.(float64)
	if !ok {
		return formatPlain(v)
	}
	if IsRatingColumn(column) {
		return FormatTechnicalRating(f)
	}
	return humanize.CommafWithDigits(f, 2)
}

// FormatTechnicalRating maps a rating in [-1, 1] to its label.
func FormatTechnicalRating(rating float64) string {
	switch {
	case rating >= 0.5:
		return "Strong Buy"
	case rating >= 0.1:
		return "Buy"
	case rating >= -0.1:
		return "Neutral"
	case rating >= -0.5:
		return "Sell"
	}
	return "Strong Sell"
}
