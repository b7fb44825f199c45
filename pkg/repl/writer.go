/*
 * Copyright (c) 2023, Gideon Williams gideon@gideonw.com
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Printable is anything with a header row and string cells.
type Printable interface {
	Headers() []string
	Values() [][]string
}

// prettyPrinter is implemented by values with a human friendly rendering
// of their cells, used by the text writer.
type prettyPrinter interface {
	Pretty() [][]string
}

// rawPrinter is implemented by values that keep typed cells, used by the
// JSON writer so numbers stay numbers.
type rawPrinter interface {
	Raw() [][]any
}

type OutputWriter interface {
	Write(v Printable) error
}

type CSVWriter struct {
	w io.Writer
}

type TextWriter struct {
	w io.Writer
}

type JSONWriter struct {
	w io.Writer
}

func NewOutputWriter(w io.Writer, t string) OutputWriter {
	switch t {
	case "csv":
		return CSVWriter{
			w,
		}
	case "json":
		return JSONWriter{
			w,
		}
	}
	return TextWriter{
		w,
	}
}

func (w CSVWriter) Write(v Printable) error {
	wtr := csv.NewWriter(w.w)
	if err := wtr.Write(v.Headers()); err != nil {
		return err
	}
	return wtr.WriteAll(v.Values())
}

func (w TextWriter) Write(v Printable) error {
	rows := v.Values()
	if p, ok := v.(prettyPrinter); ok {
		rows = p.Pretty()
	}

	header := make([]any, 0, len(v.Headers()))
	for _, h := range v.Headers() {
		header = append(header, h)
	}

	table := tablewriter.NewWriter(w.w)
	table.Header(header...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

type jsonDocument struct {
	Headers []string `json:"headers"`
	Values  any      `json:"values"`
}

// Write encodes every Printable as {"headers": [...], "values": [[...]]}.
func (w JSONWriter) Write(v Printable) error {
	doc := jsonDocument{Headers: v.Headers()}
	if doc.Headers == nil {
		doc.Headers = []string{}
	}

	if r, ok := v.(rawPrinter); ok {
		raw := r.Raw()
		if raw == nil {
			raw = [][]any{}
		}
		doc.Values = raw
	} else {
		values := v.Values()
		if values == nil {
			values = [][]string{}
		}
		doc.Values = values
	}

	enc := json.NewEncoder(w.w)
	return enc.Encode(doc)
}
