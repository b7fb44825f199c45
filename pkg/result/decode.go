/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package result

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeError is returned when a scan response does not have the
// {"totalCount": n, "data": [{"s": ticker, "d": [values...]}]} shape.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode: " + e.Reason
	}
	return fmt.Sprintf("decode: %s: %s", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type row struct {
	S string `json:"s"`
	D []any  `json:"d"`
}

func decodeRows(r io.Reader) (map[string]json.RawMessage, []row, error) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return nil, nil, &DecodeError{Reason: "invalid response body", Err: err}
	}

	raw, ok := body["data"]
	if !ok {
		return nil, nil, &DecodeError{Reason: `missing "data"`}
	}

	var rows []row
	if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, nil, &DecodeError{Reason: `invalid "data"`, Err: err}
		}
	}
	return body, rows, nil
}

// Decode reads a scan response and zips every row's values positionally
// with columns. columns must be the list the request was built with. A
// null or empty "data" yields a table with a header and no rows.
func Decode(r io.Reader, columns []string) (int, Table, error) {
	body, rows, err := decodeRows(r)
	if err != nil {
		return 0, Table{}, err
	}

	raw, ok := body["totalCount"]
	if !ok {
		return 0, Table{}, &DecodeError{Reason: `missing "totalCount"`}
	}
	var total int
	if err := json.Unmarshal(raw, &total); err != nil {
		return 0, Table{}, &DecodeError{Reason: `invalid "totalCount"`, Err: err}
	}

	table := Table{
		Columns: append([]string{TickerColumn}, columns...),
		Rows:    make([][]any, 0, len(rows)),
	}
	for i, rw := range rows {
		if len(rw.D) != len(columns) {
			return 0, Table{}, &DecodeError{
				Reason: fmt.Sprintf("row %d (%s) has %d values for %d columns", i, rw.S, len(rw.D), len(columns)),
			}
		}
		values := make([]any, 0, len(columns)+1)
		values = append(values, rw.S)
		values = append(values, rw.D...)
		table.Rows = append(table.Rows, values)
	}

	return total, table, nil
}

// DecodeSymbols reads the response of a symbol listing and returns the
// tickers in the order they were sent.
func DecodeSymbols(r io.Reader) ([]string, error) {
	_, rows, err := decodeRows(r)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(rows))
	for _, rw := range rows {
		symbols = append(symbols, rw.S)
	}
	return symbols, nil
}
