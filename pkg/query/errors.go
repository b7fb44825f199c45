/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownMarket = errors.New("unknown market")
	ErrNoMarkets     = errors.New("at least one market is required")
	ErrNoValues      = errors.New("at least one value is required")
	ErrBadProperty   = errors.New("property value does not fit the document key")
	ErrBadNode       = errors.New("unsupported filter node")
)

// InvalidConfiguration is returned for structurally invalid builder input,
// such as an unknown market, an empty market list, or a field name the
// configured Resolver does not recognize.
type InvalidConfiguration struct {
	Op    string
	Value string
	Err   error
}

func (e *InvalidConfiguration) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %q", e.Op, e.Err, e.Value)
}

func (e *InvalidConfiguration) Unwrap() error {
	return e.Err
}

func invalid(op, value string, err error) *InvalidConfiguration {
	return &InvalidConfiguration{Op: op, Value: value, Err: err}
}
