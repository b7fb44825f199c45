/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FilterOp is the operation code of a single filter expression.
type FilterOp string

const (
	OpGreater       FilterOp = "greater"
	OpEGreater      FilterOp = "egreater"
	OpLess          FilterOp = "less"
	OpELess         FilterOp = "eless"
	OpEqual         FilterOp = "equal"
	OpNEqual        FilterOp = "nequal"
	OpInRange       FilterOp = "in_range"
	OpNotInRange    FilterOp = "not_in_range"
	OpEmpty         FilterOp = "empty"
	OpNEmpty        FilterOp = "nempty"
	OpCrosses       FilterOp = "crosses"
	OpCrossesAbove  FilterOp = "crosses_above"
	OpCrossesBelow  FilterOp = "crosses_below"
	OpMatch         FilterOp = "match"
	OpNMatch        FilterOp = "nmatch"
	OpHas           FilterOp = "has"
	OpHasNoneOf     FilterOp = "has_none_of"
	OpAbovePct      FilterOp = "above%"
	OpBelowPct      FilterOp = "below%"
	OpInRangePct    FilterOp = "in_range%"
	OpNotInRangePct FilterOp = "not_in_range%"
	OpInDayRange    FilterOp = "in_day_range"
	OpInWeekRange   FilterOp = "in_week_range"
	OpInMonthRange  FilterOp = "in_month_range"
	OpSimpleMatch   FilterOp = "smatch"
)

// Logic is the operator of an Operation node.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Node is one of the two kinds of filter tree nodes: an Expression (leaf)
// or an Operation (and/or over child nodes). No other type implements it.
type Node interface {
	isNode()
}

// An Expression is a single predicate: Left compared to Right by Operation.
// Right is nil only for the empty/nempty operations.
type Expression struct {
	Left      Column   `json:"left"`
	Operation FilterOp `json:"operation"`
	Right     any      `json:"right"`
}

// An Operation joins its operands with "and" or "or".
type Operation struct {
	Operator Logic
	Operands []Node
}

func (Expression) isNode() {}
func (Operation) isNode() {}

// And joins nodes with the "and" operator.
func And(nodes ...Node) Operation {
	return combine(LogicAnd, nodes)
}

// Or joins nodes with the "or" operator.
func Or(nodes ...Node) Operation {
	return combine(LogicOr, nodes)
}

func combine(op Logic, nodes []Node) Operation {
	operands := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		operands = append(operands, deref(n))
	}
	return Operation{Operator: op, Operands: operands}
}

func deref(n Node) Node {
	switch t := n.(type) {
	case *Expression:
		if t != nil {
			return *t
		}
	case *Operation:
		if t != nil {
			return *t
		}
	default:
		return n
	}
	return nil
}

// operandJSON is the wire wrapper for a child of an Operation: leaves are
// sent as {"expression": ...}, nested operations as {"operation": ...}.
type operandJSON struct {
	Expression *Expression `json:"expression,omitempty"`
	Operation  *Operation  `json:"operation,omitempty"`
}

type operationJSON struct {
	Operator Logic         `json:"operator"`
	Operands []operandJSON `json:"operands"`
}

func (o Operation) MarshalJSON() ([]byte, error) {
	out := operationJSON{Operator: o.Operator, Operands: make([]operandJSON, 0, len(o.Operands))}

	for _, n := range o.Operands {
		switch t := deref(n).(type) {
		case Expression:
			e := t
			out.Operands = append(out.Operands, operandJSON{Expression: &e})
		case Operation:
			op := t
			out.Operands = append(out.Operands, operandJSON{Operation: &op})
		default:
			return nil, fmt.Errorf("unsupported filter node %T", n)
		}
	}

	return json.Marshal(out)
}

func (o *Operation) UnmarshalJSON(b []byte) error {
	var in operationJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	if in.Operator != LogicAnd && in.Operator != LogicOr {
		return fmt.Errorf("unknown operator %q", in.Operator)
	}

	operands := make([]Node, 0, len(in.Operands))
	for _, w := range in.Operands {
		switch {
		case w.Expression != nil && w.Operation == nil:
			operands = append(operands, *w.Expression)
		case w.Operation != nil && w.Expression == nil:
			operands = append(operands, *w.Operation)
		default:
			return errors.New("operand must hold exactly one of expression or operation")
		}
	}

	o.Operator = in.Operator
	o.Operands = operands
	return nil
}

// Flatten returns the leaves of n when n is a pure conjunction, so that it
// can be sent as a plain filter list. The second result is false when the
// tree contains an "or" over more than one operand.
func Flatten(n Node) ([]Expression, bool) {
	switch t := deref(n).(type) {
	case Expression:
		return []Expression{t}, true
	case Operation:
		if t.Operator == LogicOr && len(t.Operands) > 1 {
			return nil, false
		}
		var out []Expression
		for _, child := range t.Operands {
			leaves, ok := Flatten(child)
			if !ok {
				return nil, false
			}
			out = append(out, leaves...)
		}
		return out, true
	}
	return nil, false
}

// Root wraps n so it can be used as the root of a filter tree. Operations
// are returned unchanged, a lone Expression becomes a single-operand "and".
func Root(n Node) Operation {
	switch t := deref(n).(type) {
	case Operation:
		return t
	case Expression:
		return And(t)
	}
	return Operation{Operator: LogicAnd, Operands: []Node{}}
}
