/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dburkart/screener/pkg/common/parse"
	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/query/scanner"
)

type Parser struct {
	Scanner scanner.Scanner
}

// Parse reads a filter expression such as
//
//	close > 5 and (type == "stock" or typespecs has ("etf"))
//
// and returns it as a filter tree. A single predicate is returned as a
// query.Expression, anything joined with "and" or "or" as a
// query.Operation.
func Parse(input string) (query.Node, error) {
	p := Parser{Scanner: scanner.Scanner{Input: input}}
	return p.Parse()
}

func (p *Parser) Parse() (filter query.Node, err error) {
	defer func() {
		if e := recover(); e != nil {
			syntaxError, ok := e.(parse.SyntaxError)
			if !ok {
				panic(e)
			}
			filter = nil
			err = errors.New(syntaxError.FormatError(p.Scanner.Input))
		}
	}()

	p.Scanner.Input = strings.Trim(p.Scanner.Input, " \t\n")

	filter = p.orExpr()

	// If we didn't parse all the input, return an error
	if tok := p.Scanner.Emit(); tok.Type != scanner.TOK_EOF {
		syntaxError := parse.NewSyntaxError(parse.Token{
			Type:     scanner.TOK_INVALID,
			Location: parse.Location{Start: tok.Location.Start, End: len(p.Scanner.Input)},
		}, "Error: filter is not valid, starting here")
		return nil, errors.New(syntaxError.FormatError(p.Scanner.Input))
	}

	return filter, nil
}

func unexpected(tok parse.Token, expected string) parse.SyntaxError {
	if tok.Type == scanner.TOK_EOF {
		return parse.NewSyntaxError(tok, fmt.Sprintf("Error: unexpected end of filter, expected %s", expected))
	}
	return parse.NewSyntaxError(tok, fmt.Sprintf("Error: unexpected token '%s', expected %s", tok.Lexeme, expected))
}

func isKeyword(tok parse.Token, words ...string) bool {
	if tok.Type != scanner.TOK_KEYWORD {
		return false
	}
	for _, w := range words {
		if tok.Lexeme == w {
			return true
		}
	}
	return false
}

func (p *Parser) expect(t scanner.TokenType, expected string) parse.Token {
	tok := p.Scanner.Emit()
	if tok.Type != t {
		panic(unexpected(tok, expected))
	}
	return tok
}

// orExpr returns an "or" Operation, or its only operand
//
// Grammar:
//
//	or-expr         = and-expr *( "or" and-expr )
func (p *Parser) orExpr() query.Node {
	nodes := []query.Node{p.andExpr()}

	for {
		tok := p.Scanner.Emit()
		if !isKeyword(tok, "or") {
			p.Scanner.Rewind()
			break
		}
		nodes = append(nodes, p.andExpr())
	}

	if len(nodes) == 1 {
		return nodes[0]
	}
	return query.Or(nodes...)
}

// andExpr returns an "and" Operation, or its only operand
//
// Grammar:
//
//	and-expr        = term *( "and" term )
func (p *Parser) andExpr() query.Node {
	nodes := []query.Node{p.term()}

	for {
		tok := p.Scanner.Emit()
		if !isKeyword(tok, "and") {
			p.Scanner.Rewind()
			break
		}
		nodes = append(nodes, p.term())
	}

	if len(nodes) == 1 {
		return nodes[0]
	}
	return query.And(nodes...)
}

// term returns a parenthesized or-expr or a single predicate
//
// Grammar:
//
//	term            = "(" or-expr ")" / predicate
func (p *Parser) term() query.Node {
	tok := p.Scanner.Emit()

	switch tok.Type {
	case scanner.TOK_PAREN_L:
		n := p.orExpr()
		p.expect(scanner.TOK_PAREN_R, "')'")
		return n
	case scanner.TOK_IDENTIFIER:
		return p.predicate(query.Column(tok.Lexeme))
	}

	panic(unexpected(tok, "a field or '('"))
}

// predicate returns the Expression applying an operator to field
//
// Grammar:
//
//	predicate       = field ( cmp-op operand
//	                / ["not"] "between" operand "," operand
//	                / ["not"] "in" list
//	                / "has" list-or-operand / "has_none_of" list-or-operand
//	                / ["not"] "like" operand
//	                / ["not"] "empty"
//	                / "crosses" [ "above" / "below" ] operand
//	                / ( "above%" / "below%" ) operand "," number
//	                / ["not"] "between%" operand "," number [ "," number ]
//	                / ( "in_day_range" / "in_week_range" / "in_month_range" ) integer "," integer )
//	cmp-op          = ">" / ">=" / "<" / "<=" / "==" / "!="
func (p *Parser) predicate(field query.Column) query.Expression {
	tok := p.Scanner.Emit()

	switch tok.Type {
	case scanner.TOK_GREATER:
		return field.Gt(p.operand())
	case scanner.TOK_GREATER_EQ:
		return field.Gte(p.operand())
	case scanner.TOK_LESS:
		return field.Lt(p.operand())
	case scanner.TOK_LESS_EQ:
		return field.Lte(p.operand())
	case scanner.TOK_EQ_EQ:
		return field.Eq(p.operand())
	case scanner.TOK_NOT_EQ:
		return field.Ne(p.operand())
	case scanner.TOK_KEYWORD:
	default:
		panic(unexpected(tok, "an operator"))
	}

	negate := false
	if tok.Lexeme == "not" {
		negate = true
		tok = p.Scanner.Emit()
		if !isKeyword(tok, "between", "in", "like", "empty", "between%") {
			panic(unexpected(tok, "between, in, like, empty or between% after 'not'"))
		}
	}

	switch tok.Lexeme {
	case "between":
		lo := p.operand()
		p.expect(scanner.TOK_COMMA, "','")
		hi := p.operand()
		if negate {
			return field.NotBetween(lo, hi)
		}
		return field.Between(lo, hi)
	case "in":
		values := p.list()
		if negate {
			return field.NotIn(values...)
		}
		return field.In(values...)
	case "has":
		if p.atList() {
			return field.Has(p.list()...)
		}
		return field.HasValue(p.operand())
	case "has_none_of":
		if p.atList() {
			return field.HasNoneOf(p.list()...)
		}
		return field.HasNoneOfValue(p.operand())
	case "like":
		if negate {
			return field.NotLike(p.operand())
		}
		return field.Like(p.operand())
	case "empty":
		if negate {
			return field.NotEmpty()
		}
		return field.Empty()
	case "crosses":
		next := p.Scanner.Emit()
		switch {
		case isKeyword(next, "above"):
			return field.CrossesAbove(p.operand())
		case isKeyword(next, "below"):
			return field.CrossesBelow(p.operand())
		}
		p.Scanner.Rewind()
		return field.Crosses(p.operand())
	case "above%", "below%":
		other := p.operand()
		p.expect(scanner.TOK_COMMA, "','")
		pct := p.number()
		if tok.Lexeme == "above%" {
			return field.AbovePct(other, pct)
		}
		return field.BelowPct(other, pct)
	case "between%":
		other := p.operand()
		p.expect(scanner.TOK_COMMA, "','")
		bounds := []float64{p.number()}
		if next := p.Scanner.Emit(); next.Type == scanner.TOK_COMMA {
			bounds = append(bounds, p.number())
		} else {
			p.Scanner.Rewind()
		}
		if negate {
			return field.NotBetweenPct(other, bounds[0], bounds[1:]...)
		}
		return field.BetweenPct(other, bounds[0], bounds[1:]...)
	case "in_day_range", "in_week_range", "in_month_range":
		a := p.integer()
		p.expect(scanner.TOK_COMMA, "','")
		b := p.integer()
		switch tok.Lexeme {
		case "in_day_range":
			return field.InDayRange(a, b)
		case "in_week_range":
			return field.InWeekRange(a, b)
		}
		return field.InMonthRange(a, b)
	}

	panic(unexpected(tok, "an operator"))
}

// list returns the values of a parenthesized list
//
// Grammar:
//
//	list            = "(" operand *( "," operand ) ")"
func (p *Parser) list() []any {
	p.expect(scanner.TOK_PAREN_L, "'('")

	values := []any{p.operand()}
	for {
		tok := p.Scanner.Emit()
		if tok.Type == scanner.TOK_PAREN_R {
			return values
		}
		if tok.Type != scanner.TOK_COMMA {
			panic(unexpected(tok, "',' or ')'"))
		}
		values = append(values, p.operand())
	}
}

// atList reports whether a parenthesized list follows, as opposed to a
// bare operand
//
// Grammar:
//
//	list-or-operand = list / operand
func (p *Parser) atList() bool {
	tok := p.Scanner.Emit()
	p.Scanner.Rewind()
	return tok.Type == scanner.TOK_PAREN_L
}

// operand returns a literal value, or a query.Column for a bare field name
//
// Grammar:
//
//	operand         = integer / float / string / "true" / "false" / field
func (p *Parser) operand() any {
	tok := p.Scanner.Emit()

	switch tok.Type {
	case scanner.TOK_INTEGER:
		if i, err := strconv.Atoi(tok.Lexeme); err == nil {
			return i
		}
		return p.parseFloat(tok)
	case scanner.TOK_FLOAT:
		return p.parseFloat(tok)
	case scanner.TOK_STRING:
		return tok.Lexeme[1 : len(tok.Lexeme)-1]
	case scanner.TOK_IDENTIFIER:
		return query.Column(tok.Lexeme)
	case scanner.TOK_KEYWORD:
		switch tok.Lexeme {
		case "true":
			return true
		case "false":
			return false
		}
	}

	panic(unexpected(tok, "a value or field"))
}

func (p *Parser) parseFloat(tok parse.Token) float64 {
	f, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		panic(parse.NewSyntaxError(tok, fmt.Sprintf("Error: invalid number '%s'", tok.Lexeme)))
	}
	return f
}

func (p *Parser) number() float64 {
	tok := p.Scanner.Emit()
	if tok.Type != scanner.TOK_INTEGER && tok.Type != scanner.TOK_FLOAT {
		panic(unexpected(tok, "a number"))
	}
	return p.parseFloat(tok)
}

func (p *Parser) integer() int {
	tok := p.expect(scanner.TOK_INTEGER, "an integer")
	i, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		panic(parse.NewSyntaxError(tok, fmt.Sprintf("Error: invalid integer '%s'", tok.Lexeme)))
	}
	return i
}
