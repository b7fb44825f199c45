/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

type TokenType int

const (
	TOK_INVALID TokenType = iota
	TOK_EOF

	TOK_IDENTIFIER
	TOK_KEYWORD
	TOK_INTEGER
	TOK_FLOAT
	TOK_STRING
	TOK_COMMA

	// Comparisons
	TOK_EQ_EQ
	TOK_NOT_EQ
	TOK_LESS
	TOK_LESS_EQ
	TOK_GREATER
	TOK_GREATER_EQ

	TOK_PAREN_L
	TOK_PAREN_R
)

func (t TokenType) ToString() string {
	switch t {
	case TOK_INVALID:
		return "TOK_INVALID"
	case TOK_EOF:
		return "TOK_EOF"
	case TOK_IDENTIFIER:
		return "TOK_IDENTIFIER"
	case TOK_KEYWORD:
		return "TOK_KEYWORD"
	case TOK_INTEGER:
		return "TOK_INTEGER"
	case TOK_FLOAT:
		return "TOK_FLOAT"
	case TOK_STRING:
		return "TOK_STRING"
	case TOK_COMMA:
		return "TOK_COMMA"
	case TOK_EQ_EQ:
		return "TOK_EQ_EQ"
	case TOK_NOT_EQ:
		return "TOK_NOT_EQ"
	case TOK_LESS:
		return "TOK_LESS"
	case TOK_LESS_EQ:
		return "TOK_LESS_EQ"
	case TOK_GREATER:
		return "TOK_GREATER"
	case TOK_GREATER_EQ:
		return "TOK_GREATER_EQ"
	case TOK_PAREN_L:
		return "TOK_PAREN_L"
	case TOK_PAREN_R:
		return "TOK_PAREN_R"
	}
	return "TOK_UNKNOWN"
}

// Keywords of the filter language. Keywords ending in '%' are scanned
// together with the percent sign.
var Keywords = []string{
	"and", "or", "not",
	"between", "in", "has", "has_none_of", "like", "empty",
	"crosses", "above", "below",
	"above%", "below%", "between%",
	"in_day_range", "in_week_range", "in_month_range",
	"true", "false",
}

var keywordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Keywords))
	for _, k := range Keywords {
		m[k] = struct{}{}
	}
	return m
}()

func IsKeyword(lexeme string) bool {
	_, ok := keywordSet[lexeme]
	return ok
}
