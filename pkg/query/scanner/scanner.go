/*
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dburkart/screener/pkg/common/parse"
)

type Scanner struct {
	Input     string
	Start     int
	Pos       int
	RuneWidth int
	LastWidth int
}

func isIdentifierRune(r rune) bool {
	return unicode.IsDigit(r) || unicode.IsLetter(r) ||
		r == '_' || r == '.' || r == '|' || r == '[' || r == ']' || r == '+' || r == '-'
}

// MatchIdentifier returns the length of the next token, assuming it is an
// identifier. Field names carry their timeframe and offset suffixes, as in
// "Recommend.All|1W" or "EMA5[1]".
//
// Grammar:
//
//	identifier      = ALPHA *(ALPHA / DIGIT / "_" / "." / "|" / "[" / "]" / "+" / "-")
func (s *Scanner) MatchIdentifier() int {
	i := s.Pos
	r, width := utf8.DecodeRuneInString(s.Input[i:])
	size := 0

	if !unicode.IsLetter(r) && r != '_' {
		return 0
	}

	for isIdentifierRune(r) {
		size += width
		i += width
		r, width = utf8.DecodeRuneInString(s.Input[i:])
	}

	return size
}

// MatchInteger returns the length of the next token, assuming it is a
// number
//
// Grammar:
//
//	integer          = ["-"] 1*DIGIT
func (s *Scanner) MatchInteger() int {
	i := s.Pos
	size := 0
	if strings.HasPrefix(s.Input[i:], "-") {
		size, i = 1, i+1
	}

	r, width := utf8.DecodeRuneInString(s.Input[i:])
	digits := 0
	for unicode.IsDigit(r) {
		digits += width
		i += width
		r, width = utf8.DecodeRuneInString(s.Input[i:])
	}

	if digits == 0 {
		return 0
	}
	return size + digits
}

// MatchFloat returns the length of the next token, assuming it is a
// floating point number
//
// Grammar:
//
//	float           = ["-"] *DIGIT "." 1*DIGIT
func (s *Scanner) MatchFloat() int {
	start := s.Pos
	if strings.HasPrefix(s.Input[start:], "-") {
		start++
	}

	r, width := utf8.DecodeRuneInString(s.Input[start:])
	lsize := 0
	rsize := 0

	for i := start; unicode.IsDigit(r); {
		lsize += width
		i += width
		r, width = utf8.DecodeRuneInString(s.Input[i:])
	}

	if r != '.' {
		return 0
	}

	r, width = utf8.DecodeRuneInString(s.Input[start+lsize+1:])

	for i := start + lsize + 1; unicode.IsDigit(r); {
		rsize += width
		i += width
		r, width = utf8.DecodeRuneInString(s.Input[i:])
	}

	if rsize == 0 {
		return 0
	}

	return start - s.Pos + lsize + rsize + 1
}

// MatchString returns the length of the next token, assuming it is a
// string
//
// Grammar:
//
//	string          = DQUOTE *(%x00-21 / %x23-10FFFF) DQUOTE / SQUOTE *(%x00-26 / %x28-10FFFF) SQUOTE
func (s *Scanner) MatchString() int {
	quote, qwidth := utf8.DecodeRuneInString(s.Input[s.Pos:])
	size := 0

	r, width := utf8.DecodeRuneInString(s.Input[s.Pos+qwidth:])
	for r != quote {
		if r == utf8.RuneError && width <= 1 {
			return 0
		}
		size += width
		r, width = utf8.DecodeRuneInString(s.Input[s.Pos+qwidth+size:])
	}

	// Include quote runes
	return size + 2*qwidth
}

// matchWord returns the length of an identifier or keyword starting at the
// current position. "above", "below" and "between" absorb a trailing '%'.
func (s *Scanner) matchWord() (TokenType, int) {
	skip := s.MatchIdentifier()
	word := s.Input[s.Pos : s.Pos+skip]

	if strings.HasPrefix(s.Input[s.Pos+skip:], "%") && IsKeyword(word+"%") {
		return TOK_KEYWORD, skip + 1
	}
	if IsKeyword(word) {
		return TOK_KEYWORD, skip
	}
	return TOK_IDENTIFIER, skip
}

// Emit the next Token found on Scanner.Input
func (s *Scanner) Emit() parse.Token {
	var t parse.Token

	oldStart := s.Start

	for {
		if s.Pos >= len(s.Input) {
			s.Start = len(s.Input)
			s.Pos = s.Start
			t.Type = TOK_EOF
			break
		}

		r, width := utf8.DecodeRuneInString(s.Input[s.Pos:])
		s.Start = s.Pos
		found := true
		skip := 0

		switch {
		case unicode.IsSpace(r):
			skip = width
			found = false
		case r == '(':
			t.Type = TOK_PAREN_L
			skip = width
		case r == ')':
			t.Type = TOK_PAREN_R
			skip = width
		case r == ',':
			t.Type = TOK_COMMA
			skip = width
		case r == '=':
			if strings.HasPrefix(s.Input[s.Pos:], "==") {
				t.Type = TOK_EQ_EQ
				skip = len("==")
				break
			}
			t.Type = TOK_INVALID
			skip = s.SkipToBoundary(isDelimiter)
		case r == '!':
			if strings.HasPrefix(s.Input[s.Pos:], "!=") {
				t.Type = TOK_NOT_EQ
				skip = len("!=")
				break
			}
			t.Type = TOK_INVALID
			skip = s.SkipToBoundary(isDelimiter)
		case r == '<':
			if strings.HasPrefix(s.Input[s.Pos:], "<=") {
				t.Type = TOK_LESS_EQ
				skip = len("<=")
				break
			}
			t.Type = TOK_LESS
			skip = width
		case r == '>':
			if strings.HasPrefix(s.Input[s.Pos:], ">=") {
				t.Type = TOK_GREATER_EQ
				skip = len(">=")
				break
			}
			t.Type = TOK_GREATER
			skip = width
		case r == '\'' || r == '"':
			skip = s.MatchString()
			if skip > 0 {
				t.Type = TOK_STRING
			} else {
				t.Type = TOK_INVALID
				skip = s.SkipToBoundary(isDelimiter)
			}
		case r == '-' || r == '.' || unicode.IsDigit(r):
			skip = s.MatchFloat()
			if skip > 0 {
				t.Type = TOK_FLOAT
				break
			}
			skip = s.MatchInteger()
			if skip > 0 {
				t.Type = TOK_INTEGER
				break
			}
			t.Type = TOK_INVALID
			skip = s.SkipToBoundary(isDelimiter)
		case unicode.IsLetter(r) || r == '_':
			t.Type, skip = s.matchWord()
		default:
			t.Type = TOK_INVALID
			skip = s.SkipToBoundary(isDelimiter)
		}

		if skip == 0 {
			skip = width
		}
		s.Pos = s.Start + skip
		if found {
			break
		}
	}

	t.Lexeme = s.Input[s.Start:s.Pos]
	t.Location = parse.Location{Start: s.Start, End: s.Pos}
	s.Start = s.Pos

	s.LastWidth = s.Start - oldStart

	return t
}

// Rewind the last read token
func (s *Scanner) Rewind() {
	s.Start -= s.LastWidth
	s.Pos = s.Start
	s.LastWidth = 0
}

type boundaryFunc func(rune) bool

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == ','
}

// SkipToBoundary returns the number of bytes until the next delimiter.
// This is useful for skipping over invalid tokens.
func (s *Scanner) SkipToBoundary(boundary boundaryFunc) int {
	r, width := utf8.DecodeRuneInString(s.Input[s.Pos:])
	size := 0

	for !boundary(r) && s.Pos+size < len(s.Input) {
		size += width
		r, width = utf8.DecodeRuneInString(s.Input[s.Pos+size:])
	}

	return size
}
