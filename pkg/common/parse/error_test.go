/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parse

import (
	"testing"

	"github.com/andreyvit/diff"
)

func TestFormatError(t *testing.T) {
	tt := []struct {
		test     string
		location Location
		want     string
	}{
		{
			"single rune",
			Location{Start: 6, End: 7},
			"Syntax error found in filter:\nclose ? 5\n      ^ unexpected token\n",
		},
		{
			"span",
			Location{Start: 0, End: 5},
			"Syntax error found in filter:\nclose ? 5\n^~~~~ unexpected token\n",
		},
		{
			"empty span",
			Location{Start: 9, End: 9},
			"Syntax error found in filter:\nclose ? 5\n         ^ unexpected token\n",
		},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			err := NewSyntaxError(Token{Location: tc.location}, "unexpected token")
			got := err.FormatError("close ? 5")
			if got != tc.want {
				t.Errorf("Expectation not met:\n%s", diff.LineDiff(tc.want, got))
			}
		})
	}
}

func TestSyntaxErrorIsError(t *testing.T) {
	var err error = NewSyntaxError(Token{Location: Location{Start: 3, End: 4}}, "bad")
	if err.Error() != "bad (at offset 3)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
