/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"fmt"
	"strings"
)

const (
	CommandSelect  = "SELECT"
	CommandWhere   = "WHERE"
	CommandFilter  = "FILTER"
	CommandMarkets = "MARKETS"
	CommandTickers = "TICKERS"
	CommandIndex   = "INDEX"
	CommandOrder   = "ORDER"
	CommandLimit   = "LIMIT"
	CommandOffset  = "OFFSET"
	CommandPreset  = "PRESET"
	CommandSet     = "SET"
	CommandReset   = "RESET"
	CommandShow    = "SHOW"
	CommandRun     = "RUN"
	CommandSymbols = "SYMBOLS"
	CommandStats   = "STATS"
	CommandHelp    = "HELP"
	CommandExit    = "EXIT"
)

// Usage lists every shell command with its arguments.
var Usage = [][]string{
	{"select", "field, field, ...", "replace the selected columns"},
	{"where", "filter", "replace the filter list, the filter must only use 'and'"},
	{"filter", "filter", "replace the filter tree"},
	{"markets", "market, market, ...", "scan the given markets"},
	{"tickers", "EXCHANGE:SYMBOL, ...", "scan only the given tickers"},
	{"index", "SYML:SP;SPX, ...", "scan the members of the given indexes"},
	{"order", "field [asc|desc] [nulls_first]", "sort the results"},
	{"limit", "n", "set the end of the result window"},
	{"offset", "n", "set the start of the result window"},
	{"preset", "name", "start over from a preset scanner"},
	{"set", "key json-value", "set an arbitrary document key"},
	{"reset", "", "start over from a fresh query"},
	{"show", "", "print the request"},
	{"run", "", "run the query"},
	{"symbols", "[market]", "list every ticker of a market"},
	{"stats", "", "print request metrics"},
	{"help", "", "print this help"},
	{"exit", "", "leave the shell"},
}

var commandNames = func() map[string]bool {
	m := make(map[string]bool, len(Usage))
	for _, u := range Usage {
		m[strings.ToUpper(u[0])] = true
	}
	return m
}()

// A Command is a parsed shell line: the upper-cased command name and the
// rest of the line with surrounding space removed.
type Command struct {
	Name string
	Args string
}

// List splits Args on commas, dropping empty items.
func (c Command) List() []string {
	out := []string{}
	for _, item := range strings.Split(c.Args, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseCommand parses input from the command line
//
// This function assumes there is no '\n'
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, fmt.Errorf("empty command")
	}

	// all commands have a space after them, if not then they are command only
	// like RUN
	cmd, args, _ := strings.Cut(line, " ")
	c := Command{Name: strings.ToUpper(cmd), Args: strings.TrimSpace(args)}

	if !commandNames[c.Name] {
		return Command{}, fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
	return c, nil
}
