/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	screener "github.com/dburkart/screener/api"
	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/query/parser"
	"github.com/dburkart/screener/pkg/result"
	"github.com/dburkart/screener/pkg/scanners"
	"github.com/dustin/go-humanize"
)

// A Session holds the query being built in the interactive shell. Every
// command is applied to a copy of the query, which only replaces the
// current one when the command succeeds.
type Session struct {
	client  screener.Client
	metrics screener.MetricsStore
	writer  OutputWriter
	out     io.Writer
	opts    []query.Option
	query   *query.Query
}

// NewSession creates a session writing to out in the given output format.
// opts are applied to every query the session creates. metrics may be nil.
func NewSession(client screener.Client, metrics screener.MetricsStore, out io.Writer, output string, opts ...query.Option) *Session {
	return &Session{
		client:  client,
		metrics: metrics,
		writer:  NewOutputWriter(out, output),
		out:     out,
		opts:    opts,
		query:   query.New(opts...),
	}
}

// Query returns a copy of the current query.
func (s *Session) Query() *query.Query {
	return s.query.Copy()
}

func (s *Session) apply(f func(q *query.Query) *query.Query) error {
	q := f(s.query.Copy())
	if err := q.Err(); err != nil {
		return err
	}
	s.query = q
	return nil
}

type usageTable [][]string

func (u usageTable) Headers() []string {
	return []string{"command", "arguments", "description"}
}

func (u usageTable) Values() [][]string {
	return u
}

// Execute runs a single shell line. It returns true when the shell should
// exit.
func (s *Session) Execute(ctx context.Context, line string) (bool, error) {
	cmd, err := ParseCommand(line)
	if err != nil {
		return false, err
	}

	switch cmd.Name {
	case CommandExit:
		return true, nil
	case CommandHelp:
		return false, s.writer.Write(usageTable(Usage))
	case CommandSelect:
		fields := cmd.List()
		if len(fields) == 0 {
			return false, fmt.Errorf("select needs at least one field")
		}
		columns := make([]query.Column, 0, len(fields))
		for _, f := range fields {
			columns = append(columns, query.Column(f))
		}
		return false, s.apply(func(q *query.Query) *query.Query { return q.Select(columns...) })
	case CommandWhere:
		n, err := parser.Parse(cmd.Args)
		if err != nil {
			return false, err
		}
		leaves, ok := query.Flatten(n)
		if !ok {
			return false, fmt.Errorf("where only accepts filters joined with 'and', use filter instead")
		}
		return false, s.apply(func(q *query.Query) *query.Query { return q.Where(leaves...) })
	case CommandFilter:
		n, err := parser.Parse(cmd.Args)
		if err != nil {
			return false, err
		}
		return false, s.apply(func(q *query.Query) *query.Query { return q.Where2(query.Root(n)) })
	case CommandMarkets:
		return false, s.apply(func(q *query.Query) *query.Query { return q.SetMarkets(cmd.List()...) })
	case CommandTickers:
		return false, s.apply(func(q *query.Query) *query.Query { return q.SetTickers(cmd.List()...) })
	case CommandIndex:
		return false, s.apply(func(q *query.Query) *query.Query { return q.SetIndex(cmd.List()...) })
	case CommandOrder:
		return false, s.order(cmd.Args)
	case CommandLimit, CommandOffset:
		n, err := strconv.Atoi(cmd.Args)
		if err != nil || n < 0 {
			return false, fmt.Errorf("%s needs a non-negative integer, got %q", strings.ToLower(cmd.Name), cmd.Args)
		}
		if cmd.Name == CommandLimit {
			return false, s.apply(func(q *query.Query) *query.Query { return q.Limit(n) })
		}
		return false, s.apply(func(q *query.Query) *query.Query { return q.Offset(n) })
	case CommandPreset:
		q, err := scanners.Get(cmd.Args, s.opts...)
		if err != nil {
			return false, err
		}
		s.query = q
		return false, nil
	case CommandSet:
		key, raw, _ := strings.Cut(cmd.Args, " ")
		if key == "" || strings.TrimSpace(raw) == "" {
			return false, fmt.Errorf("usage: set key json-value")
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return false, fmt.Errorf("value of %s is not valid JSON: %w", key, err)
		}
		return false, s.apply(func(q *query.Query) *query.Query { return q.SetProperty(key, value) })
	case CommandReset:
		s.query = query.New(s.opts...)
		return false, nil
	case CommandShow:
		return false, s.show()
	case CommandRun:
		return false, s.run(ctx)
	case CommandSymbols:
		return false, s.symbols(ctx, cmd.Args)
	case CommandStats:
		if s.metrics == nil {
			return false, fmt.Errorf("metrics are not collected in this session")
		}
		stats, err := s.metrics.Summary()
		if err != nil {
			return false, err
		}
		return false, s.writer.Write(stats)
	}

	return false, fmt.Errorf("unhandled command %s", cmd.Name)
}

func (s *Session) order(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("usage: order field [asc|desc] [nulls_first]")
	}

	ascending, nullsFirst := false, false
	for _, f := range fields[1:] {
		switch strings.ToLower(f) {
		case "asc":
			ascending = true
		case "desc":
			ascending = false
		case "nulls_first":
			nullsFirst = true
		default:
			return fmt.Errorf("unknown sort option %q", f)
		}
	}

	return s.apply(func(q *query.Query) *query.Query {
		return q.OrderBy(query.Column(fields[0]), ascending, nullsFirst)
	})
}

func (s *Session) show() error {
	url, body, err := s.query.Serialize()
	if err != nil {
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "POST %s\n%s\n", url, indented.String())
	return nil
}

func (s *Session) run(ctx context.Context) error {
	total, table, err := s.client.Scan(ctx, s.query)
	if err != nil {
		return err
	}
	if err := s.writer.Write(table); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s of %s matches\n", humanize.Comma(int64(table.Len())), humanize.Comma(int64(total)))
	return nil
}

func (s *Session) symbols(ctx context.Context, market string) error {
	if market == "" {
		market = query.DefaultMarket
	}

	symbols, err := s.client.AllSymbols(ctx, market)
	if err != nil {
		return err
	}

	if err := s.writer.Write(result.SymbolTable(symbols)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s symbols in %s\n", humanize.Comma(int64(len(symbols))), market)
	return nil
}
