/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	screener "github.com/dburkart/screener/api"
	"github.com/dburkart/screener/pkg/config"
	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/query/parser"
	"github.com/dburkart/screener/pkg/repl"
	"github.com/dburkart/screener/pkg/scanners"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type options struct {
	file       string
	preset     string
	columns    []string
	where      []string
	filter     string
	markets    []string
	tickers    []string
	index      []string
	orderBy    string
	ascending  bool
	nullsFirst bool
	limit      int
	offset     int
	dryRun     bool
}

var flags options

var Command = &cobra.Command{
	Use:   "scan",
	Short: "Run a single query against the screener",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		flags.limit, flags.offset = -1, -1
		if cmd.Flags().Changed("limit") {
			flags.limit, _ = cmd.Flags().GetInt("limit")
		}
		if cmd.Flags().Changed("offset") {
			flags.offset, _ = cmd.Flags().GetInt("offset")
		}

		q, err := buildQuery(cfg, flags)
		if err != nil {
			return err
		}

		if flags.dryRun {
			return dryRun(os.Stdout, q)
		}

		client := cfg.NewClient(log, screener.NewMetricsStore())
		total, table, err := client.Scan(cmd.Context(), q)
		if err != nil {
			return err
		}

		log.Info().Int("rows", table.Len()).Int("total", total).Str("market", q.Market()).Msg("scan complete")
		return repl.NewOutputWriter(os.Stdout, cfg.Output).Write(table)
	},
}

func init() {
	Command.Flags().StringVarP(&flags.file, "file", "f", "", "Load the query from a JSON document")
	Command.Flags().StringVarP(&flags.preset, "preset", "p", "", "Start from a preset scanner (see the scanners command)")
	Command.Flags().StringSliceVarP(&flags.columns, "select", "s", nil, "Columns to return")
	Command.Flags().StringArrayVarP(&flags.where, "where", "w", nil, "Filter joined with 'and', may be repeated")
	Command.Flags().StringVar(&flags.filter, "filter", "", "Filter tree, may use 'and', 'or' and parentheses")
	Command.Flags().StringSliceVarP(&flags.markets, "markets", "m", nil, "Markets to scan")
	Command.Flags().StringSliceVar(&flags.tickers, "tickers", nil, "Scan only the given EXCHANGE:SYMBOL tickers")
	Command.Flags().StringSliceVar(&flags.index, "index", nil, "Scan the members of the given indexes")
	Command.Flags().StringVar(&flags.orderBy, "order-by", "", "Column to sort by")
	Command.Flags().BoolVar(&flags.ascending, "asc", false, "Sort ascending")
	Command.Flags().BoolVar(&flags.nullsFirst, "nulls-first", false, "Sort null values first")
	Command.Flags().IntP("limit", "l", query.DefaultRange[1], "End of the result window")
	Command.Flags().Int("offset", query.DefaultRange[0], "Start of the result window")
	Command.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the request instead of sending it")
}

// buildQuery applies the flags on top of the base query. A negative limit
// or offset leaves the window untouched.
func buildQuery(cfg config.Config, o options) (*query.Query, error) {
	var q *query.Query

	switch {
	case o.file != "" && o.preset != "":
		return nil, fmt.Errorf("--file and --preset cannot be used together")
	case o.file != "":
		b, err := os.ReadFile(o.file)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read query file")
		}
		q, err = query.Load(b, cfg.QueryOptions()...)
		if err != nil {
			return nil, err
		}
	case o.preset != "":
		var err error
		q, err = scanners.Get(o.preset, cfg.QueryOptions()...)
		if err != nil {
			return nil, err
		}
	default:
		q = cfg.NewQuery()
	}

	if len(o.columns) > 0 {
		columns := make([]query.Column, 0, len(o.columns))
		for _, c := range o.columns {
			columns = append(columns, query.Column(c))
		}
		q.Select(columns...)
	}

	if len(o.where) > 0 {
		var leaves []query.Expression
		for _, w := range o.where {
			n, err := parser.Parse(w)
			if err != nil {
				return nil, err
			}
			l, ok := query.Flatten(n)
			if !ok {
				return nil, fmt.Errorf("--where %q uses 'or', use --filter instead", w)
			}
			leaves = append(leaves, l...)
		}
		q.Where(leaves...)
	}

	if o.filter != "" {
		n, err := parser.Parse(o.filter)
		if err != nil {
			return nil, err
		}
		q.Where2(query.Root(n))
	}

	if len(o.markets) > 0 {
		q.SetMarkets(o.markets...)
	}
	if len(o.tickers) > 0 {
		q.SetTickers(o.tickers...)
	}
	if len(o.index) > 0 {
		q.SetIndex(o.index...)
	}

	if o.orderBy != "" {
		q.OrderBy(query.Column(o.orderBy), o.ascending, o.nullsFirst)
	}
	if o.offset >= 0 {
		q.Offset(o.offset)
	}
	if o.limit >= 0 {
		q.Limit(o.limit)
	}

	return q, q.Err()
}

func dryRun(w io.Writer, q *query.Query) error {
	url, body, err := q.Serialize()
	if err != nil {
		return err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, body, "", "  "); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "POST %s\n%s\n", url, indented.String())
	return err
}
