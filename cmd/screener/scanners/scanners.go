/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package scanners

import (
	"os"
	"strings"

	"github.com/dburkart/screener/pkg/config"
	"github.com/dburkart/screener/pkg/repl"
	"github.com/dburkart/screener/pkg/scanners"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "scanners",
	Short: "List the preset scanners usable with scan --preset",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		table, err := presetTable(cfg)
		if err != nil {
			return err
		}
		return repl.NewOutputWriter(os.Stdout, cfg.Output).Write(table)
	},
}

type presets [][]string

func (p presets) Headers() []string {
	return []string{"name", "sort", "columns"}
}

func (p presets) Values() [][]string {
	return p
}

func presetTable(cfg config.Config) (presets, error) {
	var out presets
	for _, name := range scanners.Names() {
		q, err := scanners.Get(name, cfg.QueryOptions()...)
		if err != nil {
			return nil, err
		}

		sort := ""
		if s := q.Document().Sort; s != nil {
			sort = s.SortBy + " " + s.SortOrder
		}
		out = append(out, []string{name, sort, strings.Join(q.Columns(), ",")})
	}
	return out, nil
}
