/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package symbols

import (
	"os"

	screener "github.com/dburkart/screener/api"
	"github.com/dburkart/screener/pkg/config"
	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/repl"
	"github.com/dburkart/screener/pkg/result"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:       "symbols [market]",
	Short:     "List every ticker of a market",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: query.Markets,

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		market := query.DefaultMarket
		if len(args) == 1 {
			market = args[0]
		}

		client := cfg.NewClient(log, screener.NewMetricsStore())
		symbols, err := client.AllSymbols(cmd.Context(), market)
		if err != nil {
			return err
		}

		log.Info().Int("symbols", len(symbols)).Str("market", market).Msg("listed symbols")
		return repl.NewOutputWriter(os.Stdout, cfg.Output).Write(result.SymbolTable(symbols))
	},
}
