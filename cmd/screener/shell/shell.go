/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2022-2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package shell

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/chzyer/readline"
	screener "github.com/dburkart/screener/api"
	"github.com/dburkart/screener/pkg/config"
	"github.com/dburkart/screener/pkg/query"
	"github.com/dburkart/screener/pkg/repl"
	"github.com/dburkart/screener/pkg/scanners"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:   "shell",
	Short: "Interactive terminal for building and running queries",
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		log := viper.Get("logger").(zerolog.Logger)

		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}

		metrics := screener.NewMetricsStore()
		if port := viper.GetInt("shell.prom-port"); port > 0 {
			go serveMetrics(log, metrics, port)
		}
		client := cfg.NewClient(log, metrics)
		session := repl.NewSession(client, metrics, os.Stdout, cfg.Output, cfg.QueryOptions()...)

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "\033[31m>\033[0m ",
			AutoComplete:    completer(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",

			HistorySearchFold:   true,
			FuncFilterInputRune: filterInput,
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		for {
			ln := rl.Line()
			if ln.CanContinue() {
				continue
			} else if ln.CanBreak() {
				break
			}

			line := strings.TrimSpace(ln.Line)
			if line == "" {
				continue
			}

			exit, err := session.Execute(cmd.Context(), line)
			if err != nil {
				log.Error().Err(err).Send()
				continue
			}
			if exit {
				break
			}
		}
		rl.Clean()
		return nil
	},
}

func init() {
	Command.Flags().Int("prom-port", 0, "Serve the request metrics on this port at /metrics (0 disables)")

	viper.BindPFlag("shell.prom-port", Command.Flags().Lookup("prom-port"))
}

func serveMetrics(log zerolog.Logger, metrics screener.MetricsStore, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	log.Info().Int("port", port).Msg("/metrics endpoint started")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
		log.Error().Err(err).Int("port", port).Msg("/metrics endpoint stopped")
	}
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func filterStringSlice(s []string, prefix string) []string {
	retList := []string{}
	for i := range s {
		if strings.HasPrefix(s[i], prefix) {
			retList = append(retList, s[i])
		}
	}
	return retList
}

// completeList completes the last element of a comma separated argument
// list from choices.
func completeList(choices []string) func(string) []string {
	return func(line string) []string {
		_, args, _ := strings.Cut(line, " ")
		last := args
		if i := strings.LastIndex(args, ","); i >= 0 {
			last = args[i+1:]
		}
		last = strings.TrimLeft(last, " ")
		head := args[:len(args)-len(last)]

		options := []string{}
		for _, c := range filterStringSlice(choices, last) {
			options = append(options, head+c)
		}
		return options
	}
}

func completer() *readline.PrefixCompleter {
	presets := []readline.PrefixCompleterInterface{}
	for _, name := range scanners.Names() {
		presets = append(presets, readline.PcItem(name))
	}

	items := []readline.PrefixCompleterInterface{}
	for _, usage := range repl.Usage {
		name := usage[0]
		switch strings.ToUpper(name) {
		case repl.CommandPreset:
			items = append(items, readline.PcItem(name, presets...))
		case repl.CommandMarkets, repl.CommandSymbols:
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(completeList(query.Markets))))
		case repl.CommandOrder, repl.CommandSelect:
			items = append(items, readline.PcItem(name, readline.PcItemDynamic(completeList(query.DefaultColumns()))))
		default:
			items = append(items, readline.PcItem(name))
		}
	}

	return readline.NewPrefixCompleter(items...)
}
