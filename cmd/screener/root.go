/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package screener

import (
	"fmt"
	"os"

	screenerapi "github.com/dburkart/screener/api"
	"github.com/dburkart/screener/cmd/screener/scan"
	"github.com/dburkart/screener/cmd/screener/scanners"
	"github.com/dburkart/screener/cmd/screener/shell"
	"github.com/dburkart/screener/cmd/screener/symbols"
	"github.com/dburkart/screener/pkg/config"
	"github.com/dburkart/screener/pkg/query"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	Version        = "develop"
	CommitHash     = "n/a"
	BuildTimestamp = "n/a"

	rootCmd = &cobra.Command{
		Use:   "screener",
		Short: "Build and run queries against the stock screener",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging()
			initLogLevel()
			initConfig(cmd.Root().PersistentFlags().Lookup("config").Value.String())
			initLogLevel()
			traceConfig()
		},
		SilenceUsage: true,
		Version:      Version,
	}
)

func init() {
	// Configure the root binary options
	rootCmd.PersistentFlags().CountP("verbose", "v", "-v for debug logs (-vv for trace)")
	rootCmd.PersistentFlags().Bool("local", true, "Configures the logger to print readable logs")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the screener config file (default ./config.toml)")
	rootCmd.PersistentFlags().StringP("url", "u", query.DefaultBaseURL, "Base URL of the screener service")
	rootCmd.PersistentFlags().Duration("timeout", screenerapi.DefaultTimeout, "Request timeout")
	rootCmd.PersistentFlags().String("lang", "en", "Language of the returned descriptions")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format of results [csv, json, text]")
	rootCmd.PersistentFlags().String("fields", config.FieldsPassthrough, "Field name policy [passthrough, catalog]")

	// Bind viper config to the root flags
	viper.BindPFlag(config.KeyLocal, rootCmd.PersistentFlags().Lookup("local"))
	viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag(config.KeyURL, rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag(config.KeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag(config.KeyLang, rootCmd.PersistentFlags().Lookup("lang"))
	viper.BindPFlag(config.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag(config.KeyFields, rootCmd.PersistentFlags().Lookup("fields"))

	rootCmd.SetVersionTemplate(fmt.Sprintf("screener version: %s git_commit: %s build_time: %s\n", Version, CommitHash, BuildTimestamp))

	viper.AutomaticEnv()

	// Register commands on the root binary command
	for _, c := range []*cobra.Command{scan.Command, symbols.Command, scanners.Command, shell.Command} {
		c.Version = rootCmd.Version
		rootCmd.AddCommand(c)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("root command failed")
		os.Exit(1)
	}
}
