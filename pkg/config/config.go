/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dburkart/screener/pkg/query"
	"github.com/spf13/viper"
)

const (
	KeyURL     = "screener.url"
	KeyTimeout = "screener.timeout"
	KeyLang    = "screener.lang"
	KeyOutput  = "screener.output"
	KeyVerbose = "screener.verbose"
	KeyLocal   = "screener.local"
	KeyFields  = "screener.fields"
	KeyHeaders = "headers"
	KeyCookies = "cookies"
)

var OutputFormats = []string{"text", "csv", "json"}

// Field name policies. Passthrough sends names as given, catalog resolves
// them through query.Catalog and rejects unknown names.
const (
	FieldsPassthrough = "passthrough"
	FieldsCatalog     = "catalog"
)

// Config holds everything needed to talk to the screener service.
//
// Header and cookie names come from TOML tables and are lower-cased by
// viper.
type Config struct {
	URL     string
	Timeout time.Duration
	Lang    string
	Output  string
	Fields  string
	Headers map[string]string
	Cookies map[string]string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyURL, query.DefaultBaseURL)
	v.SetDefault(KeyTimeout, "20s")
	v.SetDefault(KeyLang, "en")
	v.SetDefault(KeyOutput, "text")
	v.SetDefault(KeyFields, FieldsPassthrough)
}

// FromViper reads and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	c := Config{
		URL:     v.GetString(KeyURL),
		Timeout: v.GetDuration(KeyTimeout),
		Lang:    v.GetString(KeyLang),
		Output:  v.GetString(KeyOutput),
		Fields:  v.GetString(KeyFields),
		Headers: v.GetStringMapString(KeyHeaders),
		Cookies: v.GetStringMapString(KeyCookies),
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("screener url cannot be empty")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid screener url %q: %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("screener url must be http or https, got %q", c.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("screener url %q has no host", c.URL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}

	if !IsOutputFormat(c.Output) {
		return fmt.Errorf("unsupported output format %q (must be one of %v)", c.Output, OutputFormats)
	}

	switch c.Fields {
	case "", FieldsPassthrough, FieldsCatalog:
	default:
		return fmt.Errorf("unsupported field policy %q (must be %s or %s)", c.Fields, FieldsPassthrough, FieldsCatalog)
	}

	return nil
}

func IsOutputFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
