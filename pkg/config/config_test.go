/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	c, err := FromViper(viper.New())
	if err != nil {
		t.Fatal(err)
	}

	if c.URL != "https://scanner.tradingview.com" {
		t.Errorf("unexpected url %s", c.URL)
	}
	if c.Timeout != 20*time.Second {
		t.Errorf("unexpected timeout %s", c.Timeout)
	}
	if c.Lang != "en" || c.Output != "text" {
		t.Errorf("unexpected lang/output %s/%s", c.Lang, c.Output)
	}
	if c.Fields != FieldsPassthrough {
		t.Errorf("unexpected field policy %s", c.Fields)
	}
}

func TestFromTOML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	err := v.ReadConfig(strings.NewReader(`
[screener]
url = "http://localhost:9000"
timeout = "5s"
lang = "it"
output = "csv"
fields = "catalog"

[headers]
user-agent = "screener-test"

[cookies]
sessionid = "abc123"
`))
	if err != nil {
		t.Fatal(err)
	}

	c, err := FromViper(v)
	if err != nil {
		t.Fatal(err)
	}

	if c.URL != "http://localhost:9000" || c.Timeout != 5*time.Second || c.Lang != "it" || c.Output != "csv" {
		t.Errorf("unexpected config %+v", c)
	}
	if c.Fields != FieldsCatalog {
		t.Errorf("unexpected field policy %s", c.Fields)
	}
	if c.Headers["user-agent"] != "screener-test" {
		t.Errorf("unexpected headers %v", c.Headers)
	}
	if c.Cookies["sessionid"] != "abc123" {
		t.Errorf("unexpected cookies %v", c.Cookies)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{URL: "https://scanner.tradingview.com", Timeout: time.Second, Output: "json"}

	tt := []struct {
		test   string
		modify func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"empty url", func(c *Config) { c.URL = "" }, false},
		{"bad scheme", func(c *Config) { c.URL = "ftp://scanner.tradingview.com" }, false},
		{"no host", func(c *Config) { c.URL = "https://" }, false},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, false},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, false},
		{"unknown output", func(c *Config) { c.Output = "xml" }, false},
		{"catalog fields", func(c *Config) { c.Fields = FieldsCatalog }, true},
		{"unknown fields", func(c *Config) { c.Fields = "strict" }, false},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			c := valid
			tc.modify(&c)
			err := c.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
