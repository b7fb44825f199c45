/*
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"fmt"
	"strings"
)

const (
	DefaultBaseURL = "https://scanner.tradingview.com"
	DefaultMarket  = "america"

	// GlobalMarket is the URL path used for multi-market, ticker and index
	// scoped queries.
	GlobalMarket = "global"
)

// Markets lists the countries and asset classes the screener can scan.
var Markets = []string{
	"america", "argentina", "australia", "austria", "bahrain", "bangladesh",
	"belgium", "brazil", "canada", "chile", "china", "colombia", "cyprus",
	"czech", "denmark", "egypt", "estonia", "finland", "france", "germany",
	"greece", "hongkong", "hungary", "iceland", "india", "indonesia",
	"israel", "italy", "japan", "kenya", "korea", "ksa", "kuwait", "latvia",
	"lithuania", "luxembourg", "malaysia", "mexico", "morocco", "netherlands",
	"newzealand", "nigeria", "norway", "pakistan", "peru", "philippines",
	"poland", "portugal", "qatar", "romania", "rsa", "russia", "serbia",
	"singapore", "slovakia", "spain", "srilanka", "sweden", "switzerland",
	"taiwan", "thailand", "tunisia", "turkey", "uae", "uk", "venezuela",
	"vietnam",

	"bonds", "cfd", "coin", "crypto", "euronext", "forex", "futures",
	"options",
}

var marketSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Markets))
	for _, name := range Markets {
		m[name] = struct{}{}
	}
	return m
}()

// IsMarket reports whether name is a known market code.
func IsMarket(name string) bool {
	_, ok := marketSet[name]
	return ok
}

// ScanURL returns the scan endpoint for a market path under baseURL.
func ScanURL(baseURL, market string) string {
	return fmt.Sprintf("%s/%s/scan", strings.TrimRight(baseURL, "/"), market)
}
