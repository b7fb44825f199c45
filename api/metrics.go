/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2024, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package screener

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	Handler() http.Handler
	Summary() (Stats, error)

	// Collection
	IncRequests(market, endpoint, status string)
	ObserveResponseNS(market, endpoint string, t int64)
	AddResponseBytes(market, endpoint string, n int)
}

type metricsStore struct {
	registry      *prometheus.Registry
	Requests      *prometheus.CounterVec
	ResponseNS    *prometheus.HistogramVec
	ResponseBytes *prometheus.CounterVec
}

var (
	MarketLabel   = "market"
	EndpointLabel = "endpoint"
	StatusLabel   = "status"
)

const metricsPrefix = "screener_"

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()

	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(100*i*int(time.Millisecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_requests",
			Help: "Requests made to the screener service by status",
		}, []string{MarketLabel, EndpointLabel, StatusLabel}),
		ResponseNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "screener_response_ns",
			Help:    "Round trip time of requests to the screener service",
			Buckets: buckets,
		}, []string{MarketLabel, EndpointLabel}),
		ResponseBytes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "screener_response_bytes",
			Help: "Bytes received from the screener service",
		}, []string{MarketLabel, EndpointLabel}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncRequests(market, endpoint, status string) {
	ms.Requests.With(prometheus.Labels{MarketLabel: market, EndpointLabel: endpoint, StatusLabel: status}).Inc()
}

func (ms *metricsStore) ObserveResponseNS(market, endpoint string, t int64) {
	ms.ResponseNS.
		With(prometheus.Labels{MarketLabel: market, EndpointLabel: endpoint}).
		Observe(float64(t))
}

func (ms *metricsStore) AddResponseBytes(market, endpoint string, n int) {
	ms.ResponseBytes.With(prometheus.Labels{MarketLabel: market, EndpointLabel: endpoint}).Add(float64(n))
}

// Stats is a printable snapshot of the collected metrics, one row per
// metric and label set.
type Stats struct {
	Rows [][]string
}

func (s Stats) Headers() []string {
	return []string{"metric", "labels", "value"}
}

func (s Stats) Values() [][]string {
	return s.Rows
}

// Summary gathers the registry. Histograms are reported as their sample
// count and mean.
func (ms *metricsStore) Summary() (Stats, error) {
	families, err := ms.registry.Gather()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Rows: [][]string{}}
	for _, mf := range families {
		name := strings.TrimPrefix(mf.GetName(), metricsPrefix)
		for _, m := range mf.GetMetric() {
			labels := []string{}
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%s", lp.GetName(), lp.GetValue()))
			}
			sort.Strings(labels)

			var value string
			if h := m.GetHistogram(); h != nil {
				mean := time.Duration(0)
				if h.GetSampleCount() > 0 {
					mean = time.Duration(h.GetSampleSum() / float64(h.GetSampleCount()))
				}
				value = fmt.Sprintf("count=%d mean=%s", h.GetSampleCount(), mean)
			} else {
				value = strconv.FormatFloat(m.GetCounter().GetValue(), 'f', -1, 64)
			}

			stats.Rows = append(stats.Rows, []string{name, strings.Join(labels, ","), value})
		}
	}
	return stats, nil
}
