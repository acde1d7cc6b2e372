// Package metrics holds the Prometheus collectors for the search engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QueriesTotal counts filter evaluations by presentation surface (web, api, cli).
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unisearch_queries_total",
			Help: "Total number of filter queries evaluated",
		},
		[]string{"surface"},
	)
	// QueryDuration is the time spent filtering the table.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unisearch_query_duration_seconds",
			Help:    "Query evaluation latency in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"surface"},
	)
	// SessionsActive is the number of live search sessions.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "unisearch_sessions_active",
			Help: "Number of live search sessions",
		},
	)
	// DatasetRows is the number of records in the loaded table.
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unisearch_dataset_rows",
			Help: "Number of program records loaded",
		},
		[]string{"source"},
	)
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unisearch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unisearch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// RateLimited counts requests rejected by the per-IP limiter.
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unisearch_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)
)

// ObserveQuery records one query on surface that started at start.
func ObserveQuery(surface string, start time.Time) {
	QueriesTotal.WithLabelValues(surface).Inc()
	QueryDuration.WithLabelValues(surface).Observe(time.Since(start).Seconds())
}

// SetSessions is suitable as core.StoreConfig.OnCountChange.
func SetSessions(live int) {
	SessionsActive.Set(float64(live))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
