package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleepsense_http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sleepsense_http_request_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DailyInputsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sleepsense_daily_inputs_created_total",
			Help: "Total daily inputs stored",
		},
	)

	DashboardsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sleepsense_dashboards_served_total",
			Help: "Total dashboards built, by whether the store was reachable",
		},
		[]string{"degraded"},
	)

	RecordsWithoutDuration = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sleepsense_records_without_duration_total",
			Help: "Total derived nights whose sleep duration could not be computed",
		},
	)
)
