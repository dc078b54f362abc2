package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ── HTTP request metrics (RED method) ──────────────────────────────────

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "defi_radar",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "defi_radar",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "defi_radar",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})
)

// ── Refresh / ingestion metrics ────────────────────────────────────────

var (
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "defi_radar",
		Subsystem: "refresh",
		Name:      "total",
		Help:      "Total number of refresh attempts per data domain.",
	}, []string{"domain", "status"})

	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "defi_radar",
		Subsystem: "refresh",
		Name:      "duration_seconds",
		Help:      "Duration of a full refresh per data domain in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"domain"})

	RefreshLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "defi_radar",
		Subsystem: "refresh",
		Name:      "last_success_timestamp",
		Help:      "Unix timestamp of the last successful refresh per data domain.",
	}, []string{"domain"})

	SnapshotRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "defi_radar",
		Subsystem: "snapshot",
		Name:      "records",
		Help:      "Number of records stored by the last successful refresh per domain.",
	}, []string{"domain"})
)

// ── Response cache metrics ─────────────────────────────────────────────

var (
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "defi_radar",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total response cache hits per key.",
	}, []string{"key"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "defi_radar",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total response cache misses per key.",
	}, []string{"key"})
)
