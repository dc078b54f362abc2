// Package handler contains the HTTP surface: per-domain refresh
// endpoints, cache-aside read endpoints, and the vote simulation
// mutation. Handlers accept narrow interfaces so tests can substitute
// the store and cache.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/web3-frozen/defi-radar/internal/metrics"
)

var errAllSourcesFailed = errors.New("all upstream sources failed")

// Cache is the response cache as seen by read and fetch handlers.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, val []byte)
}

// observeRefresh records refresh metrics for the bespoke fetch handlers
// (the generic pipeline records its own).
func observeRefresh(domain string, start time.Time, err error, records int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RefreshTotal.WithLabelValues(domain, status).Inc()
	metrics.RefreshDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.RefreshLastSuccess.WithLabelValues(domain).SetToCurrentTime()
		metrics.SnapshotRecords.WithLabelValues(domain).Set(float64(records))
	}
}
