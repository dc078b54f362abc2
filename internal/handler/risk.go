package handler

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/web3-frozen/defi-radar/internal/cache"
	"github.com/web3-frozen/defi-radar/internal/ingest"
	"github.com/web3-frozen/defi-radar/internal/store"
)

// Both risk domains ingest the same protocols listing; they differ only
// in target shape, alias overrides, and cache key.

// RiskMetricStore is the store surface used by the risk-metric read path.
type RiskMetricStore interface {
	ListRiskMetrics(ctx context.Context, orderBy string, limit, offset int) ([]store.RiskMetric, error)
	CountRiskMetrics(ctx context.Context) (int, error)
}

// RiskScoreStore is the store surface used by the risk-score read path.
type RiskScoreStore interface {
	ListRiskScores(ctx context.Context, limit, offset int) ([]store.RiskScore, error)
	CountRiskScores(ctx context.Context) (int, error)
}

// NewRiskMetricPipeline builds the risk-metric ingestion pipeline: the
// top 15 protocols by TVL, largest first.
func NewRiskMetricPipeline(client *http.Client, url string, replace func(context.Context, []store.RiskMetric) ([]store.RiskMetric, error), c Cache, logger *slog.Logger) *ingest.Pipeline[store.RiskMetric] {
	return &ingest.Pipeline[store.RiskMetric]{
		Domain:   "risk_metrics",
		URL:      url,
		CacheKey: cache.KeyRiskMetric,
		Limit:    15,
		Aliases: map[string]string{
			"name":      "protocol",
			"change_1d": "tvl_change_24h",
			"dominance": "dominance_ratio",
		},
		Normalize: func(m *store.RiskMetric) {
			if m.Category == "" {
				m.Category = "Other"
			}
		},
		Less: func(a, b store.RiskMetric) bool {
			return floatOrMin(a.TVL) > floatOrMin(b.TVL)
		},
		Replace: replace,
		Client:  client,
		Cache:   c,
		Logger:  logger,
	}
}

// NewRiskScorePipeline builds the risk-score ingestion pipeline: the top
// 15 protocols by score, largest first.
func NewRiskScorePipeline(client *http.Client, url string, replace func(context.Context, []store.RiskScore) ([]store.RiskScore, error), c Cache, logger *slog.Logger) *ingest.Pipeline[store.RiskScore] {
	return &ingest.Pipeline[store.RiskScore]{
		Domain:   "risk_scores",
		URL:      url,
		CacheKey: cache.KeyRiskScore,
		Limit:    15,
		Aliases: map[string]string{
			"name":       "protocol",
			"mcap":       "risk_score",
			"audit_note": "audit_status",
		},
		Less: func(a, b store.RiskScore) bool {
			return a.RiskScore > b.RiskScore
		},
		Replace: replace,
		Client:  client,
		Cache:   c,
		Logger:  logger,
	}
}

// floatOrMin treats an absent upstream number as smaller than any
// present one, pushing it past the top-N cap.
func floatOrMin(v *float64) float64 {
	if v == nil {
		return math.Inf(-1)
	}
	return *v
}

func FetchRiskMetrics(pipe *ingest.Pipeline[store.RiskMetric]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pipe.Run(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch risk metrics")
			return
		}
		writeMessage(w, "Risk metrics updated successfully!")
	}
}

func FetchRiskScores(pipe *ingest.Pipeline[store.RiskScore]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pipe.Run(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch risk scores")
			return
		}
		writeMessage(w, "Risk scores updated successfully!")
	}
}

// GetRiskMetrics serves the risk-metric snapshot. This is the one read
// path with caller-controlled ordering: the `ordering` parameter must
// name a RiskMetric field, optionally prefixed with "-" for descending,
// and anything else is rejected with a 400.
func GetRiskMetrics(s RiskMetricStore, c Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderBy := "tvl DESC NULLS LAST"
		if ordering := r.URL.Query().Get("ordering"); ordering != "" {
			ob, ok := store.RiskMetricSortColumn(ordering)
			if !ok {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid ordering field: %s", ordering))
				return
			}
			orderBy = ob
		}

		// The cache holds the default ordering; a caller-specified sort
		// must come from the store.
		if r.URL.Query().Get("ordering") == "" {
			if buf, ok := c.Get(ctx, cache.KeyRiskMetric); ok {
				writeCached(w, buf)
				return
			}
		}

		page, size := pageParams(r)
		rows, err := s.ListRiskMetrics(ctx, orderBy, size, (page-1)*size)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list risk metrics")
			return
		}
		count, err := s.CountRiskMetrics(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list risk metrics")
			return
		}
		if rows == nil {
			rows = []store.RiskMetric{}
		}
		writeJSON(w, http.StatusOK, pageResponse{Count: count, Page: page, PageSize: size, Results: rows})
	}
}

func GetRiskScores(s RiskScoreStore, c Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if buf, ok := c.Get(ctx, cache.KeyRiskScore); ok {
			writeCached(w, buf)
			return
		}

		page, size := pageParams(r)
		rows, err := s.ListRiskScores(ctx, size, (page-1)*size)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list risk scores")
			return
		}
		count, err := s.CountRiskScores(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list risk scores")
			return
		}
		if rows == nil {
			rows = []store.RiskScore{}
		}
		writeJSON(w, http.StatusOK, pageResponse{Count: count, Page: page, PageSize: size, Results: rows})
	}
}
