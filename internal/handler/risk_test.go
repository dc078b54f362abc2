package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/web3-frozen/defi-radar/internal/cache"
	"github.com/web3-frozen/defi-radar/internal/store"
)

func TestGetRiskMetricsInvalidOrdering(t *testing.T) {
	s := &mockRiskStore{}
	h := GetRiskMetrics(s, newFakeCache())

	req := httptest.NewRequest(http.MethodGet, "/risk-metrics/?ordering=not_a_real_field", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "not_a_real_field") {
		t.Errorf("body = %s, want rejected field named in error", rec.Body.String())
	}
	if s.listCalls != 0 {
		t.Errorf("store queried %d times on invalid ordering, want 0", s.listCalls)
	}
}

func TestGetRiskMetricsOrderingDescending(t *testing.T) {
	s := &mockRiskStore{metrics: []store.RiskMetric{{Protocol: "Aave"}}}
	h := GetRiskMetrics(s, newFakeCache())

	req := httptest.NewRequest(http.MethodGet, "/risk-metrics/?ordering=-tvl", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if want := "tvl DESC NULLS LAST"; s.lastOrderBy != want {
		t.Errorf("orderBy = %q, want %q", s.lastOrderBy, want)
	}
}

func TestGetRiskMetricsOrderingAscending(t *testing.T) {
	s := &mockRiskStore{}
	h := GetRiskMetrics(s, newFakeCache())

	req := httptest.NewRequest(http.MethodGet, "/risk-metrics/?ordering=volatility_30d", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if want := "volatility_30d ASC NULLS LAST"; s.lastOrderBy != want {
		t.Errorf("orderBy = %q, want %q", s.lastOrderBy, want)
	}
}

// An explicit ordering must come from the store even when the cache is
// warm; the cached payload only holds the default sort.
func TestGetRiskMetricsOrderingBypassesCache(t *testing.T) {
	s := &mockRiskStore{metrics: []store.RiskMetric{{Protocol: "Aave"}}}
	c := newFakeCache()
	c.Set(context.Background(), cache.KeyRiskMetric, []byte(`[{"protocol":"Cached"}]`))
	h := GetRiskMetrics(s, c)

	req := httptest.NewRequest(http.MethodGet, "/risk-metrics/?ordering=-tvl", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if s.listCalls != 1 {
		t.Errorf("store queried %d times, want 1 (ordering bypasses cache)", s.listCalls)
	}
	if strings.Contains(rec.Body.String(), "Cached") {
		t.Errorf("cached payload served despite explicit ordering: %s", rec.Body.String())
	}
}

func TestGetRiskMetricsCacheHit(t *testing.T) {
	s := &mockRiskStore{}
	c := newFakeCache()
	cached := []byte(`[{"protocol":"Aave","tvl":1.5}]`)
	c.Set(context.Background(), cache.KeyRiskMetric, cached)
	h := GetRiskMetrics(s, c)

	req := httptest.NewRequest(http.MethodGet, "/risk-metrics/", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != string(cached) {
		t.Errorf("body = %s, want cached bytes verbatim", rec.Body.String())
	}
	if s.listCalls != 0 {
		t.Errorf("store queried %d times on warm cache, want 0", s.listCalls)
	}
}

func TestGetRiskMetricsPaginatedResponse(t *testing.T) {
	s := &mockRiskStore{metrics: []store.RiskMetric{{Protocol: "Aave"}, {Protocol: "Lido"}}}
	h := GetRiskMetrics(s, newFakeCache())

	req := httptest.NewRequest(http.MethodGet, "/risk-metrics/?page=2&page_size=1", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	var resp struct {
		Count    int               `json:"count"`
		Page     int               `json:"page"`
		PageSize int               `json:"page_size"`
		Results  []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Count != 2 || resp.Page != 2 || resp.PageSize != 1 {
		t.Errorf("envelope = {count:%d page:%d page_size:%d}, want {2 2 1}", resp.Count, resp.Page, resp.PageSize)
	}
}

func TestGetRiskScoresEmpty(t *testing.T) {
	h := GetRiskScores(&mockRiskStore{}, newFakeCache())

	req := httptest.NewRequest(http.MethodGet, "/risk-scores/", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"results":[]`) {
		t.Errorf("body = %s, want empty results array", rec.Body.String())
	}
}
