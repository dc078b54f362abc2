// Package ingest implements the shared fetch-normalize-persist-cache
// pipeline behind every refresh endpoint: pull JSON from an upstream,
// unwrap the optional data envelope, filter unknown keys against the
// target shape, apply per-domain alias overrides, replace the stored
// snapshot, and prime the response cache.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"sort"
	"time"

	"github.com/web3-frozen/defi-radar/internal/metrics"
)

// RequestTimeout bounds every outbound call. No retries.
const RequestTimeout = 10 * time.Second

var (
	// ErrUpstream marks a non-2xx or network failure from a third-party
	// source. The prior snapshot stays untouched.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrSchema marks an upstream payload whose unwrapped value is not a
	// sequence of objects. The prior snapshot stays untouched.
	ErrSchema = errors.New("schema mismatch")
)

// ResponseCache is the write side of the response cache.
type ResponseCache interface {
	Set(ctx context.Context, key string, val []byte)
}

// Pipeline drives one domain's ingestion. T is the target record shape;
// its json tags define the recognized-key allow-list.
type Pipeline[T any] struct {
	Domain   string
	URL      string
	CacheKey string

	// Limit caps the number of items taken from the upstream payload.
	// Zero means no cap.
	Limit int

	// Aliases maps upstream keys to local field names. Applied after
	// generic filtering, so an alias wins over a same-named raw field.
	Aliases map[string]string

	// Normalize applies per-domain defaults to each constructed record.
	Normalize func(*T)

	// Less ranks built records before the Limit cap is applied, so the
	// cap keeps the top records instead of the first in payload order.
	// Nil keeps payload order.
	Less func(a, b T) bool

	// Replace atomically swaps the domain's stored snapshot and returns
	// the rows as persisted (store-assigned ids and timestamps filled).
	Replace func(ctx context.Context, items []T) ([]T, error)

	Client *http.Client
	Cache  ResponseCache
	Logger *slog.Logger

	fields map[string]struct{}
}

// Run executes one refresh. On any error the stored snapshot and the
// cache entry are left exactly as they were.
func (p *Pipeline[T]) Run(ctx context.Context) error {
	start := time.Now()
	err := p.run(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RefreshTotal.WithLabelValues(p.Domain, status).Inc()
	metrics.RefreshDuration.WithLabelValues(p.Domain).Observe(time.Since(start).Seconds())
	return err
}

func (p *Pipeline[T]) run(ctx context.Context) error {
	items, err := p.Fetch(ctx)
	if err != nil {
		p.Logger.Error("refresh failed", "domain", p.Domain, "url", p.URL, "error", err)
		return err
	}

	// Prime the cache with the rows the store handed back, not the
	// pre-insert ones: a read right after a refresh must match a read
	// that went to the store.
	stored, err := p.Replace(ctx, items)
	if err != nil {
		p.Logger.Error("replace snapshot failed", "domain", p.Domain, "error", err)
		return fmt.Errorf("replace %s snapshot: %w", p.Domain, err)
	}

	Prime(ctx, p.Cache, p.CacheKey, stored)
	metrics.RefreshLastSuccess.WithLabelValues(p.Domain).SetToCurrentTime()
	metrics.SnapshotRecords.WithLabelValues(p.Domain).Set(float64(len(stored)))
	p.Logger.Info("snapshot refreshed", "domain", p.Domain, "records", len(stored))
	return nil
}

// Fetch pulls and normalizes the upstream payload without persisting it.
func (p *Pipeline[T]) Fetch(ctx context.Context) ([]T, error) {
	if p.fields == nil {
		var zero T
		p.fields = fieldsOf(reflect.TypeOf(zero))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d from %s", ErrUpstream, resp.StatusCode, p.URL)
	}

	var root any
	if err := json.NewDecoder(resp.Body).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrSchema, err)
	}

	// Unwrap the optional {"data": [...]} envelope.
	if obj, ok := root.(map[string]any); ok {
		if data, ok := obj["data"]; ok {
			root = data
		}
	}

	raw, ok := root.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: payload from %s is not a sequence", ErrSchema, p.URL)
	}
	if p.Limit > 0 && p.Less == nil && len(raw) > p.Limit {
		raw = raw[:p.Limit]
	}

	items := make([]T, 0, len(raw))
	for i, entry := range raw {
		item, ok := entry.(map[string]any)
		if !ok {
			p.Logger.Warn("skipping non-object item", "domain", p.Domain, "index", i)
			continue
		}

		rec, err := p.build(item)
		if err != nil {
			// A per-item failure never aborts the batch.
			p.Logger.Warn("skipping item", "domain", p.Domain, "index", i, "error", err)
			continue
		}
		items = append(items, rec)
	}

	if p.Less != nil {
		sort.SliceStable(items, func(i, j int) bool { return p.Less(items[i], items[j]) })
	}
	if p.Limit > 0 && len(items) > p.Limit {
		items = items[:p.Limit]
	}
	return items, nil
}

// build filters unknown keys, applies alias overrides, and constructs
// one record.
func (p *Pipeline[T]) build(item map[string]any) (T, error) {
	var rec T

	clean := make(map[string]any, len(item))
	for k, v := range item {
		if _, ok := p.fields[k]; ok {
			clean[k] = v
		}
	}
	for upstream, local := range p.Aliases {
		if v, ok := item[upstream]; ok {
			clean[local] = v
		}
	}

	buf, err := json.Marshal(clean)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(buf, &rec); err != nil {
		return rec, err
	}
	if p.Normalize != nil {
		p.Normalize(&rec)
	}
	return rec, nil
}

// Prime stores the serialized record set in the response cache. Failures
// are deliberately ignored: the durable store already holds the data and
// the next read will fall back to it.
func Prime[T any](ctx context.Context, c ResponseCache, key string, items []T) {
	if c == nil {
		return
	}
	buf, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.Set(ctx, key, buf)
}
