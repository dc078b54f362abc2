package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/web3-frozen/defi-radar/internal/cache"
	"github.com/web3-frozen/defi-radar/internal/ingest"
	"github.com/web3-frozen/defi-radar/internal/store"
)

// YieldStore is the store surface used by the yield read path.
type YieldStore interface {
	ListYieldPools(ctx context.Context, limit, offset int) ([]store.YieldPool, error)
	CountYieldPools(ctx context.Context) (int, error)
}

// NewYieldPipeline builds the yield ingestion pipeline: top 10 pools,
// fields mapped 1:1 by name, list/object fields defaulted to empty
// containers.
func NewYieldPipeline(client *http.Client, url string, replace func(context.Context, []store.YieldPool) ([]store.YieldPool, error), c Cache, logger *slog.Logger) *ingest.Pipeline[store.YieldPool] {
	return &ingest.Pipeline[store.YieldPool]{
		Domain:    "yield",
		URL:       url,
		CacheKey:  cache.KeyYield,
		Limit:     10,
		Normalize: normalizeYieldPool,
		Replace:   replace,
		Client:    client,
		Cache:     c,
		Logger:    logger,
	}
}

func normalizeYieldPool(p *store.YieldPool) {
	if p.RewardTokens == nil {
		p.RewardTokens = []string{}
	}
	if p.UnderlyingTokens == nil {
		p.UnderlyingTokens = []string{}
	}
	if p.Predictions == nil {
		p.Predictions = map[string]any{}
	}
}

func FetchYield(pipe *ingest.Pipeline[store.YieldPool]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pipe.Run(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch yield data")
			return
		}
		writeMessage(w, "Yield data updated successfully!")
	}
}

func GetYieldData(s YieldStore, c Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if buf, ok := c.Get(ctx, cache.KeyYield); ok {
			writeCached(w, buf)
			return
		}

		page, size := pageParams(r)
		pools, err := s.ListYieldPools(ctx, size, (page-1)*size)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list yield data")
			return
		}
		count, err := s.CountYieldPools(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list yield data")
			return
		}
		if pools == nil {
			pools = []store.YieldPool{}
		}
		writeJSON(w, http.StatusOK, pageResponse{Count: count, Page: page, PageSize: size, Results: pools})
	}
}
