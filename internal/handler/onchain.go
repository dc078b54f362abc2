package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/web3-frozen/defi-radar/internal/cache"
	"github.com/web3-frozen/defi-radar/internal/store"
)

// OnChainStore is the store surface used by the on-chain endpoints.
type OnChainStore interface {
	UpsertOnChainSnapshot(ctx context.Context, snap *store.OnChainSnapshot) error
	GetOnChainSnapshot(ctx context.Context) (*store.OnChainSnapshot, error)
}

// VolumeSource provides transaction-volume rows.
type VolumeSource interface {
	Rows(ctx context.Context) (json.RawMessage, error)
}

// ChartSource provides the historical TVL series.
type ChartSource interface {
	TVLChart(ctx context.Context) (json.RawMessage, error)
}

// BalanceSource provides the wallet/market balance figure.
type BalanceSource interface {
	Balance(ctx context.Context) (json.RawMessage, error)
}

// FetchOnChain fans out to the volume, TVL-chart and balance sources.
// Each source fails independently; fields from a failed source keep
// their zero/empty defaults. Only when every source fails is the
// refresh an error and the prior snapshot left untouched.
func FetchOnChain(volume VolumeSource, chart ChartSource, balance BalanceSource, s OnChainStore, c Cache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		snap := &store.OnChainSnapshot{
			TransactionVolume: json.RawMessage(`[]`),
			TVL:               json.RawMessage(`[]`),
			WalletBalance:     json.RawMessage(`{}`),
		}

		ok := 0
		if rows, err := volume.Rows(ctx); err != nil {
			logger.Error("on-chain volume source failed", "error", err)
		} else {
			snap.TransactionVolume = rows
			ok++
		}
		if series, err := chart.TVLChart(ctx); err != nil {
			logger.Error("on-chain tvl source failed", "error", err)
		} else {
			snap.TVL = series
			ok++
		}
		if bal, err := balance.Balance(ctx); err != nil {
			logger.Error("on-chain balance source failed", "error", err)
		} else {
			snap.WalletBalance = bal
			ok++
		}

		if ok == 0 {
			observeRefresh("on_chain", start, errAllSourcesFailed, 0)
			writeError(w, http.StatusInternalServerError, "failed to fetch on-chain data")
			return
		}

		if err := s.UpsertOnChainSnapshot(ctx, snap); err != nil {
			logger.Error("upsert on-chain snapshot failed", "error", err)
			observeRefresh("on_chain", start, err, 0)
			writeError(w, http.StatusInternalServerError, "failed to update on-chain data")
			return
		}

		// Upsert scanned the stored timestamp back, so the cached copy
		// matches what a store read would return.
		primeSingleton(ctx, c, cache.KeyOnChain, snap)
		observeRefresh("on_chain", start, nil, 1)
		logger.Info("snapshot refreshed", "domain", "on_chain", "sources_ok", ok)
		writeMessage(w, "On-chain data updated successfully!")
	}
}

// GetOnChainData serves the singleton on-chain record, or an empty
// object when no refresh has run yet.
func GetOnChainData(s OnChainStore, c Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if buf, ok := c.Get(ctx, cache.KeyOnChain); ok {
			writeCached(w, buf)
			return
		}

		snap, err := s.GetOnChainSnapshot(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read on-chain data")
			return
		}
		if snap == nil {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func primeSingleton(ctx context.Context, c Cache, key string, v any) {
	if c == nil {
		return
	}
	buf, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Set(ctx, key, buf)
}
