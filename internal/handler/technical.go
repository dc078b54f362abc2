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

// TechnicalStore is the store surface used by the technical endpoints.
type TechnicalStore interface {
	UpsertTechnicalSnapshot(ctx context.Context, snap *store.TechnicalSnapshot) error
	GetTechnicalSnapshot(ctx context.Context) (*store.TechnicalSnapshot, error)
}

// SwapSource provides recent DEX swaps.
type SwapSource interface {
	Swaps(ctx context.Context) (json.RawMessage, error)
}

// TransactionSource provides the wallet transaction list.
type TransactionSource interface {
	Transactions(ctx context.Context) (json.RawMessage, error)
}

// SimulationSource optionally provides a transaction simulation result.
type SimulationSource interface {
	Enabled() bool
	Simulate(ctx context.Context, from, to, input string) (json.RawMessage, error)
}

// FetchTechnical refreshes the technical snapshot. Unlike the on-chain
// fan-out, the swap and transaction sources are both required: either
// failing fails the refresh and leaves the prior snapshot intact. The
// simulation source is best-effort and degrades to an empty placeholder
// when unconfigured or failing.
func FetchTechnical(swaps SwapSource, txs TransactionSource, sim SimulationSource, wallet string, s TechnicalStore, c Cache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		swapData, err := swaps.Swaps(ctx)
		if err != nil {
			logger.Error("technical swap source failed", "error", err)
			observeRefresh("technical", start, err, 0)
			writeError(w, http.StatusInternalServerError, "failed to fetch technical data")
			return
		}
		txData, err := txs.Transactions(ctx)
		if err != nil {
			logger.Error("technical transaction source failed", "error", err)
			observeRefresh("technical", start, err, 0)
			writeError(w, http.StatusInternalServerError, "failed to fetch technical data")
			return
		}

		simData := json.RawMessage(`{}`)
		if sim != nil && sim.Enabled() {
			if result, err := sim.Simulate(ctx, wallet, wallet, "0x"); err != nil {
				logger.Warn("simulation source failed, storing placeholder", "error", err)
			} else {
				simData = result
			}
		}

		snap := &store.TechnicalSnapshot{
			DexSwaps:           swapData,
			WalletTransactions: txData,
			Simulation:         simData,
		}
		if err := s.UpsertTechnicalSnapshot(ctx, snap); err != nil {
			logger.Error("upsert technical snapshot failed", "error", err)
			observeRefresh("technical", start, err, 0)
			writeError(w, http.StatusInternalServerError, "failed to update technical data")
			return
		}

		primeSingleton(ctx, c, cache.KeyTechnical, snap)
		observeRefresh("technical", start, nil, 1)
		logger.Info("snapshot refreshed", "domain", "technical")
		writeMessage(w, "Technical data updated successfully!")
	}
}

// GetTechnicalData serves the singleton technical record, or an empty
// object when no refresh has run yet.
func GetTechnicalData(s TechnicalStore, c Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if buf, ok := c.Get(ctx, cache.KeyTechnical); ok {
			writeCached(w, buf)
			return
		}

		snap, err := s.GetTechnicalSnapshot(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read technical data")
			return
		}
		if snap == nil {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}
