package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Singleton snapshot tables hold at most one live row, identified by a
// fixed key. A refresh upserts by that key instead of replacing a set.
const singletonKey = 1

// OnChainSnapshot is the single current on-chain activity record.
type OnChainSnapshot struct {
	TransactionVolume json.RawMessage `json:"transaction_volume"`
	TVL               json.RawMessage `json:"tvl"`
	WalletBalance     json.RawMessage `json:"wallet_balance"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TechnicalSnapshot is the single current technical/simulation record.
type TechnicalSnapshot struct {
	DexSwaps           json.RawMessage `json:"dex_swaps"`
	WalletTransactions json.RawMessage `json:"wallet_transactions"`
	Simulation         json.RawMessage `json:"simulation"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// UpsertOnChainSnapshot replaces the singleton on-chain row by fixed key
// and writes the database-assigned timestamp back into snap.
func (s *Store) UpsertOnChainSnapshot(ctx context.Context, snap *OnChainSnapshot) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO on_chain_snapshot (id, transaction_volume, tvl, wallet_balance, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE
			SET transaction_volume = $2, tvl = $3, wallet_balance = $4, updated_at = now()
		RETURNING updated_at`,
		singletonKey, snap.TransactionVolume, snap.TVL, snap.WalletBalance).
		Scan(&snap.UpdatedAt)
}

// GetOnChainSnapshot returns the current row, or (nil, nil) when no
// refresh has run yet.
func (s *Store) GetOnChainSnapshot(ctx context.Context) (*OnChainSnapshot, error) {
	var snap OnChainSnapshot
	err := s.pool.QueryRow(ctx, `
		SELECT transaction_volume, tvl, wallet_balance, updated_at
		FROM on_chain_snapshot WHERE id = $1`, singletonKey).
		Scan(&snap.TransactionVolume, &snap.TVL, &snap.WalletBalance, &snap.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// UpsertTechnicalSnapshot replaces the singleton technical row by fixed
// key and writes the database-assigned timestamp back into snap.
func (s *Store) UpsertTechnicalSnapshot(ctx context.Context, snap *TechnicalSnapshot) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO technical_snapshot (id, dex_swaps, wallet_transactions, simulation, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE
			SET dex_swaps = $2, wallet_transactions = $3, simulation = $4, updated_at = now()
		RETURNING updated_at`,
		singletonKey, snap.DexSwaps, snap.WalletTransactions, snap.Simulation).
		Scan(&snap.UpdatedAt)
}

// GetTechnicalSnapshot returns the current row, or (nil, nil) when no
// refresh has run yet.
func (s *Store) GetTechnicalSnapshot(ctx context.Context) (*TechnicalSnapshot, error) {
	var snap TechnicalSnapshot
	err := s.pool.QueryRow(ctx, `
		SELECT dex_swaps, wallet_transactions, simulation, updated_at
		FROM technical_snapshot WHERE id = $1`, singletonKey).
		Scan(&snap.DexSwaps, &snap.WalletTransactions, &snap.Simulation, &snap.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
