package store

import "context"

const migrationSQL = `
CREATE TABLE IF NOT EXISTS yield_pools (
    id BIGSERIAL PRIMARY KEY,
    chain TEXT NOT NULL DEFAULT '',
    project TEXT NOT NULL DEFAULT '',
    symbol TEXT NOT NULL DEFAULT '',
    tvl_usd DOUBLE PRECISION,
    apy_base DOUBLE PRECISION,
    apy_reward DOUBLE PRECISION,
    apy DOUBLE PRECISION,
    reward_tokens JSONB NOT NULL DEFAULT '[]',
    pool TEXT NOT NULL DEFAULT '',
    apy_pct_1d DOUBLE PRECISION,
    apy_pct_7d DOUBLE PRECISION,
    apy_pct_30d DOUBLE PRECISION,
    stablecoin BOOLEAN NOT NULL DEFAULT false,
    il_risk TEXT NOT NULL DEFAULT '',
    exposure TEXT NOT NULL DEFAULT '',
    predictions JSONB NOT NULL DEFAULT '{}',
    mu DOUBLE PRECISION,
    sigma DOUBLE PRECISION,
    sample_count INT,
    outlier BOOLEAN NOT NULL DEFAULT false,
    underlying_tokens JSONB NOT NULL DEFAULT '[]',
    il_7d DOUBLE PRECISION,
    apy_base_inception DOUBLE PRECISION,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS governance_proposals (
    id BIGSERIAL PRIMARY KEY,
    protocol TEXT NOT NULL DEFAULT '',
    proposal_id TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    for_votes INT NOT NULL DEFAULT 0,
    against_votes INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS risk_metrics (
    id BIGSERIAL PRIMARY KEY,
    protocol TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT 'Other',
    tvl DOUBLE PRECISION,
    tvl_change_24h DOUBLE PRECISION,
    dominance_ratio DOUBLE PRECISION,
    volatility_30d DOUBLE PRECISION,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS risk_scores (
    id BIGSERIAL PRIMARY KEY,
    protocol TEXT NOT NULL DEFAULT '',
    risk_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    audit_status TEXT NOT NULL DEFAULT '',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS on_chain_snapshot (
    id INT PRIMARY KEY CHECK (id = 1),
    transaction_volume JSONB NOT NULL DEFAULT '[]',
    tvl JSONB NOT NULL DEFAULT '[]',
    wallet_balance JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS technical_snapshot (
    id INT PRIMARY KEY CHECK (id = 1),
    dex_swaps JSONB NOT NULL DEFAULT '[]',
    wallet_transactions JSONB NOT NULL DEFAULT '[]',
    simulation JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, migrationSQL)
	return err
}
