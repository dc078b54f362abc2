package store

import (
	"context"
	"time"
)

// YieldPool is one pool row from the latest yield snapshot. Numeric
// fields are pointers because the upstream omits them for some pools;
// list and object fields default to empty containers.
type YieldPool struct {
	ID               int64          `json:"id" ingest:"-"`
	Chain            string         `json:"chain"`
	Project          string         `json:"project"`
	Symbol           string         `json:"symbol"`
	TVLUsd           *float64       `json:"tvlUsd"`
	APYBase          *float64       `json:"apyBase"`
	APYReward        *float64       `json:"apyReward"`
	APY              *float64       `json:"apy"`
	RewardTokens     []string       `json:"rewardTokens"`
	Pool             string         `json:"pool"`
	APYPct1D         *float64       `json:"apyPct1D"`
	APYPct7D         *float64       `json:"apyPct7D"`
	APYPct30D        *float64       `json:"apyPct30D"`
	Stablecoin       bool           `json:"stablecoin"`
	ILRisk           string         `json:"ilRisk"`
	Exposure         string         `json:"exposure"`
	Predictions      map[string]any `json:"predictions"`
	Mu               *float64       `json:"mu"`
	Sigma            *float64       `json:"sigma"`
	Count            *int           `json:"count"`
	Outlier          bool           `json:"outlier"`
	UnderlyingTokens []string       `json:"underlyingTokens"`
	IL7D             *float64       `json:"il7d"`
	APYBaseInception *float64       `json:"apyBaseInception"`
	UpdatedAt        time.Time      `json:"updated_at" ingest:"-"`
}

// ReplaceYieldPools swaps the full yield snapshot for a new one and
// returns the rows as persisted (ids and timestamps assigned by the
// database). Delete and insert run in a single transaction so a
// concurrent reader never observes an empty set.
func (s *Store) ReplaceYieldPools(ctx context.Context, pools []YieldPool) ([]YieldPool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM yield_pools`); err != nil {
		return nil, err
	}
	stored := make([]YieldPool, 0, len(pools))
	for _, p := range pools {
		err := tx.QueryRow(ctx, `
			INSERT INTO yield_pools (chain, project, symbol, tvl_usd, apy_base, apy_reward, apy,
				reward_tokens, pool, apy_pct_1d, apy_pct_7d, apy_pct_30d, stablecoin, il_risk,
				exposure, predictions, mu, sigma, sample_count, outlier, underlying_tokens,
				il_7d, apy_base_inception, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23, now())
			RETURNING id, updated_at`,
			p.Chain, p.Project, p.Symbol, p.TVLUsd, p.APYBase, p.APYReward, p.APY,
			p.RewardTokens, p.Pool, p.APYPct1D, p.APYPct7D, p.APYPct30D, p.Stablecoin,
			p.ILRisk, p.Exposure, p.Predictions, p.Mu, p.Sigma, p.Count, p.Outlier,
			p.UnderlyingTokens, p.IL7D, p.APYBaseInception).
			Scan(&p.ID, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		stored = append(stored, p)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// ListYieldPools returns one page of the current snapshot, largest TVL first.
func (s *Store) ListYieldPools(ctx context.Context, limit, offset int) ([]YieldPool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, chain, project, symbol, tvl_usd, apy_base, apy_reward, apy, reward_tokens,
			pool, apy_pct_1d, apy_pct_7d, apy_pct_30d, stablecoin, il_risk, exposure,
			predictions, mu, sigma, sample_count, outlier, underlying_tokens, il_7d,
			apy_base_inception, updated_at
		FROM yield_pools
		ORDER BY tvl_usd DESC NULLS LAST
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []YieldPool
	for rows.Next() {
		var p YieldPool
		if err := rows.Scan(&p.ID, &p.Chain, &p.Project, &p.Symbol, &p.TVLUsd, &p.APYBase,
			&p.APYReward, &p.APY, &p.RewardTokens, &p.Pool, &p.APYPct1D, &p.APYPct7D,
			&p.APYPct30D, &p.Stablecoin, &p.ILRisk, &p.Exposure, &p.Predictions, &p.Mu,
			&p.Sigma, &p.Count, &p.Outlier, &p.UnderlyingTokens, &p.IL7D,
			&p.APYBaseInception, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func (s *Store) CountYieldPools(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM yield_pools`).Scan(&count)
	return count, err
}
