package store

import (
	"context"
	"strings"
	"time"
)

// RiskMetric is one protocol row from the latest risk-metric snapshot.
type RiskMetric struct {
	ID             int64     `json:"id" ingest:"-"`
	Protocol       string    `json:"protocol"`
	Category       string    `json:"category"`
	TVL            *float64  `json:"tvl"`
	TVLChange24h   *float64  `json:"tvl_change_24h"`
	DominanceRatio *float64  `json:"dominance_ratio"`
	Volatility30d  *float64  `json:"volatility_30d"`
	UpdatedAt      time.Time `json:"updated_at" ingest:"-"`
}

// RiskScore is one protocol row from the latest risk-score snapshot.
// All fields carry explicit defaults to tolerate partial upstream data.
type RiskScore struct {
	ID          int64     `json:"id" ingest:"-"`
	Protocol    string    `json:"protocol"`
	RiskScore   float64   `json:"risk_score"`
	AuditStatus string    `json:"audit_status"`
	UpdatedAt   time.Time `json:"updated_at" ingest:"-"`
}

// riskMetricSortColumns maps caller-facing RiskMetric field names to the
// columns they sort by. This is the ordering allow-list: anything not in
// this map is rejected by the handler before it reaches SQL.
var riskMetricSortColumns = map[string]string{
	"protocol":        "protocol",
	"category":        "category",
	"tvl":             "tvl",
	"tvl_change_24h":  "tvl_change_24h",
	"dominance_ratio": "dominance_ratio",
	"volatility_30d":  "volatility_30d",
	"updated_at":      "updated_at",
}

// RiskMetricSortColumn resolves a caller-supplied ordering field (with an
// optional leading "-" for descending) into a safe ORDER BY fragment.
func RiskMetricSortColumn(field string) (string, bool) {
	desc := strings.HasPrefix(field, "-")
	name := strings.TrimPrefix(field, "-")
	col, ok := riskMetricSortColumns[name]
	if !ok {
		return "", false
	}
	if desc {
		return col + " DESC NULLS LAST", true
	}
	return col + " ASC NULLS LAST", true
}

// ReplaceRiskMetrics swaps the full risk-metric snapshot in one
// transaction and returns the rows as persisted.
func (s *Store) ReplaceRiskMetrics(ctx context.Context, rows []RiskMetric) ([]RiskMetric, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM risk_metrics`); err != nil {
		return nil, err
	}
	stored := make([]RiskMetric, 0, len(rows))
	for _, m := range rows {
		err := tx.QueryRow(ctx, `
			INSERT INTO risk_metrics (protocol, category, tvl, tvl_change_24h, dominance_ratio, volatility_30d, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now())
			RETURNING id, updated_at`,
			m.Protocol, m.Category, m.TVL, m.TVLChange24h, m.DominanceRatio, m.Volatility30d).
			Scan(&m.ID, &m.UpdatedAt)
		if err != nil {
			return nil, err
		}
		stored = append(stored, m)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// ListRiskMetrics returns one page of the current snapshot. orderBy must
// come from RiskMetricSortColumn; it is interpolated, not parameterized.
func (s *Store) ListRiskMetrics(ctx context.Context, orderBy string, limit, offset int) ([]RiskMetric, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, protocol, category, tvl, tvl_change_24h, dominance_ratio, volatility_30d, updated_at
		FROM risk_metrics
		ORDER BY `+orderBy+`
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []RiskMetric
	for rows.Next() {
		var m RiskMetric
		if err := rows.Scan(&m.ID, &m.Protocol, &m.Category, &m.TVL, &m.TVLChange24h,
			&m.DominanceRatio, &m.Volatility30d, &m.UpdatedAt); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

func (s *Store) CountRiskMetrics(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM risk_metrics`).Scan(&count)
	return count, err
}

// ReplaceRiskScores swaps the full risk-score snapshot in one
// transaction and returns the rows as persisted.
func (s *Store) ReplaceRiskScores(ctx context.Context, rows []RiskScore) ([]RiskScore, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM risk_scores`); err != nil {
		return nil, err
	}
	stored := make([]RiskScore, 0, len(rows))
	for _, r := range rows {
		err := tx.QueryRow(ctx, `
			INSERT INTO risk_scores (protocol, risk_score, audit_status, updated_at)
			VALUES ($1, $2, $3, now())
			RETURNING id, updated_at`,
			r.Protocol, r.RiskScore, r.AuditStatus).
			Scan(&r.ID, &r.UpdatedAt)
		if err != nil {
			return nil, err
		}
		stored = append(stored, r)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return stored, nil
}

// ListRiskScores returns one page of the current snapshot, highest score first.
func (s *Store) ListRiskScores(ctx context.Context, limit, offset int) ([]RiskScore, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, protocol, risk_score, audit_status, updated_at
		FROM risk_scores
		ORDER BY risk_score DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []RiskScore
	for rows.Next() {
		var r RiskScore
		if err := rows.Scan(&r.ID, &r.Protocol, &r.RiskScore, &r.AuditStatus, &r.UpdatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, r)
	}
	return scores, rows.Err()
}

func (s *Store) CountRiskScores(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM risk_scores`).Scan(&count)
	return count, err
}
