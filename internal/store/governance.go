package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// Proposal is one governance proposal from the latest snapshot.
//
// ProposalID is only unique within one protocol's proposal set per
// refresh; vote lookups match the first row with the given identifier.
// Vote counters are reset by the next governance refresh (the snapshot
// is wholesale-replaced), so totals are a live simulation over the
// current snapshot, not durable tallies.
type Proposal struct {
	ID           int64     `json:"id"`
	Protocol     string    `json:"protocol"`
	ProposalID   string    `json:"proposal_id"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	ForVotes     int       `json:"for_votes"`
	AgainstVotes int       `json:"against_votes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReplaceProposals swaps the full governance snapshot in one transaction
// and returns the rows as persisted (ids and timestamps assigned by the
// database).
func (s *Store) ReplaceProposals(ctx context.Context, proposals []Proposal) ([]Proposal, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM governance_proposals`); err != nil {
		return nil, err
	}
	stored := make([]Proposal, 0, len(proposals))
	for _, p := range proposals {
		err := tx.QueryRow(ctx, `
			INSERT INTO governance_proposals (protocol, proposal_id, title, status, for_votes, against_votes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			RETURNING id, created_at, updated_at`,
			p.Protocol, p.ProposalID, p.Title, p.Status, p.ForVotes, p.AgainstVotes).
			Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
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

// ListProposals returns one page of the current snapshot, newest first.
func (s *Store) ListProposals(ctx context.Context, limit, offset int) ([]Proposal, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, protocol, proposal_id, title, status, for_votes, against_votes, created_at, updated_at
		FROM governance_proposals
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var proposals []Proposal
	for rows.Next() {
		var p Proposal
		if err := rows.Scan(&p.ID, &p.Protocol, &p.ProposalID, &p.Title, &p.Status,
			&p.ForVotes, &p.AgainstVotes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		proposals = append(proposals, p)
	}
	return proposals, rows.Err()
}

func (s *Store) CountProposals(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM governance_proposals`).Scan(&count)
	return count, err
}

// IncrementVote bumps one vote counter by exactly one as a single UPDATE,
// so concurrent votes on the same proposal cannot lose an update.
// forVote selects the counter. Returns ErrNotFound when no proposal with
// the given identifier exists in the current snapshot.
func (s *Store) IncrementVote(ctx context.Context, proposalID string, forVote bool) (*Proposal, error) {
	column := "against_votes"
	if forVote {
		column = "for_votes"
	}

	var p Proposal
	err := s.pool.QueryRow(ctx, `
		UPDATE governance_proposals SET `+column+` = `+column+` + 1, updated_at = now()
		WHERE id = (
			SELECT id FROM governance_proposals WHERE proposal_id = $1 ORDER BY id LIMIT 1
		)
		RETURNING id, protocol, proposal_id, title, status, for_votes, against_votes, created_at, updated_at`,
		proposalID).
		Scan(&p.ID, &p.Protocol, &p.ProposalID, &p.Title, &p.Status,
			&p.ForVotes, &p.AgainstVotes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
