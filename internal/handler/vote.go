package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/web3-frozen/defi-radar/internal/store"
)

// VoteStore is the store surface used by the vote simulation.
type VoteStore interface {
	IncrementVote(ctx context.Context, proposalID string, forVote bool) (*store.Proposal, error)
}

// SimulateVote increments one vote counter on an existing proposal.
//
// The lookup is by proposal identifier alone; identifiers are only
// unique within one protocol's proposal set, so the first match wins.
// Simulated totals last until the next governance refresh replaces the
// snapshot.
func SimulateVote(s VoteStore) http.HandlerFunc {
	type request struct {
		ProposalID string `json:"proposal_id"`
		Vote       string `json:"vote"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Vote != "FOR" && req.Vote != "AGAINST" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid vote direction: %s", req.Vote))
			return
		}

		_, err := s.IncrementVote(r.Context(), req.ProposalID, req.Vote == "FOR")
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("proposal not found: %s", req.ProposalID))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to record vote")
			return
		}

		writeMessage(w, fmt.Sprintf("Vote %s recorded for proposal %s!", req.Vote, req.ProposalID))
	}
}
