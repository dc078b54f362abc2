package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/web3-frozen/defi-radar/internal/store"
)

func TestSimulateVoteFor(t *testing.T) {
	s := &mockGovStore{proposals: []store.Proposal{
		{ProposalID: "42", Protocol: "aave.eth", ForVotes: 3, AgainstVotes: 1},
	}}
	h := SimulateVote(s)

	req := httptest.NewRequest(http.MethodPost, "/simulate-vote/", strings.NewReader(`{"proposal_id":"42","vote":"FOR"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := s.proposals[0].ForVotes; got != 4 {
		t.Errorf("for_votes = %d, want 4", got)
	}
	if got := s.proposals[0].AgainstVotes; got != 1 {
		t.Errorf("against_votes = %d, want 1", got)
	}
	if !strings.Contains(rec.Body.String(), "Vote FOR recorded for proposal 42!") {
		t.Errorf("body = %s, want confirmation message", rec.Body.String())
	}
}

func TestSimulateVoteAgainst(t *testing.T) {
	s := &mockGovStore{proposals: []store.Proposal{
		{ProposalID: "42", Protocol: "aave.eth", ForVotes: 3, AgainstVotes: 1},
	}}
	h := SimulateVote(s)

	req := httptest.NewRequest(http.MethodPost, "/simulate-vote/", strings.NewReader(`{"proposal_id":"42","vote":"AGAINST"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := s.proposals[0].AgainstVotes; got != 2 {
		t.Errorf("against_votes = %d, want 2", got)
	}
}

func TestSimulateVoteUnknownProposal(t *testing.T) {
	s := &mockGovStore{}
	h := SimulateVote(s)

	req := httptest.NewRequest(http.MethodPost, "/simulate-vote/", strings.NewReader(`{"proposal_id":"999","vote":"FOR"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if !strings.Contains(rec.Body.String(), "999") {
		t.Errorf("body = %s, want proposal id in error", rec.Body.String())
	}
}

func TestSimulateVoteBadDirection(t *testing.T) {
	s := &mockGovStore{proposals: []store.Proposal{{ProposalID: "42"}}}
	h := SimulateVote(s)

	req := httptest.NewRequest(http.MethodPost, "/simulate-vote/", strings.NewReader(`{"proposal_id":"42","vote":"MAYBE"}`))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if !strings.Contains(rec.Body.String(), "MAYBE") {
		t.Errorf("body = %s, want rejected direction in error", rec.Body.String())
	}
	if got := s.proposals[0].ForVotes; got != 0 {
		t.Errorf("for_votes = %d, want 0 (no increment on bad input)", got)
	}
}

func TestSimulateVoteBadBody(t *testing.T) {
	h := SimulateVote(&mockGovStore{})

	req := httptest.NewRequest(http.MethodPost, "/simulate-vote/", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
