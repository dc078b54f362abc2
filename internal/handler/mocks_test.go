package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/web3-frozen/defi-radar/internal/source"
	"github.com/web3-frozen/defi-radar/internal/store"
)

// storeTime stands in for the timestamps the database assigns on write.
var storeTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// fakeCache implements Cache in memory.
type fakeCache struct {
	data map[string][]byte
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	buf, ok := f.data[key]
	return buf, ok
}

func (f *fakeCache) Set(_ context.Context, key string, val []byte) {
	f.data[key] = val
	f.sets++
}

// mockGovStore implements GovernanceStore and VoteStore, counting store
// touches so cache-aside tests can assert the store was not queried.
type mockGovStore struct {
	proposals  []store.Proposal
	listCalls  int
	replaceErr error
}

func (m *mockGovStore) ReplaceProposals(_ context.Context, proposals []store.Proposal) ([]store.Proposal, error) {
	if m.replaceErr != nil {
		return nil, m.replaceErr
	}
	stored := make([]store.Proposal, len(proposals))
	for i, p := range proposals {
		p.ID = int64(i + 1)
		p.CreatedAt = storeTime
		p.UpdatedAt = storeTime
		stored[i] = p
	}
	m.proposals = stored
	return stored, nil
}

func (m *mockGovStore) ListProposals(_ context.Context, limit, offset int) ([]store.Proposal, error) {
	m.listCalls++
	if offset >= len(m.proposals) {
		return nil, nil
	}
	end := offset + limit
	if end > len(m.proposals) {
		end = len(m.proposals)
	}
	return m.proposals[offset:end], nil
}

func (m *mockGovStore) CountProposals(_ context.Context) (int, error) {
	return len(m.proposals), nil
}

func (m *mockGovStore) IncrementVote(_ context.Context, proposalID string, forVote bool) (*store.Proposal, error) {
	for i := range m.proposals {
		if m.proposals[i].ProposalID == proposalID {
			if forVote {
				m.proposals[i].ForVotes++
			} else {
				m.proposals[i].AgainstVotes++
			}
			return &m.proposals[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// stubProposalSource implements ProposalSource.
type stubProposalSource struct {
	proposals []source.SnapshotProposal
	err       error
}

func (s *stubProposalSource) Proposals(_ context.Context) ([]source.SnapshotProposal, error) {
	return s.proposals, s.err
}

// mockYieldStore implements YieldStore.
type mockYieldStore struct {
	pools     []store.YieldPool
	listCalls int
}

func (m *mockYieldStore) ListYieldPools(_ context.Context, limit, offset int) ([]store.YieldPool, error) {
	m.listCalls++
	return m.pools, nil
}

func (m *mockYieldStore) CountYieldPools(_ context.Context) (int, error) {
	return len(m.pools), nil
}

// mockRiskStore implements RiskMetricStore and RiskScoreStore.
type mockRiskStore struct {
	metrics     []store.RiskMetric
	scores      []store.RiskScore
	lastOrderBy string
	listCalls   int
}

func (m *mockRiskStore) ListRiskMetrics(_ context.Context, orderBy string, limit, offset int) ([]store.RiskMetric, error) {
	m.listCalls++
	m.lastOrderBy = orderBy
	return m.metrics, nil
}

func (m *mockRiskStore) CountRiskMetrics(_ context.Context) (int, error) {
	return len(m.metrics), nil
}

func (m *mockRiskStore) ListRiskScores(_ context.Context, limit, offset int) ([]store.RiskScore, error) {
	m.listCalls++
	return m.scores, nil
}

func (m *mockRiskStore) CountRiskScores(_ context.Context) (int, error) {
	return len(m.scores), nil
}

// mockSnapshotStore implements OnChainStore and TechnicalStore.
type mockSnapshotStore struct {
	onChain   *store.OnChainSnapshot
	technical *store.TechnicalSnapshot
	getCalls  int
	upsertErr error
}

func (m *mockSnapshotStore) UpsertOnChainSnapshot(_ context.Context, snap *store.OnChainSnapshot) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	snap.UpdatedAt = storeTime
	m.onChain = snap
	return nil
}

func (m *mockSnapshotStore) GetOnChainSnapshot(_ context.Context) (*store.OnChainSnapshot, error) {
	m.getCalls++
	return m.onChain, nil
}

func (m *mockSnapshotStore) UpsertTechnicalSnapshot(_ context.Context, snap *store.TechnicalSnapshot) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	snap.UpdatedAt = storeTime
	m.technical = snap
	return nil
}

func (m *mockSnapshotStore) GetTechnicalSnapshot(_ context.Context) (*store.TechnicalSnapshot, error) {
	m.getCalls++
	return m.technical, nil
}

// raw sources for the fan-out handlers

type stubRaw struct {
	raw json.RawMessage
	err error
}

func (s *stubRaw) Rows(_ context.Context) (json.RawMessage, error)         { return s.raw, s.err }
func (s *stubRaw) TVLChart(_ context.Context) (json.RawMessage, error)     { return s.raw, s.err }
func (s *stubRaw) Balance(_ context.Context) (json.RawMessage, error)      { return s.raw, s.err }
func (s *stubRaw) Swaps(_ context.Context) (json.RawMessage, error)        { return s.raw, s.err }
func (s *stubRaw) Transactions(_ context.Context) (json.RawMessage, error) { return s.raw, s.err }

type stubSim struct {
	enabled bool
	raw     json.RawMessage
	err     error
}

func (s *stubSim) Enabled() bool { return s.enabled }
func (s *stubSim) Simulate(_ context.Context, _, _, _ string) (json.RawMessage, error) {
	return s.raw, s.err
}
