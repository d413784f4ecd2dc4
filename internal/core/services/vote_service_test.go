package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/core/domain"
)

func TestGeneralElectionScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p1.ID))

	err := h.vote(g.election.ID, g.voterD1.ID, g.p1.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	err = h.vote(g.election.ID, g.voterD3.ID, g.p1.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrNotContesting)

	_, err = h.elections.Stop(ctx, g.election.ID)
	require.NoError(t, err)

	results, err := h.tally.ComputeResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.False(t, results.Provisional)
	assert.Equal(t, int64(1), results.TotalVotes)

	a := results.Constituencies[0]
	assert.Equal(t, g.a.ID, a.ConstituencyID)
	require.Len(t, a.Parties, 2)
	assert.Equal(t, g.p1.ID, a.Parties[0].PartyID)
	assert.Equal(t, int64(1), a.Parties[0].Votes)
	assert.Equal(t, int64(0), a.Parties[1].Votes)
	require.NotNil(t, a.Winner)
	assert.Equal(t, g.p1.ID, a.Winner.PartyID)

	b := results.Constituencies[1]
	assert.Equal(t, int64(0), b.TotalVotes)
	assert.Nil(t, b.Winner)
}

func TestCastVote_ConcurrentDuplicatesYieldOneSuccess(t *testing.T) {
	h := newHarness(t)
	g := h.generalElection(t)
	h.open(t, g)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
		others    []error
	)

	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := h.vote(g.election.ID, g.voterD1.ID, g.p1.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case domain.KindOf(err) == domain.KindConflict:
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Empty(t, others)

	votes, err := h.store.Votes().ListByElection(context.Background(), g.election.ID)
	require.NoError(t, err)
	assert.Len(t, votes, 1)
}

func TestCastVote_RejectedUnlessOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		prepare func(t *testing.T, h *harness, g *generalElection)
	}{
		{
			name:    "draft",
			prepare: func(t *testing.T, h *harness, g *generalElection) {},
		},
		{
			name: "scheduled",
			prepare: func(t *testing.T, h *harness, g *generalElection) {
				_, err := h.elections.Schedule(ctx, g.election.ID)
				require.NoError(t, err)
			},
		},
		{
			name: "closed",
			prepare: func(t *testing.T, h *harness, g *generalElection) {
				h.open(t, g)
				_, err := h.elections.Stop(ctx, g.election.ID)
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			g := h.generalElection(t)
			tt.prepare(t, h, g)

			err := h.vote(g.election.ID, g.voterD1.ID, g.p1.ID)
			assert.ErrorIs(t, err, domain.ErrInvalidState)

			votes, err := h.store.Votes().ListByElection(ctx, g.election.ID)
			require.NoError(t, err)
			assert.Empty(t, votes)
		})
	}
}

func TestCastVote_UnknownElection(t *testing.T) {
	h := newHarness(t)
	err := h.vote(uuid.New(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestCastVote_AlreadyVotedTakesPrecedenceOverValidation(t *testing.T) {
	h := newHarness(t)
	g := h.generalElection(t)
	h.open(t, g)

	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p2.ID))

	err := h.vote(g.election.ID, g.voterD1.ID, g.p3.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestCastVote_NotEligibleWhenDistrictUnassigned(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	d4 := h.district(t, "D4")
	outsider := h.citizen(t, "Outsider", d4)

	err := h.vote(g.election.ID, outsider.ID, g.p1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	err = h.vote(g.election.ID, uuid.New(), g.p1.ID)
	assert.ErrorIs(t, err, domain.ErrCitizenNotFound)

	votes, err := h.store.Votes().ListByElection(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestCastVote_ExpiredElectionIsClosedOnTheSpot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	h.clock.Advance(25 * time.Hour)

	err := h.vote(g.election.ID, g.voterD1.ID, g.p1.ID)
	assert.ErrorIs(t, err, domain.ErrElectionNotOpen)

	e, err := h.store.Elections().GetByID(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, e.State)
	require.NotNil(t, e.ClosedAt)
}

func TestVoterKey_DoesNotExposeCitizen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p1.ID))

	votes, err := h.store.Votes().ListByElection(ctx, g.election.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.NotContains(t, votes[0].VoterKey, g.voterD1.ID.String())
	assert.Equal(t, h.keyer.VoterKey(g.election.ID, g.voterD1.ID), votes[0].VoterKey)
	assert.NotEqual(t, h.keyer.VoterKey(uuid.New(), g.voterD1.ID), votes[0].VoterKey)
}

func TestBallot(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)

	_, err := h.votes.Ballot(ctx, g.election.ID, g.voterD2.ID)
	assert.ErrorIs(t, err, domain.ErrElectionNotOpen)

	h.open(t, g)

	ballot, err := h.votes.Ballot(ctx, g.election.ID, g.voterD2.ID)
	require.NoError(t, err)
	assert.Equal(t, g.a.ID, ballot.ConstituencyID)
	assert.Equal(t, "A", ballot.Constituency)
	require.Len(t, ballot.Entries, 2)
	assert.Equal(t, "P1", ballot.Entries[0].PartyName)
	assert.Equal(t, "X", ballot.Entries[0].Candidate)
	assert.Equal(t, "P2", ballot.Entries[1].PartyName)
	assert.False(t, ballot.HasVoted)

	require.NoError(t, h.vote(g.election.ID, g.voterD2.ID, g.p2.ID))

	ballot, err = h.votes.Ballot(ctx, g.election.ID, g.voterD2.ID)
	require.NoError(t, err)
	assert.True(t, ballot.HasVoted)
}

func TestOpenElections_HidesExpired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	open, err := h.votes.OpenElections(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, g.election.ID, open[0].ID)

	h.clock.Advance(24 * time.Hour)

	open, err = h.votes.OpenElections(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}
