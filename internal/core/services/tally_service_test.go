package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/election/internal/core/domain"
	"github.com/vncsmyrnk/election/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestTally_UnavailableBeforeOpen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)

	_, err := h.tally.ComputeResults(ctx, g.election.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.elections.Schedule(ctx, g.election.ID)
	require.NoError(t, err)
	_, err = h.tally.ComputeResults(ctx, g.election.ID)
	assert.ErrorIs(t, err, domain.ErrResultsUnavailable)

	_, err = h.tally.ComputeResults(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrElectionNotFound)
}

func TestTally_ProvisionalThenFinal(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p1.ID))
	require.NoError(t, h.vote(g.election.ID, g.voterD2.ID, g.p1.ID))
	require.NoError(t, h.vote(g.election.ID, g.voterD3.ID, g.p3.ID))

	provisional, err := h.tally.ComputeResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.True(t, provisional.Provisional)
	assert.Equal(t, int64(3), provisional.TotalVotes)

	_, err = h.tally.PublishedResults(ctx, g.election.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.elections.Stop(ctx, g.election.ID)
	require.NoError(t, err)

	final, err := h.tally.PublishedResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.False(t, final.Provisional)
	assert.Equal(t, domain.StateClosed, final.State)

	require.Len(t, final.Constituencies, 2)
	a := final.Constituencies[0]
	assert.Equal(t, g.a.ID, a.ConstituencyID)
	assert.Equal(t, []domain.PartyTally{
		{PartyID: g.p1.ID, CitizenID: g.x.ID, Votes: 2},
		{PartyID: g.p2.ID, CitizenID: g.y.ID, Votes: 0},
	}, a.Parties)
	require.NotNil(t, a.Winner)
	assert.Equal(t, g.p1.ID, a.Winner.PartyID)

	again, err := h.tally.ComputeResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Equal(t, final, again)
}

func TestTally_ExpiredElectionIsClosedOnRead(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p1.ID))
	h.clock.Advance(time.Duration(g.election.TimeLimitHours) * time.Hour)

	results, err := h.tally.ComputeResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.False(t, results.Provisional)
	assert.Equal(t, domain.StateClosed, results.State)

	stored, err := h.store.Elections().GetByID(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateClosed, stored.State)
	require.NotNil(t, stored.ClosedAt)
	assert.Equal(t, h.clock.Now(), *stored.ClosedAt)

	published, err := h.tally.PublishedResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), published.TotalVotes)
}

func TestTally_TieBreakPolicyIsSwappable(t *testing.T) {
	highest := func(tied []domain.PartyTally) domain.PartyTally {
		best := tied[0]
		for _, p := range tied[1:] {
			if p.CitizenID.String() > best.CitizenID.String() {
				best = p
			}
		}
		return best
	}
	h := newHarness(t, WithTieBreak(highest))
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)

	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p1.ID))
	require.NoError(t, h.vote(g.election.ID, g.voterD2.ID, g.p2.ID))

	results, err := h.tally.ComputeResults(ctx, g.election.ID)
	require.NoError(t, err)

	want := g.x.ID
	if g.y.ID.String() > want.String() {
		want = g.y.ID
	}
	require.NotNil(t, results.Constituencies[0].Winner)
	assert.Equal(t, want, results.Constituencies[0].Winner.CitizenID)
	assert.Nil(t, results.Constituencies[1].Winner, "no votes, no winner")
}

func TestTally_ClosedResultsAreCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockResultsCache(ctrl)

	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)
	require.NoError(t, h.vote(g.election.ID, g.voterD3.ID, g.p3.ID))

	tally := NewTallyService(h.store.Elections(), h.store.Registry(), h.store.Candidacies(), h.store.Votes(), cache,
		WithClock(h.clock))

	// open elections bypass the cache entirely
	provisional, err := tally.ComputeResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.True(t, provisional.Provisional)

	_, err = h.elections.Stop(ctx, g.election.ID)
	require.NoError(t, err)

	var stored *domain.ElectionResults
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), g.election.ID).Return(nil, false, nil),
		cache.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *domain.ElectionResults) error {
			stored = r
			return nil
		}),
	)
	first, err := tally.PublishedResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Same(t, first, stored)

	cache.EXPECT().Get(gomock.Any(), g.election.ID).Return(stored, true, nil)
	second, err := tally.PublishedResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Same(t, stored, second)
}

func TestTally_CacheFailureFallsBackToCounting(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockResultsCache(ctrl)

	h := newHarness(t)
	ctx := context.Background()
	g := h.generalElection(t)
	h.open(t, g)
	require.NoError(t, h.vote(g.election.ID, g.voterD1.ID, g.p2.ID))
	_, err := h.elections.Stop(ctx, g.election.ID)
	require.NoError(t, err)

	tally := NewTallyService(h.store.Elections(), h.store.Registry(), h.store.Candidacies(), h.store.Votes(), cache,
		WithClock(h.clock), WithLogger(discardLogger()))

	cache.EXPECT().Get(gomock.Any(), g.election.ID).Return(nil, false, assert.AnError)
	cache.EXPECT().Put(gomock.Any(), gomock.Any()).Return(assert.AnError)

	results, err := tally.PublishedResults(ctx, g.election.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results.TotalVotes)
}
